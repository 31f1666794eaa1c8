package stega

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
)

// PixelStore is a raster of packed 0xRRGGBBAA pixels.
type PixelStore interface {
	Width() int
	Height() int
	Get(x, y int) uint32
	Set(x, y int, rgba uint32)
}

// Image is an in-memory PixelStore backed by non-premultiplied RGBA, so colour channels
// keep their exact values whatever the alpha.
type Image struct {
	img   *image.NRGBA
	model color.Model
}

// NewImage returns a fully transparent w x h image.
func NewImage(w, h int) *Image {
	return &Image{img: image.NewNRGBA(image.Rect(0, 0, w, h)), model: color.NRGBAModel}
}

// FromImage copies any image.Image into a new Image whose origin is (0, 0).
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	out := NewImage(b.Dx(), b.Dy())
	out.model = src.ColorModel()

	// Each colour model has to be handled individually
	switch simg := src.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			start := simg.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.img.Pix[y*out.img.Stride:], simg.Pix[start:start+4*b.Dx()])
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.img.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
			}
		}
	}
	return out
}

// Clone copies any PixelStore into a new Image.
func Clone(store PixelStore) *Image {
	if src, ok := store.(*Image); ok {
		out := FromImage(src.img)
		out.model = src.model
		return out
	}
	out := NewImage(store.Width(), store.Height())
	for y := 0; y < store.Height(); y++ {
		for x := 0; x < store.Width(); x++ {
			out.Set(x, y, store.Get(x, y))
		}
	}
	return out
}

func (i *Image) Width() int  { return i.img.Rect.Dx() }
func (i *Image) Height() int { return i.img.Rect.Dy() }

func (i *Image) Get(x, y int) uint32 {
	o := i.img.PixOffset(x, y)
	p := i.img.Pix[o : o+4 : o+4]
	return uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
}

func (i *Image) Set(x, y int, rgba uint32) {
	o := i.img.PixOffset(x, y)
	p := i.img.Pix[o : o+4 : o+4]
	p[0] = uint8(rgba >> 24)
	p[1] = uint8(rgba >> 16)
	p[2] = uint8(rgba >> 8)
	p[3] = uint8(rgba)
}

// SourceModel names the colour model the image was converted from.
func (i *Image) SourceModel() string {
	return colourModelToStr(i.model)
}

// NRGBA exposes the backing image for encoding or drawing.
func (i *Image) NRGBA() *image.NRGBA {
	return i.img
}

// Format is a lossless image file format the pixel store can read and write.
type Format int

const (
	FormatUnknown Format = iota
	FormatPNG
	FormatBMP
	FormatQOI
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatQOI:
		return "qoi"
	default:
		return "<unknown>"
	}
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".qoi":
		return FormatQOI, nil
	default:
		return FormatUnknown, &InvalidFormatError{fmt.Sprintf(
			"Unsupported output format '%v': only lossless .png, .bmp and .qoi images can carry data.", filepath.Ext(path))}
	}
}

// DecodeImage reads a PNG, BMP or QOI image. The returned name is the detected format.
// The bmp and qoi packages register their decoders with image on import.
func DecodeImage(r io.Reader) (*Image, string, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return FromImage(img), name, nil
}

// EncodeImage writes img to w in format f.
func EncodeImage(w io.Writer, img *Image, f Format) error {
	switch f {
	case FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, img.img)
	case FormatBMP:
		return bmp.Encode(w, img.img)
	case FormatQOI:
		return qoi.Encode(w, img.img)
	default:
		return &InvalidFormatError{fmt.Sprintf("Unsupported output format %v.", f)}
	}
}

// LoadImage loads an image from disk. Every failure is a *SourceLoadError.
func LoadImage(imgPath string) (*Image, error) {
	imgFile, err := os.Open(imgPath)
	if err != nil {
		return nil, &SourceLoadError{Path: imgPath, Err: err}
	}
	defer imgFile.Close()

	img, _, err := DecodeImage(imgFile)
	if err != nil {
		return nil, &SourceLoadError{Path: imgPath, Err: err}
	}
	return img, nil
}

// SaveImage writes img to outPath in the format named by its extension.
func SaveImage(img *Image, outPath string) (err error) {
	f, err := FormatFromPath(outPath)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(out)
	if err = EncodeImage(w, img, f); err != nil {
		return err
	}
	return w.Flush()
}

func colourModelToStr(model color.Model) string {
	if _, ok := model.(color.Palette); ok {
		return "Paletted"
	}
	switch model {
	case color.Alpha16Model:
		return "Alpha16"
	case color.AlphaModel:
		return "Alpha"
	case color.CMYKModel:
		return "CMYK"
	case color.Gray16Model:
		return "Gray16"
	case color.GrayModel:
		return "Gray"
	case color.NRGBA64Model:
		return "NRGBA64"
	case color.NRGBAModel:
		return "NRGBA"
	case color.RGBA64Model:
		return "RGBA64"
	case color.RGBAModel:
		return "RGBA"
	case color.NYCbCrAModel:
		return "NYCbCrA"
	case color.YCbCrModel:
		return "YCbCr"
	default:
		return "<Unknown>"
	}
}
