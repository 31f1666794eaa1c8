package stega

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageGetSet(t *testing.T) {
	img := NewImage(3, 2)
	img.Set(2, 1, 0x11223344)
	assert.Equal(t, uint32(0x11223344), img.Get(2, 1))
	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, img.NRGBA().NRGBAAt(2, 1))
	assert.Equal(t, uint32(0), img.Get(0, 0))
}

func TestFromImageRebasesBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	src.SetNRGBA(7, 6, color.NRGBA{R: 9, G: 8, B: 7, A: 6})

	img := FromImage(src)
	assert.Equal(t, 3, img.Width())
	assert.Equal(t, 2, img.Height())
	assert.Equal(t, uint32(0x01020304), img.Get(0, 0))
	assert.Equal(t, uint32(0x09080706), img.Get(2, 1))
	assert.Equal(t, "NRGBA", img.SourceModel())
}

func TestFromImageConvertsOtherModels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 1, color.Gray{Y: 200})
	img := FromImage(gray)
	assert.Equal(t, uint32(0xc8c8c8ff), img.Get(1, 1))
	assert.Equal(t, "Gray", img.SourceModel())

	pal := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{color.NRGBA{R: 10, G: 20, B: 30, A: 255}})
	assert.Equal(t, "Paletted", FromImage(pal).SourceModel())
}

func TestCloneIsIndependent(t *testing.T) {
	src := makeTestImage(8, 8)
	c := Clone(src)
	c.Set(0, 0, 0)
	assert.NotEqual(t, src.Get(0, 0), c.Get(0, 0))
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.png":     FormatPNG,
		"dir/B.PNG": FormatPNG,
		"c.bmp":     FormatBMP,
		"d.qoi":     FormatQOI,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	for _, path := range []string{"e.jpg", "f.jpeg", "g", "h.gif"} {
		_, err := FormatFromPath(path)
		assert.Equal(t, KindInvalidFormat, KindOf(err), path)
	}
}

func TestFileFormatsPreserveHiddenData(t *testing.T) {
	payload := []byte(testAivan)
	for _, ext := range []string{".png", ".bmp", ".qoi"} {
		t.Run(ext, func(t *testing.T) {
			out, err := Export(makeTestImage(96, 64), payload, ExportOptions{BitsPerChannel: 4, Key: "zappadam"})
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "out"+ext)
			require.NoError(t, SaveImage(out, path))

			loaded, err := LoadImage(path)
			require.NoError(t, err)
			assert.Equal(t, pixelsOf(out), pixelsOf(loaded))

			got, err := Import(loaded, ImportOptions{Key: "zappadam"})
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestPNGKeepsTranslucentPixelsExact(t *testing.T) {
	src := makeTestImage(40, 40)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.Set(x, y, src.Get(x, y)&^0xff|uint32(x*6))
		}
	}
	out, err := Export(src, []byte("alpha"), ExportOptions{BitsPerChannel: 8})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeImage(&buf, out, FormatPNG))
	loaded, name, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", name)
	assert.Equal(t, pixelsOf(out), pixelsOf(loaded))
}

func TestDecodeImageDetectsFormat(t *testing.T) {
	src := makeTestImage(12, 9)
	for _, f := range []Format{FormatPNG, FormatBMP, FormatQOI} {
		var buf bytes.Buffer
		require.NoError(t, EncodeImage(&buf, src, f))
		img, name, err := DecodeImage(&buf)
		require.NoError(t, err, f.String())
		assert.Equal(t, f.String(), name)
		assert.Equal(t, pixelsOf(src), pixelsOf(img), f.String())
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadImage(filepath.Join(dir, "missing.png"))
	assert.Equal(t, KindSourceLoad, KindOf(err))

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0644))
	_, err = LoadImage(garbage)
	var sl *SourceLoadError
	require.True(t, assert.ErrorAs(t, err, &sl))
	assert.Equal(t, garbage, sl.Path)
}

func TestSaveImageRejectsLossy(t *testing.T) {
	err := SaveImage(makeTestImage(8, 8), filepath.Join(t.TempDir(), "out.jpg"))
	assert.Equal(t, KindInvalidFormat, KindOf(err))
}
