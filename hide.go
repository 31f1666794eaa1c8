package stega

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// HideConfig stores the configuration options for the Hide operation.
type HideConfig struct {
	// ImagePath is the path on disk to a supported lossless image.
	ImagePath string
	// FilePath is the path on disk to the file to hide.
	FilePath string
	// OutPath is the path on disk to write the output image. Its extension picks the format.
	OutPath string
	// BitsPerChannel is the number of low-order bits (1-8) to write per colour channel.
	BitsPerChannel uint8
	// Key is the passphrase to encrypt with. Empty disables encryption.
	Key string
	// Compress zstd-compresses the file before encryption.
	Compress bool
	// MaxCorrectableErrors is the number of bit errors to be able to correct for per file chunk. Setting it to 0 disables bit ECC.
	MaxCorrectableErrors uint8
	// OutputLevel is the amount of output to provide.
	OutputLevel OutputLevel
	// Output receives progress lines. Defaults to stderr.
	Output io.Writer
}

func (config *HideConfig) validate() error {
	if len(config.ImagePath) <= 0 {
		return &InvalidFormatError{"ImagePath is empty."}
	}
	if len(config.FilePath) <= 0 {
		return &InvalidFormatError{"FilePath is empty."}
	}
	if len(config.OutPath) <= 0 {
		return &InvalidFormatError{"OutPath is empty."}
	}
	if _, err := FormatFromPath(config.OutPath); err != nil {
		return err
	}
	if !validBitsPerChannel(config.BitsPerChannel) {
		return &InvalidFormatError{fmt.Sprintf("BitsPerChannel is outside the allowed range of %d-%d: Provided %d.",
			MinBitsPerChannel, MaxBitsPerChannel, config.BitsPerChannel)}
	}
	return validCorrectableErrors(config.MaxCorrectableErrors)
}

// Hide hides the contents of a file in an image on disk, and saves the result to a new image.
// The source image is left untouched.
func Hide(config *HideConfig) error {
	if err := config.validate(); err != nil {
		return err
	}
	p := newPrinter(config.OutputLevel, config.Output)

	p.printlnLvl(OutputDebug, fmt.Sprintf("stega v%v", Version()))

	p.printlnLvl(OutputSteps, fmt.Sprintf("Loading the image from '%v'...", config.ImagePath))
	img, err := LoadImage(config.ImagePath)
	if err != nil {
		return err
	}
	capacity, err := Capacity(img, config.BitsPerChannel)
	if err != nil {
		return err
	}
	p.printfLvl(OutputInfo, "Image info:\n\tDimensions: %dx%dpx\n\tColour model: %v\n\tBits per channel: %d\n\tCapacity: %s",
		img.Width(), img.Height(), img.SourceModel(), config.BitsPerChannel, humanize.IBytes(capacity.Bytes))

	p.printlnLvl(OutputSteps, fmt.Sprintf("Reading the file at '%v'...", config.FilePath))
	payload, err := os.ReadFile(config.FilePath)
	if err != nil {
		return err
	}
	p.printlnLvl(OutputInfo, fmt.Sprintf("Input file size: %s (%s B)",
		humanize.IBytes(uint64(len(payload))), humanize.Comma(int64(len(payload)))))

	if config.Compress {
		p.printlnLvl(OutputSteps, "Compressing the file...")
	}
	if len(config.Key) > 0 {
		p.printlnLvl(OutputSteps, "Encrypting the file...")
	}
	if config.MaxCorrectableErrors > 0 {
		p.printlnLvl(OutputSteps, "Setting up data ECC...")
		if p.level >= OutputInfo {
			ecc, err := newECC(config.MaxCorrectableErrors)
			if err != nil {
				return err
			}
			p.printfLvl(OutputInfo, "Using a %v (%.2f%% ECC)", ecc.config, 100*ecc.ratio())
		}
	}
	p.printlnLvl(OutputSteps, "Encoding the file into the image...")
	out, err := Export(img, payload, ExportOptions{
		BitsPerChannel:       config.BitsPerChannel,
		Key:                  config.Key,
		Compress:             config.Compress,
		MaxCorrectableErrors: config.MaxCorrectableErrors,
	})
	if err != nil {
		return err
	}
	if p.level >= OutputDebug {
		if h, err := Inspect(out); err == nil {
			p.printfLvl(OutputDebug, "Header: version %d, %d bits/channel, CRC %#04x, %d bytes stored",
				h.Version, h.BitsPerChannel, h.CRC, h.PayloadLength)
		}
	}

	p.printlnLvl(OutputSteps, fmt.Sprintf("Writing the encoded image to '%v' now...", config.OutPath))
	if err = SaveImage(out, config.OutPath); err != nil {
		p.printlnLvl(OutputSteps, "An error occurred while writing to the final image.")
		return err
	}

	p.printlnLvl(OutputSteps, "All done! c:")
	return nil
}
