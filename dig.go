package stega

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// DigConfig stores the configuration options for the Dig operation.
type DigConfig struct {
	ImagePath            string      // The path on disk to an image produced by Hide.
	OutPath              string      // The path on disk to write the extracted file.
	Key                  string      // The passphrase used when hiding, or empty if none was.
	Compress             bool        // Whether the file was compressed when hiding.
	MaxCorrectableErrors uint8       // The ECC strength used when hiding, or 0 if none was.
	OutputLevel          OutputLevel // The amount of output to provide.
	Output               io.Writer   // Where progress lines go. Defaults to stderr.
}

// Dig extracts a file hidden by Hide from an image on disk, and saves it to OutPath.
// Key, Compress and MaxCorrectableErrors must match the ones used to hide it.
func Dig(config DigConfig) error {
	// Input validation
	if len(config.ImagePath) <= 0 {
		return &InvalidFormatError{"ImagePath is empty."}
	}
	if len(config.OutPath) <= 0 {
		return &InvalidFormatError{"OutPath is empty."}
	}
	p := newPrinter(config.OutputLevel, config.Output)

	p.printlnLvl(OutputSteps, fmt.Sprintf("Loading the image from '%v'...", config.ImagePath))
	img, err := LoadImage(config.ImagePath)
	if err != nil {
		return err
	}

	p.printlnLvl(OutputSteps, "Reading the header...")
	h, err := Inspect(img)
	if err != nil {
		return err
	}
	p.printfLvl(OutputInfo, "Header info:\n\tFile version: %d\n\tBits per channel: %d\n\tCRC: %#04x\n\tStored size: %s",
		h.Version, h.BitsPerChannel, h.CRC, humanize.IBytes(uint64(h.PayloadLength)))

	p.printlnLvl(OutputSteps, "Reading the file from the image...")
	payload, err := Import(img, ImportOptions{
		Key:                  config.Key,
		Compress:             config.Compress,
		MaxCorrectableErrors: config.MaxCorrectableErrors,
	})
	if err != nil {
		return err
	}

	p.printlnLvl(OutputSteps, fmt.Sprintf("Writing to the output file at '%v'...", config.OutPath))
	if err = os.WriteFile(config.OutPath, payload, 0644); err != nil {
		p.printlnLvl(OutputSteps, fmt.Sprintf("There was an error creating the file '%v'.", config.OutPath))
		return err
	}
	p.printlnLvl(OutputInfo, fmt.Sprintf("Output file size: %s (%s B)",
		humanize.IBytes(uint64(len(payload))), humanize.Comma(int64(len(payload)))))

	p.printlnLvl(OutputSteps, "All done! c:")
	return nil
}
