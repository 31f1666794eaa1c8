package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"lukechampine.com/flagg"

	"github.com/zedseven/stega"
)

// Program entry point

func main() {
	log.SetFlags(0)

	flagg.Root.Usage = flagg.SimpleUsage(flagg.Root, `Usage: stega [command] [args]

Commands:
    stega hide [flags] in.png FILE out.png
    stega dig [flags] in.png FILE
    stega info in.png
    stega capacity [-bits N] in.png
`)
	cmdHide := flagg.New("hide", `Usage:
    stega hide [flags] in.png FILE out.png
      Hide FILE in in.png, writing the result to out.png (.png, .bmp or .qoi)
`)
	cmdDig := flagg.New("dig", `Usage:
    stega dig [flags] in.png FILE
      Extract the file hidden in in.png to FILE
`)
	cmdInfo := flagg.New("info", `Usage:
    stega info in.png
      Print the container header of in.png
`)
	cmdCapacity := flagg.New("capacity", `Usage:
    stega capacity [-bits N] in.png
      Print how much in.png can hold, for one or every bit-width
`)

	hideFlags := addCommonFlags(cmdHide)
	hideBits := cmdHide.Uint("bits", 0, "The number of low-order bits to modify per channel (1-8)")
	digFlags := addCommonFlags(cmdDig)
	capBits := cmdCapacity.Uint("bits", 0, "The bit-width to report (1-8); 0 reports all of them")

	cmd := flagg.Parse(flagg.Tree{
		Cmd: flagg.Root,
		Sub: []flagg.Tree{
			{Cmd: cmdHide},
			{Cmd: cmdDig},
			{Cmd: cmdInfo},
			{Cmd: cmdCapacity},
		},
	})

	var err error
	switch cmd {
	case cmdHide:
		if cmd.NArg() != 3 {
			cmd.Usage()
			os.Exit(2)
		}
		err = runHide(cmd, hideFlags, *hideBits)
	case cmdDig:
		if cmd.NArg() != 2 {
			cmd.Usage()
			os.Exit(2)
		}
		err = runDig(cmd, digFlags)
	case cmdInfo:
		if cmd.NArg() != 1 {
			cmd.Usage()
			os.Exit(2)
		}
		err = runInfo(cmd.Arg(0))
	case cmdCapacity:
		if cmd.NArg() != 1 {
			cmd.Usage()
			os.Exit(2)
		}
		err = runCapacity(cmd.Arg(0), *capBits)
	default:
		flagg.Root.Usage()
		os.Exit(2)
	}

	if err != nil {
		if kind := stega.KindOf(err); kind != stega.KindUnknown {
			log.Fatalf("stega: %v: %v", kind, err)
		}
		log.Fatalln("stega:", err)
	}
}

type commonFlags struct {
	config   *string
	key      *string
	askKey   *bool
	compress *bool
	ecc      *uint
	verbose  *int
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:   fs.String("config", "", "The filepath to a YAML file with default settings"),
		key:      fs.String("key", "", "The passphrase to encrypt or decrypt with"),
		askKey:   fs.Bool("ask-key", false, "Prompt for the passphrase instead of passing it with -key"),
		compress: fs.Bool("compress", false, "Whether the payload is zstd-compressed"),
		ecc:      fs.Uint("ecc", 0, "The number of bit errors to be able to correct per 32-byte chunk; 0 disables ECC"),
		verbose:  fs.Int("v", -1, "The output level: 0 none, 1 steps, 2 info, 3 debug"),
	}
}

// resolve merges the YAML defaults with whatever was passed explicitly on the command line.
func (f commonFlags) resolve(fs *flag.FlagSet) (cfg fileConfig, key string, err error) {
	if cfg, err = loadConfig(*f.config); err != nil {
		return cfg, "", err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "compress":
			cfg.Compress = *f.compress
		case "ecc":
			if *f.ecc > uint(stega.MaxCorrectableErrors) {
				err = &stega.InvalidFormatError{ErrorDesc: fmt.Sprintf("-ecc must be at most %d, got %d.",
					stega.MaxCorrectableErrors, *f.ecc)}
				return
			}
			cfg.ECC = uint8(*f.ecc)
		}
	})
	if err != nil {
		return cfg, "", err
	}

	key = *f.key
	if *f.askKey {
		if key, err = readPassphrase(); err != nil {
			return cfg, "", err
		}
	}
	return cfg, key, nil
}

func readPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("empty passphrase")
	}
	return string(b), nil
}

func runHide(cmd *flag.FlagSet, f commonFlags, bits uint) error {
	cfg, key, err := f.resolve(cmd)
	if err != nil {
		return err
	}
	if bits == 0 {
		bits = uint(cfg.BitsPerChannel)
	}
	if bits > uint(stega.MaxBitsPerChannel) {
		return &stega.InvalidFormatError{ErrorDesc: fmt.Sprintf("-bits must be between 1 and 8, got %d.", bits)}
	}
	return stega.Hide(&stega.HideConfig{
		ImagePath:      cmd.Arg(0),
		FilePath:       cmd.Arg(1),
		OutPath:        cmd.Arg(2),
		BitsPerChannel:       uint8(bits),
		Key:                  key,
		Compress:             cfg.Compress,
		MaxCorrectableErrors: cfg.ECC,
		OutputLevel:          cfg.outputLevel(*f.verbose),
	})
}

func runDig(cmd *flag.FlagSet, f commonFlags) error {
	cfg, key, err := f.resolve(cmd)
	if err != nil {
		return err
	}
	return stega.Dig(stega.DigConfig{
		ImagePath:            cmd.Arg(0),
		OutPath:              cmd.Arg(1),
		Key:                  key,
		Compress:             cfg.Compress,
		MaxCorrectableErrors: cfg.ECC,
		OutputLevel:          cfg.outputLevel(*f.verbose),
	})
}

func runInfo(path string) error {
	img, err := stega.LoadImage(path)
	if err != nil {
		return err
	}
	h, err := stega.Inspect(img)
	if err != nil {
		return err
	}
	fmt.Printf("File version:     %d\n", h.Version)
	fmt.Printf("Bits per channel: %d\n", h.BitsPerChannel)
	fmt.Printf("CRC:              %#04x\n", h.CRC)
	fmt.Printf("Stored size:      %s B (~ %s)\n",
		humanize.Comma(int64(h.PayloadLength)), humanize.IBytes(uint64(h.PayloadLength)))
	if h.Version > stega.FileVersion {
		fmt.Printf("This container is newer than the supported version %d.\n", stega.FileVersion)
	}
	return nil
}

func runCapacity(path string, bits uint) error {
	img, err := stega.LoadImage(path)
	if err != nil {
		return err
	}
	lo, hi := stega.MinBitsPerChannel, stega.MaxBitsPerChannel
	if bits != 0 {
		if bits > uint(stega.MaxBitsPerChannel) {
			return &stega.InvalidFormatError{ErrorDesc: fmt.Sprintf("-bits must be between 1 and 8, got %d.", bits)}
		}
		lo, hi = uint8(bits), uint8(bits)
	}
	fmt.Printf("%dx%d px\n", img.Width(), img.Height())
	for bpc := lo; bpc <= hi; bpc++ {
		c, err := stega.Capacity(img, bpc)
		if err != nil {
			return err
		}
		fmt.Printf("%d bit(s)/channel: %s B (~ %s)\n", bpc, humanize.Comma(int64(c.Bytes)), humanize.IBytes(c.Bytes))
	}
	return nil
}
