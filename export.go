package stega

import (
	"fmt"

	"github.com/zedseven/stega/internal/pcb"
)

// ExportOptions configures Export.
type ExportOptions struct {
	// BitsPerChannel is the number of low-order bits (1-8) of each colour channel the payload may use.
	BitsPerChannel uint8
	// Key is the passphrase to encrypt the payload with. Empty means no encryption.
	Key string
	// Compress zstd-compresses the payload before encryption. Import must be told to decompress.
	Compress bool
	// Cipher overrides the default AES-256-CFB cipher.
	Cipher Cipher
	// MaxCorrectableErrors is the number of bit errors to be able to correct for per 32-byte chunk.
	// Setting it to 0 disables bit ECC. Import must be given the same value.
	MaxCorrectableErrors uint8
}

func (o *ExportOptions) validate() error {
	if !validBitsPerChannel(o.BitsPerChannel) {
		return &InvalidFormatError{fmt.Sprintf("BitsPerChannel is outside the allowed range of %d-%d: Provided %d.",
			MinBitsPerChannel, MaxBitsPerChannel, o.BitsPerChannel)}
	}
	return validCorrectableErrors(o.MaxCorrectableErrors)
}

func validCorrectableErrors(n uint8) error {
	if n > MaxCorrectableErrors {
		return &InvalidFormatError{fmt.Sprintf("MaxCorrectableErrors is above the maximum of %d: Provided %d.",
			MaxCorrectableErrors, n)}
	}
	return nil
}

// Export returns a copy of src with payload hidden in it. src itself is never modified.
//
// The payload is compressed, encrypted and ECC-encoded first if requested, and capacity is checked
// against the bytes that will actually be stored. Nothing is written unless the whole container fits.
func Export(src PixelStore, payload []byte, opts ExportOptions) (*Image, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := checkPayloadSize(uint64(len(payload))); err != nil {
		return nil, err
	}

	stored, err := seal(payload, opts.Compress, opts.Cipher, opts.Key)
	if err != nil {
		return nil, err
	}
	if opts.MaxCorrectableErrors > 0 {
		ecc, err := newECC(opts.MaxCorrectableErrors)
		if err != nil {
			return nil, err
		}
		if stored, err = ecc.encode(stored); err != nil {
			return nil, err
		}
	}
	if err = checkPayloadSize(uint64(len(stored))); err != nil {
		return nil, err
	}
	if err = checkFit(src, uint64(len(stored)), opts.BitsPerChannel); err != nil {
		return nil, err
	}

	out := Clone(src)
	header := EncodeHeader(stored, opts.BitsPerChannel, FileVersion)
	if err = pcb.Write(out, header[:], 0, headerBitsPerChannel); err != nil {
		return nil, err
	}
	if err = pcb.Write(out, stored, HeaderPixels, opts.BitsPerChannel); err != nil {
		return nil, err
	}
	return out, nil
}

// seal turns a payload into the bytes that get embedded.
func seal(payload []byte, doCompress bool, c Cipher, key string) ([]byte, error) {
	data := payload
	var err error
	if doCompress {
		if data, err = compress(data); err != nil {
			return nil, err
		}
	}
	if len(key) > 0 {
		if data, err = Encrypt(c, data, key); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func checkPayloadSize(n uint64) error {
	if n > MaxPayloadSize {
		return &PayloadTooLargeError{Size: n}
	}
	return nil
}

// checkFit verifies that the header and a stored payload of n bytes fit in store.
func checkFit(store PixelStore, n uint64, bitsPerChannel uint8) error {
	if pixelCount(store) < HeaderPixels {
		return &CapacityExceededError{Requested: HeaderSize + n, Available: 0}
	}
	return CheckCapacity(n*bitsPerByte, MaxStorableBits(pixelCount(store), bitsPerChannel))
}
