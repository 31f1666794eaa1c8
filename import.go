package stega

import (
	"github.com/zedseven/stega/internal/pcb"
)

// ImportOptions configures Import. Key, Compress and MaxCorrectableErrors must match the values
// used to export.
type ImportOptions struct {
	// Key is the passphrase to decrypt with. Empty means the payload was stored unencrypted.
	Key string
	// Compress decompresses the payload after decryption.
	Compress bool
	// Cipher overrides the default AES-256-CFB cipher.
	Cipher Cipher
	// MaxCorrectableErrors is the ECC strength the payload was exported with. 0 means no ECC.
	MaxCorrectableErrors uint8
}

// Inspect reads and validates the container header of src without touching the payload.
// Containers newer than FileVersion are reported, not rejected.
func Inspect(src PixelStore) (Header, error) {
	if pixelCount(src) < HeaderPixels {
		return Header{}, &MagicMismatchError{}
	}
	raw, err := pcb.Read(src, 0, headerBitsPerChannel, HeaderSize)
	if err != nil {
		return Header{}, err
	}
	return DecodeHeader(raw)
}

// Import extracts the payload hidden in src by Export.
//
// The CRC is checked on the stored bytes before decryption, so a corrupted carrier fails with a
// *CrcMismatchError while a wrong key silently yields different bytes (or a *CompressionError when
// compression was used).
//
// With ECC enabled, bit errors are corrected first and the CRC is checked on the repaired bytes.
// A chunk with too many errors fails with a *CorrectionError.
func Import(src PixelStore, opts ImportOptions) ([]byte, error) {
	if err := validCorrectableErrors(opts.MaxCorrectableErrors); err != nil {
		return nil, err
	}
	h, err := Inspect(src)
	if err != nil {
		return nil, err
	}
	if h.Version > FileVersion {
		return nil, &UnsupportedVersionError{Version: h.Version, Supported: FileVersion}
	}
	if uint64(h.PayloadLength)*bitsPerByte > MaxStorableBits(pixelCount(src), h.BitsPerChannel) {
		return nil, &InvalidHeaderError{Field: "payload_length", Value: uint64(h.PayloadLength)}
	}

	stored, err := pcb.Read(src, HeaderPixels, h.BitsPerChannel, int(h.PayloadLength))
	if err != nil {
		return nil, err
	}
	crc := Checksum(stored)
	if opts.MaxCorrectableErrors > 0 {
		if stored, crc, err = correct(stored, opts.MaxCorrectableErrors); err != nil {
			return nil, err
		}
	}
	if crc != h.CRC {
		return nil, &CrcMismatchError{Expected: h.CRC, Actual: crc}
	}

	return unseal(stored, opts.Compress, opts.Cipher, opts.Key)
}

// correct strips the ECC from stored. The returned checksum is that of stored after repair, so it
// matches the header exactly when every error was corrected.
func correct(stored []byte, maxErrors uint8) ([]byte, uint16, error) {
	ecc, err := newECC(maxErrors)
	if err != nil {
		return nil, 0, err
	}
	data, _, err := ecc.decode(stored)
	if err != nil {
		return nil, 0, err
	}
	repaired, err := ecc.encode(data)
	if err != nil {
		return nil, 0, err
	}
	return data, Checksum(repaired), nil
}

// unseal reverses seal.
func unseal(stored []byte, doCompress bool, c Cipher, key string) ([]byte, error) {
	data := stored
	var err error
	if len(key) > 0 {
		if data, err = Decrypt(c, data, key); err != nil {
			return nil, err
		}
	}
	if doCompress {
		if data, err = decompress(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}
