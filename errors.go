package stega

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
// Branch on Kind (or use errors.As on the concrete types) rather than on Error() strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindSourceLoad
	KindMagicMismatch
	KindInvalidHeader
	KindUnsupportedVersion
	KindCapacityExceeded
	KindCrcMismatch
	KindPayloadTooLarge
	KindInvalidFormat
	KindCrypto
	KindCompression
	KindCorrection
)

func (k Kind) String() string {
	switch k {
	case KindSourceLoad:
		return "SourceLoad"
	case KindMagicMismatch:
		return "MagicMismatch"
	case KindInvalidHeader:
		return "InvalidHeader"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	case KindCapacityExceeded:
		return "CapacityExceeded"
	case KindCrcMismatch:
		return "CrcMismatch"
	case KindPayloadTooLarge:
		return "PayloadTooLarge"
	case KindInvalidFormat:
		return "InvalidFormat"
	case KindCrypto:
		return "Crypto"
	case KindCompression:
		return "Compression"
	case KindCorrection:
		return "Correction"
	default:
		return "<unknown>"
	}
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the Kind of err or of the first error it wraps that has one, or KindUnknown.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// SourceLoadError is returned when an image cannot be read or is not a supported lossless raster.
type SourceLoadError struct {
	Path string
	Err  error
}

func (e *SourceLoadError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("Unable to load the image at '%v': %v", e.Path, e.Err)
	}
	return fmt.Sprintf("Unable to load the image: %v", e.Err)
}

func (e *SourceLoadError) Unwrap() error { return e.Err }
func (e *SourceLoadError) Kind() Kind    { return KindSourceLoad }

// MagicMismatchError is returned when an image does not carry a container of this format.
type MagicMismatchError struct {
	Found uint32
}

func (e *MagicMismatchError) Error() string {
	return fmt.Sprintf("The image does not contain hidden data (magic %#08x, expected %#08x).", e.Found, MagicNumber)
}

func (e *MagicMismatchError) Kind() Kind { return KindMagicMismatch }

// InvalidHeaderError is returned when a header field is out of range.
type InvalidHeaderError struct {
	Field string
	Value uint64
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("The read header is not valid: %v = %d.", e.Field, e.Value)
}

func (e *InvalidHeaderError) Kind() Kind { return KindInvalidHeader }

// UnsupportedVersionError is returned when a container was written by a newer format version.
type UnsupportedVersionError struct {
	Version   uint8
	Supported uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("The container has file version %d, but only versions up to %d are supported.", e.Version, e.Supported)
}

func (e *UnsupportedVersionError) Kind() Kind { return KindUnsupportedVersion }

// CapacityExceededError is returned when the payload does not fit in the image at the requested bit-width.
// Requested and Available are in bytes.
type CapacityExceededError struct {
	Requested uint64
	Available uint64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("There is not enough space available to store the payload within the image: "+
		"%d bytes requested, %d bytes available.", e.Requested, e.Available)
}

func (e *CapacityExceededError) Kind() Kind { return KindCapacityExceeded }

// CrcMismatchError is returned when the stored payload does not match the header's checksum.
//
// The checksum covers the bytes exactly as embedded, which is ciphertext when a key was used.
// A mismatch therefore means the carrier image was altered; it says nothing about whether the
// decryption key is right, and a wrong key never produces this error.
type CrcMismatchError struct {
	Expected uint16
	Actual   uint16
}

func (e *CrcMismatchError) Error() string {
	return fmt.Sprintf("The hidden data is corrupted (CRC %#04x, expected %#04x).", e.Actual, e.Expected)
}

func (e *CrcMismatchError) Kind() Kind { return KindCrcMismatch }

// PayloadTooLargeError is returned when the payload is longer than the header's length field can describe.
type PayloadTooLargeError struct {
	Size uint64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("The payload is %d bytes, more than the maximum of %d.", e.Size, MaxPayloadSize)
}

func (e *PayloadTooLargeError) Kind() Kind { return KindPayloadTooLarge }

// InvalidFormatError is returned when the provided options are invalid.
type InvalidFormatError struct {
	ErrorDesc string
}

func (e *InvalidFormatError) Error() string {
	if len(e.ErrorDesc) > 0 {
		return e.ErrorDesc
	}
	return "The provided data is of an invalid format."
}

func (e *InvalidFormatError) Kind() Kind { return KindInvalidFormat }

// CryptoError wraps a failure of the cipher.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("Unable to %v the payload: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error { return e.Err }
func (e *CryptoError) Kind() Kind    { return KindCrypto }

// CompressionError wraps a failure to compress or decompress the payload.
// On import it usually means the compression or key setting does not match the one used to hide.
type CompressionError struct {
	Op  string
	Err error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("Unable to %v the payload: %v", e.Op, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }
func (e *CompressionError) Kind() Kind    { return KindCompression }

// CorrectionError wraps a failure of the error-correcting code, including a chunk with more bit
// errors than MaxCorrectableErrors allows.
type CorrectionError struct {
	Op    string
	Chunk int
	Err   error
}

func (e *CorrectionError) Error() string {
	if e.Op == "configure" {
		return fmt.Sprintf("Unable to set up error correction: %v", e.Err)
	}
	return fmt.Sprintf("Unable to %v chunk %d of the payload: %v", e.Op, e.Chunk, e.Err)
}

func (e *CorrectionError) Unwrap() error { return e.Err }
func (e *CorrectionError) Kind() Kind    { return KindCorrection }
