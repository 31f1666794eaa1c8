// Package stega hides a byte payload in the low-order bits of an image's colour channels.
//
// The image carries a fixed 12-byte container header in its first 32 pixels, packed one bit per
// channel, followed by the payload packed at a configurable 1-8 bits per channel. The payload may be
// compressed and encrypted before it is embedded; the header's CRC always covers the bytes exactly as
// stored.
package stega

import "fmt"

const (
	bitsPerByte = 8

	// MagicNumber marks an image as carrying a stega container.
	MagicNumber uint32 = 0xB431A3EF
	// FileVersion is the newest container version this package reads and the one it writes.
	FileVersion uint8 = 1
	// HeaderSize is the encoded header length in bytes.
	HeaderSize = 12
	// HeaderPixels is the number of pixels reserved for the header: 32 pixels x 3 channels x 1 bit = 96 bits.
	HeaderPixels = 32
	// MaxPayloadSize is the largest payload the header's length field can describe.
	MaxPayloadSize uint64 = 0xFFFFFFFF

	// MinBitsPerChannel and MaxBitsPerChannel bound the payload bit-width.
	MinBitsPerChannel uint8 = 1
	MaxBitsPerChannel uint8 = 8

	headerBitsPerChannel uint8 = 1

	VersionMax uint8 = 1
	VersionMid uint8 = 0
	VersionMin uint8 = 0
)

// Version returns the library version string.
func Version() string {
	return fmt.Sprintf("%02d.%02d.%02d", VersionMax, VersionMid, VersionMin)
}

func validBitsPerChannel(bpc uint8) bool {
	return bpc >= MinBitsPerChannel && bpc <= MaxBitsPerChannel
}
