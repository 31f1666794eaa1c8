package stega

import (
	"encoding/binary"
	"hash/crc32"
)

// Header is the decoded container preamble.
type Header struct {
	Version        uint8
	BitsPerChannel uint8
	CRC            uint16
	PayloadLength  uint32
}

// Checksum returns the container checksum of data: the low 16 bits of its IEEE CRC-32.
func Checksum(data []byte) uint16 {
	return uint16(crc32.ChecksumIEEE(data) & 0xffff)
}

// EncodeHeader builds the 12-byte header describing payload, which must already be in its stored form.
// The caller guarantees len(payload) <= MaxPayloadSize.
func EncodeHeader(payload []byte, bitsPerChannel, version uint8) [HeaderSize]byte {
	var b [HeaderSize]byte
	word := uint32(bitsPerChannel) | uint32(version)<<8 | uint32(Checksum(payload))<<16
	binary.BigEndian.PutUint32(b[0:4], MagicNumber)
	binary.BigEndian.PutUint32(b[4:8], word)
	binary.BigEndian.PutUint32(b[8:12], uint32(len(payload)))
	return b
}

// DecodeHeader parses and validates a header. It does not check the version against FileVersion;
// Import does that separately so that Inspect can still report newer containers.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, &InvalidHeaderError{Field: "header", Value: uint64(len(b))}
	}
	if magic := binary.BigEndian.Uint32(b[0:4]); magic != MagicNumber {
		return Header{}, &MagicMismatchError{Found: magic}
	}

	word := binary.BigEndian.Uint32(b[4:8])
	h := Header{
		BitsPerChannel: uint8(word & 0xff),
		Version:        uint8((word >> 8) & 0xff),
		CRC:            uint16(word >> 16),
		PayloadLength:  binary.BigEndian.Uint32(b[8:12]),
	}

	if !validBitsPerChannel(h.BitsPerChannel) {
		return Header{}, &InvalidHeaderError{Field: "bits_per_channel", Value: uint64(h.BitsPerChannel)}
	}
	if h.Version < 1 {
		return Header{}, &InvalidHeaderError{Field: "file_version", Value: uint64(h.Version)}
	}
	return h, nil
}
