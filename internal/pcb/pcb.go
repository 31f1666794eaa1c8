// Package pcb maps payload bits onto (pixel, channel, bit) triples and moves
// them in and out of packed 0xRRGGBBAA pixel values.
package pcb

import (
	"github.com/zedseven/binmani"
	"github.com/zedseven/stega/internal/algos"
)

const (
	// Channels is the number of colour channels per pixel that carry data. Alpha is never touched.
	Channels    = 3
	bitsPerByte = 8
)

// Pixels is the slice of a pixel store the packer needs.
type Pixels interface {
	Width() int
	Height() int
	Get(x, y int) uint32
	Set(x, y int, rgba uint32)
}

// BitAddrToPCB converts an absolute bit address into the pixel, channel and in-channel bit it lives at.
// PCB = Pixel, Channel, Bit
func BitAddrToPCB(addr int64, bitsPerChannel uint8, pixelOffset int64) (pix int64, channel, bit uint8) {
	// Would normally floor here, but since all values are >= 0, integer division handles this for us
	pix = addr/int64(Channels*bitsPerChannel) + pixelOffset
	channel = uint8((addr / int64(bitsPerChannel)) % Channels)
	bit = uint8(addr % int64(bitsPerChannel))
	return
}

// PosToXY converts a row-major pixel index into image coordinates.
func PosToXY(pos int64, w int) (x, y int) {
	x = int(pos % int64(w))
	y = int(pos / int64(w))
	return
}

// Channel 0 (red) is the most significant byte.
func channelShift(channel uint8) uint8 {
	return 24 - bitsPerByte*channel
}

// WriteBit sets a single bit of one channel of rgba to value, leaving every other bit untouched.
func WriteBit(rgba uint32, channel, bit, value uint8) uint32 {
	shift := channelShift(channel)
	c := uint16((rgba >> shift) & 0xff)
	c = binmani.WriteTo(c, bit, 1, uint16(value&1))
	return (rgba &^ (0xff << shift)) | uint32(c)<<shift
}

// ReadBit extracts a single bit of one channel of rgba.
func ReadBit(rgba uint32, channel, bit uint8) uint8 {
	c := uint16((rgba >> channelShift(channel)) & 0xff)
	return uint8(binmani.ReadFrom(c, bit, 1))
}

// DataBit returns bit addr of data, enumerating each byte most-significant bit first.
func DataBit(data []byte, addr int64) uint8 {
	return (data[addr/bitsPerByte] >> (bitsPerByte - 1 - addr%bitsPerByte)) & 1
}

// poolSize is the number of bit slots available from pixelOffset to the end of the image.
func poolSize(px Pixels, pixelOffset int64, bitsPerChannel uint8) int64 {
	free := int64(px.Width())*int64(px.Height()) - pixelOffset
	if free < 0 {
		return 0
	}
	return free * Channels * int64(bitsPerChannel)
}

// Write packs data into px starting at pixelOffset, using the lowest bitsPerChannel bits of each channel.
// It returns an *algos.EmptyPoolError if the image runs out of slots; pixels written before that are not restored,
// so callers check capacity first.
func Write(px Pixels, data []byte, pixelOffset int64, bitsPerChannel uint8) error {
	next := algos.SequentialAddressor(poolSize(px, pixelOffset, bitsPerChannel))
	w := px.Width()
	n := int64(len(data)) * bitsPerByte
	for i := int64(0); i < n; i++ {
		addr, err := next()
		if err != nil {
			return err
		}
		p, c, b := BitAddrToPCB(addr, bitsPerChannel, pixelOffset)
		x, y := PosToXY(p, w)
		px.Set(x, y, WriteBit(px.Get(x, y), c, b, DataBit(data, addr)))
	}
	return nil
}

// Read unpacks n bytes from px starting at pixelOffset, the mirror image of Write.
func Read(px Pixels, pixelOffset int64, bitsPerChannel uint8, n int) ([]byte, error) {
	buf := make([]byte, n)
	next := algos.SequentialAddressor(poolSize(px, pixelOffset, bitsPerChannel))
	w := px.Width()
	total := int64(n) * bitsPerByte
	for i := int64(0); i < total; i++ {
		addr, err := next()
		if err != nil {
			return nil, err
		}
		p, c, b := BitAddrToPCB(addr, bitsPerChannel, pixelOffset)
		x, y := PosToXY(p, w)
		buf[addr/bitsPerByte] |= ReadBit(px.Get(x, y), c, b) << (bitsPerByte - 1 - addr%bitsPerByte)
	}
	return buf, nil
}
