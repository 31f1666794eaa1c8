package stega

import (
	"fmt"

	"github.com/zedseven/stega/internal/pcb"
	"github.com/zedseven/stega/internal/util"
)

// CapacityInfo describes how much payload an image can carry at a given bit-width.
type CapacityInfo struct {
	BitsPerChannel uint8
	Bits           uint64
	Bytes          uint64
}

// MaxStorableBits returns how many payload bits fit in an image of pixelCount pixels
// once the header pixels are reserved. Images smaller than the header hold nothing.
func MaxStorableBits(pixelCount int64, bitsPerChannel uint8) uint64 {
	free := util.Max(pixelCount-HeaderPixels, 0)
	return uint64(free) * pcb.Channels * uint64(bitsPerChannel)
}

// CheckCapacity fails with a *CapacityExceededError when payloadBits exceeds capacity.
func CheckCapacity(payloadBits, capacity uint64) error {
	if payloadBits > capacity {
		return &CapacityExceededError{
			Requested: (payloadBits + bitsPerByte - 1) / bitsPerByte,
			Available: capacity / bitsPerByte,
		}
	}
	return nil
}

// Capacity reports the payload capacity of store at bitsPerChannel.
func Capacity(store PixelStore, bitsPerChannel uint8) (CapacityInfo, error) {
	if !validBitsPerChannel(bitsPerChannel) {
		return CapacityInfo{}, &InvalidFormatError{fmt.Sprintf(
			"BitsPerChannel is outside the allowed range of %d-%d: Provided %d.",
			MinBitsPerChannel, MaxBitsPerChannel, bitsPerChannel)}
	}
	bits := MaxStorableBits(pixelCount(store), bitsPerChannel)
	return CapacityInfo{BitsPerChannel: bitsPerChannel, Bits: bits, Bytes: bits / bitsPerByte}, nil
}

func pixelCount(store PixelStore) int64 {
	return int64(store.Width()) * int64(store.Height())
}
