package pcb

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedseven/stega/internal/algos"
)

type memPixels struct {
	w, h int
	pix  []uint32
}

func newMemPixels(w, h int, seed int64) *memPixels {
	r := rand.New(rand.NewSource(seed))
	m := &memPixels{w: w, h: h, pix: make([]uint32, w*h)}
	for i := range m.pix {
		m.pix[i] = r.Uint32()
	}
	return m
}

func (m *memPixels) Width() int                { return m.w }
func (m *memPixels) Height() int               { return m.h }
func (m *memPixels) Get(x, y int) uint32       { return m.pix[y*m.w+x] }
func (m *memPixels) Set(x, y int, rgba uint32) { m.pix[y*m.w+x] = rgba }

func TestBitAddrToPCB(t *testing.T) {
	for _, tc := range []struct {
		addr    int64
		bpc     uint8
		offset  int64
		pix     int64
		channel uint8
		bit     uint8
	}{
		{addr: 0, bpc: 1, offset: 0, pix: 0, channel: 0, bit: 0},
		{addr: 1, bpc: 1, offset: 0, pix: 0, channel: 1, bit: 0},
		{addr: 2, bpc: 1, offset: 0, pix: 0, channel: 2, bit: 0},
		{addr: 3, bpc: 1, offset: 0, pix: 1, channel: 0, bit: 0},
		{addr: 95, bpc: 1, offset: 0, pix: 31, channel: 2, bit: 0},
		{addr: 0, bpc: 3, offset: 32, pix: 32, channel: 0, bit: 0},
		{addr: 4, bpc: 3, offset: 32, pix: 32, channel: 1, bit: 1},
		{addr: 8, bpc: 3, offset: 32, pix: 32, channel: 2, bit: 2},
		{addr: 9, bpc: 3, offset: 32, pix: 33, channel: 0, bit: 0},
		{addr: 23, bpc: 8, offset: 32, pix: 32, channel: 2, bit: 7},
		{addr: 24, bpc: 8, offset: 32, pix: 33, channel: 0, bit: 0},
	} {
		pix, channel, bit := BitAddrToPCB(tc.addr, tc.bpc, tc.offset)
		assert.Equal(t, tc.pix, pix, "pixel for addr %d bpc %d", tc.addr, tc.bpc)
		assert.Equal(t, tc.channel, channel, "channel for addr %d bpc %d", tc.addr, tc.bpc)
		assert.Equal(t, tc.bit, bit, "bit for addr %d bpc %d", tc.addr, tc.bpc)
	}
}

func TestPosToXY(t *testing.T) {
	x, y := PosToXY(0, 10)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	x, y = PosToXY(23, 10)
	assert.Equal(t, 3, x)
	assert.Equal(t, 2, y)
}

func TestWriteBit(t *testing.T) {
	const rgba uint32 = 0x12345678
	assert.Equal(t, uint32(0x13345678), WriteBit(rgba, 0, 0, 1))
	assert.Equal(t, uint32(0x12345678), WriteBit(rgba, 0, 0, 0))
	assert.Equal(t, uint32(0x92345678), WriteBit(rgba, 0, 7, 1))
	assert.Equal(t, uint32(0x12305678), WriteBit(rgba, 1, 2, 0))
	assert.Equal(t, uint32(0x1234D678), WriteBit(rgba, 2, 7, 1))
	// Alpha survives every write.
	for c := uint8(0); c < Channels; c++ {
		for b := uint8(0); b < 8; b++ {
			assert.Equal(t, uint32(0x78), WriteBit(rgba, c, b, 1)&0xff)
			assert.Equal(t, uint32(0x78), WriteBit(rgba, c, b, 0)&0xff)
		}
	}
}

func TestReadBitMatchesWriteBit(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		rgba := r.Uint32()
		c := uint8(r.Intn(Channels))
		b := uint8(r.Intn(8))
		v := uint8(r.Intn(2))
		out := WriteBit(rgba, c, b, v)
		require.Equal(t, v, ReadBit(out, c, b))
		// Only the addressed bit may differ.
		diff := out ^ rgba
		assert.Zero(t, diff&^(1<<(channelShift(c)+b)))
	}
}

func TestDataBitIsMSBFirst(t *testing.T) {
	data := []byte{0x80, 0x01}
	assert.Equal(t, uint8(1), DataBit(data, 0))
	assert.Equal(t, uint8(0), DataBit(data, 1))
	assert.Equal(t, uint8(0), DataBit(data, 8))
	assert.Equal(t, uint8(1), DataBit(data, 15))
}

func TestWriteReadRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for bpc := uint8(1); bpc <= 8; bpc++ {
		px := newMemPixels(40, 30, int64(bpc))
		data := make([]byte, 200)
		r.Read(data)

		require.NoError(t, Write(px, data, 32, bpc), "bpc %d", bpc)
		got, err := Read(px, 32, bpc, len(data))
		require.NoError(t, err)
		assert.Equal(t, data, got, "bpc %d", bpc)
	}
}

func TestWriteLeavesOtherPixelsAlone(t *testing.T) {
	px := newMemPixels(16, 16, 3)
	before := append([]uint32(nil), px.pix...)

	require.NoError(t, Write(px, []byte{0xff, 0x00, 0xaa}, 32, 2))

	// 24 bits at 2 bits/channel cover exactly 4 pixels.
	for i, v := range px.pix {
		if i >= 32 && i < 36 {
			assert.Equal(t, before[i]&0xfcfcfcff, v&0xfcfcfcff, "pixel %d high bits", i)
			continue
		}
		assert.Equal(t, before[i], v, "pixel %d", i)
	}
}

func TestWriteRunsOutOfSlots(t *testing.T) {
	px := newMemPixels(4, 8, 9) // 32 pixels, all reserved
	err := Write(px, []byte{1}, 32, 1)
	var empty *algos.EmptyPoolError
	assert.True(t, errors.As(err, &empty))

	_, err = Read(px, 32, 1, 1)
	assert.True(t, errors.As(err, &empty))
}

func TestReadZeroBytes(t *testing.T) {
	px := newMemPixels(4, 8, 9)
	got, err := Read(px, 32, 3, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
