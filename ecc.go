package stega

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/zedseven/bch"
	"github.com/zedseven/binmani"

	"github.com/zedseven/stega/internal/util"
)

// eccChunkSize is the number of stored bytes protected by one BCH codeword.
const eccChunkSize = 32

// MaxCorrectableErrors is the largest supported number of correctable bit errors per chunk.
const MaxCorrectableErrors uint8 = 32

// bch caches code lengths in a plain map.
var eccSetupMu sync.Mutex

// eccCodec protects stored bytes with a shortened binary BCH code, one codeword per chunk.
//
// Each chunk of n bytes is stored as the parity bits, zero-padded to whole bytes, followed by the
// n data bytes. The final chunk may be short; its missing data bits are the zero padding the
// code was shortened by, so they are restored as zeroes before decoding.
type eccCodec struct {
	config      *bch.EncodingConfig
	parityBits  int
	parityBytes int
	// fieldSize is the unshortened code length. Decode may flip any position below it.
	fieldSize int
}

func newECC(maxErrors uint8) (*eccCodec, error) {
	chunkBits := eccChunkSize * int(bitsPerByte)
	eccSetupMu.Lock()
	codeLength, err := bch.TotalBitsForConfig(chunkBits, int(maxErrors))
	eccSetupMu.Unlock()
	if err != nil {
		return nil, &CorrectionError{Op: "configure", Err: err}
	}
	config, err := bch.CreateConfig(codeLength, int(maxErrors))
	if err != nil {
		return nil, &CorrectionError{Op: "configure", Err: err}
	}
	if config.StorageBits < chunkBits {
		return nil, &CorrectionError{Op: "configure", Err: fmt.Errorf("%v stores fewer than %d bits", config, chunkBits)}
	}
	parity := config.CodeLength - config.StorageBits
	return &eccCodec{
		config:      config,
		parityBits:  parity,
		parityBytes: (parity + int(bitsPerByte) - 1) / int(bitsPerByte),
		fieldSize:   1<<bits.Len(uint(config.CodeLength)) - 1,
	}, nil
}

// ratio is the share of each full stored chunk taken up by parity.
func (e *eccCodec) ratio() float64 {
	return float64(e.parityBytes) / float64(e.parityBytes+eccChunkSize)
}

// encodedSize returns how many bytes n data bytes take once encoded.
func (e *eccCodec) encodedSize(n int) int {
	chunks := (n + eccChunkSize - 1) / eccChunkSize
	return n + chunks*e.parityBytes
}

func (e *eccCodec) encode(data []byte) ([]byte, error) {
	out := make([]byte, 0, e.encodedSize(len(data)))
	for off := 0; off < len(data); off += eccChunkSize {
		chunk := data[off:util.Min(off+eccChunkSize, len(data))]
		dataBits := binmani.BytesToBits(&chunk)
		*dataBits = append(*dataBits, make([]uint8, e.config.StorageBits-len(*dataBits))...)

		code, err := bch.EncodeWithConfig(e.config, dataBits)
		if err != nil {
			return nil, &CorrectionError{Op: "encode", Chunk: off / eccChunkSize, Err: err}
		}

		writeBits := make([]uint8, 0, e.parityBytes*int(bitsPerByte)+len(chunk)*int(bitsPerByte))
		writeBits = append(writeBits, code[:e.parityBits]...)
		writeBits = append(writeBits, make([]uint8, e.parityBytes*int(bitsPerByte)-e.parityBits)...)
		writeBits = append(writeBits, code[e.parityBits:e.parityBits+len(chunk)*int(bitsPerByte)]...)
		out = append(out, *binmani.BitsToBytes(&writeBits)...)
	}
	return out, nil
}

// decode corrects and strips the parity of stored, returning the data bytes and the number of
// bit errors that were corrected.
func (e *eccCodec) decode(stored []byte) ([]byte, int, error) {
	out := make([]byte, 0, len(stored))
	fixed := 0
	for off, chunk := 0, 0; off < len(stored); chunk++ {
		end := util.Min(off+e.parityBytes+eccChunkSize, len(stored))
		n := end - off - e.parityBytes
		if n <= 0 {
			return nil, fixed, &CorrectionError{Op: "decode", Chunk: chunk,
				Err: fmt.Errorf("%d trailing bytes are too short to hold %d parity bytes and data", end-off, e.parityBytes)}
		}

		raw := stored[off:end]
		rawBits := binmani.BytesToBits(&raw)
		code := make([]uint8, 0, e.fieldSize)
		code = append(code, (*rawBits)[:e.parityBits]...)
		code = append(code, (*rawBits)[e.parityBytes*int(bitsPerByte):]...)
		code = append(code, make([]uint8, e.fieldSize-len(code))...)

		dataBits := code[e.parityBits:]
		if bch.IsDataCorrupted(e.config, code) {
			recd, errs, err := bch.Decode(e.config, &code)
			if err != nil {
				return nil, fixed, &CorrectionError{Op: "decode", Chunk: chunk, Err: err}
			}
			// A correction landing in the shortened tail means the chunk had too many errors.
			for _, b := range recd[n*int(bitsPerByte):] {
				if b != 0 {
					return nil, fixed, &CorrectionError{Op: "decode", Chunk: chunk, Err: bch.DataTooCorruptError{}}
				}
			}
			fixed += errs
			dataBits = recd
		}

		dataBits = dataBits[:n*int(bitsPerByte)]
		out = append(out, *binmani.BitsToBytes(&dataBits)...)
		off = end
	}
	return out, fixed, nil
}
