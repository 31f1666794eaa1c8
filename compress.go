package stega

import (
	"github.com/klauspost/compress/zstd"
)

// compress wraps data in a zstd frame. Empty input stays empty so that an empty
// payload costs no image space either way.
func compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, &CompressionError{Op: "compress", Err: err}
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, &CompressionError{Op: "decompress", Err: err}
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, &CompressionError{Op: "decompress", Err: err}
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
