package mda

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// readSlice fills buf with the raw bytes of slice z.
func readSlice(r io.Reader, buf []byte, z, depth int) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: slice %d of %d", ErrTruncatedData, z+1, depth)
		}
		return fmt.Errorf("%w: slice %d of %d: %w", ErrIO, z+1, depth, err)
	}
	return nil
}

// swapBytes reverses the bytes of every size-byte element of buf in place.
func swapBytes(buf []byte, size int) {
	switch size {
	case 2:
		for i := 0; i+1 < len(buf); i += 2 {
			buf[i], buf[i+1] = buf[i+1], buf[i]
		}
	case 4:
		for i := 0; i+3 < len(buf); i += 4 {
			buf[i], buf[i+1], buf[i+2], buf[i+3] = buf[i+3], buf[i+2], buf[i+1], buf[i]
		}
	}
}

// Multi-byte samples are always read big-endian. A little-endian payload is
// first swapped into big-endian layout. The two steps together amount to a
// little-endian read.

func decodeU16(raw []byte, order ByteOrder, rng *SampleRange) []uint16 {
	if order == LittleEndian {
		swapBytes(raw, 2)
	}
	out := make([]uint16, len(raw)/2)
	for i := range out {
		v := binary.BigEndian.Uint16(raw[2*i:])
		out[i] = v
		rng.observe(float64(v))
	}
	return out
}

func decodeF32(raw []byte, order ByteOrder, rng *SampleRange) []float32 {
	if order == LittleEndian {
		swapBytes(raw, 4)
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		v := math.Float32frombits(binary.BigEndian.Uint32(raw[4*i:]))
		out[i] = v
		rng.observe(float64(v))
	}
	return out
}

// AppendBigEndian appends the samples of s to dst in big-endian layout,
// whatever the byte order of the file they were decoded from.
func (s Slice) AppendBigEndian(dst []byte) []byte {
	switch {
	case s.U8 != nil:
		return append(dst, s.U8...)
	case s.U16 != nil:
		for _, v := range s.U16 {
			dst = binary.BigEndian.AppendUint16(dst, v)
		}
	default:
		for _, v := range s.F32 {
			dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}
