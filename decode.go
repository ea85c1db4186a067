package mda

import (
	"bufio"
	"io"
)

// Decode reads an MDA volume from r.
//
// The decoding process:
//  1. Reads and validates the five-line text header
//  2. Checks the declared payload against the read limits
//  3. Reads depth slices of width×height samples, swapping little-endian
//     payloads into big-endian layout before interpreting them
//
// The returned SampleRange covers every ushort and float sample. ubyte
// samples are only folded in with WithByteRange(true).
//
// Decode returns ErrNotMDA if the version line is not "MDA 1.0",
// ErrUnsupportedType, ErrUnsupportedDimensions or ErrUnsupportedChannelCount
// for headers it cannot represent, ErrHeaderParse for malformed header
// lines, ErrLimitExceeded if the volume is larger than allowed,
// ErrTruncatedData if the payload ends early and ErrIO if r fails.
// No partial volume is ever returned. Bytes after the payload are not read.
func Decode(r io.Reader, opts ...ReadOption) (*Volume, SampleRange, error) {
	cfg := newReadConfig(opts)
	br := bufio.NewReaderSize(r, headerBufSize)
	h, err := readHeader(br)
	if err != nil {
		return nil, SampleRange{}, err
	}
	if err := cfg.limits.check(h); err != nil {
		return nil, SampleRange{}, err
	}
	return decodePayload(br, h, cfg)
}

// DecodeHeader reads and validates only the header of an MDA stream,
// including the read limits.
func DecodeHeader(r io.Reader, opts ...ReadOption) (Header, error) {
	cfg := newReadConfig(opts)
	h, err := readHeader(bufio.NewReaderSize(r, headerBufSize))
	if err != nil {
		return Header{}, err
	}
	if err := cfg.limits.check(h); err != nil {
		return Header{}, err
	}
	return h, nil
}

func decodePayload(r io.Reader, h Header, cfg readConfig) (*Volume, SampleRange, error) {
	vol := &Volume{
		Width:  h.Width,
		Height: h.Height,
		Depth:  h.Depth,
		Type:   h.Type,
		Slices: make([]Slice, 0, h.Depth),
	}
	var rng SampleRange
	var raw []byte
	if h.Type != U8 {
		raw = make([]byte, h.SliceBytes())
	}
	for z := 0; z < h.Depth; z++ {
		var s Slice
		switch h.Type {
		case U8:
			s.U8 = make([]uint8, h.SliceLen())
			if err := readSlice(r, s.U8, z, h.Depth); err != nil {
				return nil, SampleRange{}, err
			}
			if cfg.byteRange {
				for _, v := range s.U8 {
					rng.observe(float64(v))
				}
			}
		case U16:
			if err := readSlice(r, raw, z, h.Depth); err != nil {
				return nil, SampleRange{}, err
			}
			s.U16 = decodeU16(raw, h.Order, &rng)
		case F32:
			if err := readSlice(r, raw, z, h.Depth); err != nil {
				return nil, SampleRange{}, err
			}
			s.F32 = decodeF32(raw, h.Order, &rng)
		}
		vol.Slices = append(vol.Slices, s)
		if cfg.progress != nil {
			cfg.progress(z+1, h.Depth)
		}
	}
	return vol, rng, nil
}
