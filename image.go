package mda

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
)

// SliceImage converts slice z into a standard image.
//
// ubyte slices become *image.Gray and ushort slices *image.Gray16 with the
// raw sample values. float slices become *image.Gray16 with r mapped
// linearly onto [0, 65535] and values outside r clamped. An infinite bound
// of r is narrowed to the finite samples of v, and infinite samples
// saturate. An invalid r yields a black image, as does an empty one apart
// from +Inf samples.
func (v *Volume) SliceImage(z int, r SampleRange) (image.Image, error) {
	if z < 0 || z >= len(v.Slices) {
		return nil, fmt.Errorf("mda: slice %d out of range [0, %d)", z, len(v.Slices))
	}
	s := v.Slices[z]
	if s.Len() != v.Width*v.Height {
		return nil, fmt.Errorf("mda: slice %d has %d samples, want %d", z, s.Len(), v.Width*v.Height)
	}
	rect := image.Rect(0, 0, v.Width, v.Height)
	switch v.Type {
	case U8:
		img := image.NewGray(rect)
		copy(img.Pix, s.U8)
		return img, nil
	case U16:
		img := image.NewGray16(rect)
		for i, val := range s.U16 {
			binary.BigEndian.PutUint16(img.Pix[2*i:], val)
		}
		return img, nil
	case F32:
		img := image.NewGray16(rect)
		if !r.Valid {
			return img, nil
		}
		lo, hi := v.finiteBounds(r)
		var scale float64
		if hi > lo {
			scale = math.MaxUint16 / (hi - lo)
		}
		for i, val := range s.F32 {
			binary.BigEndian.PutUint16(img.Pix[2*i:], scaleSample(float64(val), lo, scale))
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, v.Type)
}

// finiteBounds replaces an infinite bound of r with the matching extreme of
// the finite float samples in v.
func (v *Volume) finiteBounds(r SampleRange) (lo, hi float64) {
	lo, hi = r.Min, r.Max
	if !math.IsInf(lo, 0) && !math.IsInf(hi, 0) {
		return lo, hi
	}
	var finite SampleRange
	for _, s := range v.Slices {
		for _, val := range s.F32 {
			if f := float64(val); !math.IsInf(f, 0) {
				finite.observe(f)
			}
		}
	}
	if !finite.Valid {
		return 0, 0
	}
	if math.IsInf(lo, 0) {
		lo = finite.Min
	}
	if math.IsInf(hi, 0) {
		hi = finite.Max
	}
	return lo, hi
}

// scaleSample maps v onto [0, 65535]. Infinities saturate and NaN is black.
func scaleSample(v, lo, scale float64) uint16 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxUint16
	case math.IsInf(v, -1), math.IsNaN(v):
		return 0
	}
	f := (v - lo) * scale
	switch {
	case f <= 0:
		return 0
	case f >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(f + 0.5)
}
