package mda

import (
	"fmt"
	"math"
	"strconv"
)

// Version is the only header version this package reads.
const Version = "MDA 1.0"

// ElementType is the per-sample encoding of the payload.
type ElementType uint8

const (
	U8  ElementType = 1
	U16 ElementType = 2
	F32 ElementType = 3
)

// Size returns the width of one sample in bytes, or 0 for an unknown type.
func (t ElementType) Size() int {
	switch t {
	case U8:
		return 1
	case U16:
		return 2
	case F32:
		return 4
	}
	return 0
}

// String returns the header name of t.
func (t ElementType) String() string {
	switch t {
	case U8:
		return "ubyte"
	case U16:
		return "ushort"
	case F32:
		return "float"
	}
	return "unknown"
}

func (t ElementType) MarshalText() ([]byte, error) {
	if t.Size() == 0 {
		return nil, fmt.Errorf("mda: unknown element type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func parseElementType(name string) (ElementType, bool) {
	switch name {
	case "ubyte":
		return U8, true
	case "ushort":
		return U16, true
	case "float":
		return F32, true
	}
	return 0, false
}

type ByteOrder uint8

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (o ByteOrder) String() string {
	if o == LittleEndian {
		return "little"
	}
	return "big"
}

func (o ByteOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// parseByteOrder maps the header token to a byte order. Only the exact
// token "little" selects little-endian; every other token reads as big.
func parseByteOrder(name string) ByteOrder {
	if name == "little" {
		return LittleEndian
	}
	return BigEndian
}

// Header is the validated MDA text header.
//
// Depth is 1 when the file lists two dimensions; Rank records how many
// dimensions were actually listed.
type Header struct {
	Version    string      `json:"version"`
	Type       ElementType `json:"type"`
	Order      ByteOrder   `json:"byte_order"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Depth      int         `json:"depth"`
	Rank       int         `json:"rank"`
	Channels   int         `json:"channels"`
	Terminator string      `json:"terminator,omitempty"`
}

// SliceLen returns the number of samples in one slice.
func (h Header) SliceLen() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

// SliceBytes returns the payload size of one slice.
func (h Header) SliceBytes() uint64 {
	return h.SliceLen() * uint64(h.Type.Size())
}

// PayloadBytes returns the payload size of the whole volume.
func (h Header) PayloadBytes() uint64 {
	return h.SliceBytes() * uint64(h.Depth)
}

// Slice is one width×height layer of a volume in row-major order.
// Exactly one of the sample buffers is set, matching the volume's Type.
type Slice struct {
	U8  []uint8
	U16 []uint16
	F32 []float32
}

// Len returns the number of samples in s.
func (s Slice) Len() int {
	switch {
	case s.U8 != nil:
		return len(s.U8)
	case s.U16 != nil:
		return len(s.U16)
	default:
		return len(s.F32)
	}
}

// Float64 returns sample i widened to float64.
func (s Slice) Float64(i int) float64 {
	switch {
	case s.U8 != nil:
		return float64(s.U8[i])
	case s.U16 != nil:
		return float64(s.U16[i])
	default:
		return float64(s.F32[i])
	}
}

// Volume is a decoded MDA file. Slices[z] is the z-th slice of the stream.
type Volume struct {
	Width  int
	Height int
	Depth  int
	Type   ElementType
	Slices []Slice
}

// At returns the sample at (x, y, z) widened to float64.
func (v *Volume) At(x, y, z int) float64 {
	return v.Slices[z].Float64(y*v.Width + x)
}

// SampleRange is the smallest and largest sample folded in during a decode.
// Valid is false when no sample was folded in.
type SampleRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Valid bool    `json:"valid"`
}

// MarshalJSON writes infinite bounds as the strings "+Inf" and "-Inf",
// which plain JSON numbers cannot carry.
func (r SampleRange) MarshalJSON() ([]byte, error) {
	b := append([]byte(nil), `{"min":`...)
	b = appendJSONFloat(b, r.Min)
	b = append(b, `,"max":`...)
	b = appendJSONFloat(b, r.Max)
	b = append(b, `,"valid":`...)
	b = strconv.AppendBool(b, r.Valid)
	return append(b, '}'), nil
}

func appendJSONFloat(b []byte, v float64) []byte {
	if math.IsInf(v, 0) {
		return strconv.AppendQuote(b, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strconv.AppendFloat(b, v, 'g', -1, 64)
}

// observe folds v into r. NaN never moves the bounds.
func (r *SampleRange) observe(v float64) {
	if v != v {
		return
	}
	if !r.Valid {
		r.Min, r.Max, r.Valid = v, v, true
		return
	}
	if v > r.Max {
		r.Max = v
	}
	if v < r.Min {
		r.Min = v
	}
}
