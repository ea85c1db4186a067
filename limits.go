package mda

import (
	"fmt"
	"math"
)

type Limits struct {
	MaxWidth        int
	MaxHeight       int
	MaxDepth        int
	MaxPayloadBytes uint64 // declared payload of the whole volume
}

// defaultLimits leaves every axis at the header's own int32 bound and caps
// memory through MaxPayloadBytes only.
func defaultLimits() Limits {
	return Limits{
		MaxWidth:        math.MaxInt32,
		MaxHeight:       math.MaxInt32,
		MaxDepth:        math.MaxInt32,
		MaxPayloadBytes: 4 << 30, // 4 GiB
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxWidth == 0 {
		l.MaxWidth = d.MaxWidth
	}
	if l.MaxHeight == 0 {
		l.MaxHeight = d.MaxHeight
	}
	if l.MaxDepth == 0 {
		l.MaxDepth = d.MaxDepth
	}
	if l.MaxPayloadBytes == 0 {
		l.MaxPayloadBytes = d.MaxPayloadBytes
	}
	return l
}

// check rejects headers whose payload would exceed l before anything is allocated.
func (l Limits) check(h Header) error {
	if h.Width > l.MaxWidth {
		return fmt.Errorf("%w: width %d > %d", ErrLimitExceeded, h.Width, l.MaxWidth)
	}
	if h.Height > l.MaxHeight {
		return fmt.Errorf("%w: height %d > %d", ErrLimitExceeded, h.Height, l.MaxHeight)
	}
	if h.Depth > l.MaxDepth {
		return fmt.Errorf("%w: depth %d > %d", ErrLimitExceeded, h.Depth, l.MaxDepth)
	}
	if n := h.PayloadBytes(); n > l.MaxPayloadBytes {
		return fmt.Errorf("%w: payload %d bytes > %d", ErrLimitExceeded, n, l.MaxPayloadBytes)
	}
	return nil
}
