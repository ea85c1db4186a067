package mda

import "errors"

var (
	ErrNotMDA                  = errors.New("mda: not an MDA file")
	ErrUnsupportedType         = errors.New("mda: unsupported element type")
	ErrUnsupportedDimensions   = errors.New("mda: unsupported dimensions")
	ErrUnsupportedChannelCount = errors.New("mda: unsupported channel count")
	ErrHeaderParse             = errors.New("mda: malformed header")
	ErrTruncatedData           = errors.New("mda: truncated data")
	ErrIO                      = errors.New("mda: read failed")
	ErrLimitExceeded           = errors.New("mda: limit exceeded")
)
