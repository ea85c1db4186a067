package mda

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// headerBufSize bounds a single header line. A file whose first 4 KiB hold
// no line break cannot be an MDA file.
const headerBufSize = 4096

var fieldSep = regexp.MustCompile(`[\t ]+`)

// headerReader yields header lines one at a time and remembers the current
// line so errors can quote it.
type headerReader struct {
	br   *bufio.Reader
	line int
	text string
}

// next reads one line without its terminator. A line ends at "\n", "\r\n"
// or a bare "\r". A final line without a terminator is accepted.
func (hr *headerReader) next() (string, error) {
	hr.line++
	hr.text = ""
	var b []byte
	for {
		c, err := hr.br.ReadByte()
		if errors.Is(err, io.EOF) && len(b) > 0 {
			break
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: line %d: unexpected end of header", ErrHeaderParse, hr.line)
		}
		if err != nil {
			return "", fmt.Errorf("%w: header line %d: %w", ErrIO, hr.line, err)
		}
		if c == '\n' {
			break
		}
		if c == '\r' {
			if err := hr.skipLF(); err != nil {
				return "", err
			}
			break
		}
		if len(b) == headerBufSize {
			return "", fmt.Errorf("%w: line %d: longer than %d bytes", ErrHeaderParse, hr.line, headerBufSize)
		}
		b = append(b, c)
	}
	hr.text = string(b)
	return hr.text, nil
}

// skipLF consumes the "\n" of a "\r\n" pair.
func (hr *headerReader) skipLF() error {
	p, err := hr.br.Peek(1)
	switch {
	case err == nil && p[0] == '\n':
		_, err = hr.br.Discard(1)
	case errors.Is(err, io.EOF):
		err = nil
	}
	if err != nil {
		return fmt.Errorf("%w: header line %d: %w", ErrIO, hr.line, err)
	}
	return nil
}

// fields reads the next line and splits it on runs of tabs and spaces.
// At least n fields are required.
func (hr *headerReader) fields(n int) ([]string, error) {
	if _, err := hr.next(); err != nil {
		return nil, err
	}
	tok := trimTrailingEmpty(fieldSep.Split(hr.text, -1))
	if len(tok) < n {
		return nil, hr.errorf(ErrHeaderParse, "want %d fields, got %d", n, len(tok))
	}
	return tok, nil
}

func (hr *headerReader) errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: line %d %q: %s", kind, hr.line, hr.text, fmt.Sprintf(format, args...))
}

// trimTrailingEmpty drops empty trailing elements. A leading separator still
// produces an empty first element, so "\tfloat little" has "float" at index 1.
func trimTrailingEmpty(s []string) []string {
	for len(s) > 0 && s[len(s)-1] == "" {
		s = s[:len(s)-1]
	}
	return s
}

func (hr *headerReader) parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, hr.errorf(ErrHeaderParse, "%v", err)
	}
	return int(n), nil
}

// readHeader parses the five header lines and leaves br positioned at the
// first payload byte.
func readHeader(br *bufio.Reader) (Header, error) {
	hr := headerReader{br: br}

	magic, err := hr.next()
	if err != nil {
		if errors.Is(err, ErrIO) {
			return Header{}, err
		}
		return Header{}, fmt.Errorf("%w: no version line", ErrNotMDA)
	}
	if magic != Version {
		return Header{}, fmt.Errorf("%w: version line %q", ErrNotMDA, magic)
	}
	h := Header{Version: magic}

	tok, err := hr.fields(3)
	if err != nil {
		return Header{}, err
	}
	typ, ok := parseElementType(tok[1])
	if !ok {
		return Header{}, hr.errorf(ErrUnsupportedType, "%q, supported types: ubyte, ushort, float", tok[1])
	}
	h.Type = typ
	h.Order = parseByteOrder(tok[2])

	if tok, err = hr.fields(2); err != nil {
		return Header{}, err
	}
	dims := trimTrailingEmpty(strings.Split(tok[1], ","))
	if len(dims) < 2 || len(dims) > 3 {
		return Header{}, hr.errorf(ErrUnsupportedDimensions, "%d dimensions, must be 2 or 3", len(dims))
	}
	sizes := [3]int{1, 1, 1}
	for i, d := range dims {
		n, err := hr.parseInt(d)
		if err != nil {
			return Header{}, err
		}
		if n <= 0 {
			return Header{}, hr.errorf(ErrUnsupportedDimensions, "dimension %d is %d, must be positive", i, n)
		}
		sizes[i] = n
	}
	h.Width, h.Height, h.Depth = sizes[0], sizes[1], sizes[2]
	h.Rank = len(dims)

	if tok, err = hr.fields(2); err != nil {
		return Header{}, err
	}
	if h.Channels, err = hr.parseInt(tok[1]); err != nil {
		return Header{}, err
	}
	if h.Channels != 1 {
		return Header{}, hr.errorf(ErrUnsupportedChannelCount, "%d channels, must contain a single channel", h.Channels)
	}

	// The terminator ("###" in practice) is not checked.
	if h.Terminator, err = hr.next(); err != nil {
		return Header{}, err
	}
	return h, nil
}
