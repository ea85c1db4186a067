package mda

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies a general-purpose compression envelope around a
// whole MDA file. The MDA stream inside is unchanged.
type Compression uint8

const (
	CompNone Compression = iota
	CompGzip
	CompZSTD
	CompLZ4
	CompBR
)

func compressionName(c Compression) string {
	switch c {
	case CompNone:
		return "none"
	case CompGzip:
		return "gzip"
	case CompZSTD:
		return "zstd"
	case CompLZ4:
		return "lz4"
	case CompBR:
		return "brotli"
	}
	return "unknown"
}

func (c Compression) String() string { return compressionName(c) }

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Function variables for testing injection.
var (
	openFile      = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	newGzipReader = func(r io.Reader) (*gzip.Reader, error) { return gzip.NewReader(r) }
	newZstdReader = func(r io.Reader) (*zstd.Decoder, error) {
		return zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	}
)

// detectCompression sniffs the envelope from the leading bytes of br.
// Brotli streams carry no magic, so they are recognised by a ".br" name.
func detectCompression(br *bufio.Reader, name string) (Compression, error) {
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return CompNone, err
	}
	switch {
	case bytes.HasPrefix(head, magicZstd):
		return CompZSTD, nil
	case bytes.HasPrefix(head, magicLZ4):
		return CompLZ4, nil
	case bytes.HasPrefix(head, magicGzip):
		return CompGzip, nil
	}
	if strings.EqualFold(filepath.Ext(name), ".br") {
		return CompBR, nil
	}
	return CompNone, nil
}

// NewReader returns a reader over the MDA bytes carried by r, removing a
// gzip, zstd, LZ4 or brotli envelope when one is present. name is only used
// to recognise brotli. Closing the result does not close r.
func NewReader(r io.Reader, name string) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	comp, err := detectCompression(br, name)
	if err != nil {
		return nil, CompNone, fmt.Errorf("%w: %w", ErrIO, err)
	}
	switch comp {
	case CompGzip:
		zr, err := newGzipReader(br)
		if err != nil {
			return nil, comp, fmt.Errorf("%w: gzip: %w", ErrIO, err)
		}
		return zr, comp, nil
	case CompZSTD:
		dec, err := newZstdReader(br)
		if err != nil {
			return nil, comp, fmt.Errorf("%w: zstd: %w", ErrIO, err)
		}
		return dec.IOReadCloser(), comp, nil
	case CompLZ4:
		return io.NopCloser(lz4.NewReader(br)), comp, nil
	case CompBR:
		return io.NopCloser(brotli.NewReader(br)), comp, nil
	}
	return io.NopCloser(br), CompNone, nil
}

type fileReader struct {
	io.Reader
	closers []io.Closer
}

func (f *fileReader) Close() error {
	var errs []error
	for _, c := range f.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Open opens the named file and returns a reader over its MDA bytes with
// any compression envelope removed. Closing the reader closes the file.
func Open(path string) (io.ReadCloser, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	rc, _, err := NewReader(f, path)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileReader{Reader: rc, closers: []io.Closer{rc, f}}, nil
}

// DecodeFile decodes the MDA file at path, which may carry a compression
// envelope. The file is closed before DecodeFile returns.
func DecodeFile(path string, opts ...ReadOption) (vol *Volume, rng SampleRange, err error) {
	rc, err := Open(path)
	if err != nil {
		return nil, SampleRange{}, err
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			vol, rng, err = nil, SampleRange{}, fmt.Errorf("%w: close %s: %w", ErrIO, path, cerr)
		}
	}()
	return Decode(rc, opts...)
}
