package mda

import "github.com/cespare/xxhash"

// Checksum returns the xxhash64 digest of every sample in v, slice by slice,
// in big-endian layout. Two volumes with equal samples have equal checksums
// regardless of the byte order of the files they came from.
func (v *Volume) Checksum() uint64 {
	d := xxhash.New()
	var buf []byte
	for _, s := range v.Slices {
		buf = s.AppendBigEndian(buf[:0])
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}
