// Package mda decodes MDA volumetric image files.
//
// MDA is a minimal container for a single-channel 2D or 3D sample array.
// A file is a five-line ASCII header followed by the raw samples:
//
//	MDA 1.0
//	Format:		ushort little
//	Dimensions:	256,256,64
//	Channels:	1
//	###
//	<depth slices of width×height samples>
//
// Supported element types are ubyte, ushort and float. A byte order of
// exactly "little" marks a little-endian payload; any other word means
// big-endian. The dimension list has two or three entries and the depth
// defaults to 1. Only one channel is supported.
//
// # Basic Usage
//
//	vol, rng, err := mda.DecodeFile("brain.mda")
//	if err != nil {
//		return err
//	}
//	img, err := vol.SliceImage(vol.Depth/2, rng)
//
// DecodeFile also accepts files wrapped in gzip, zstd, LZ4 or brotli
// compression. Decode reads from any io.Reader; the caller keeps ownership
// of the reader.
//
// # Byte Order
//
// Multi-byte samples are interpreted as big-endian after little-endian
// payloads have been swapped element by element. The result equals a plain
// little-endian read. The swap step is kept explicit because it is what the
// format's reference readers do.
//
// # Sample Range
//
// Decode returns the minimum and maximum sample value alongside the volume
// for display scaling. ubyte samples are excluded from the range unless
// WithByteRange(true) is passed, matching the reference readers.
//
// # Security Considerations
//
// Header dimensions are checked against configurable [Limits] before any
// payload buffer is allocated.
package mda
