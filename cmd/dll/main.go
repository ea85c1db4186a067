// Package main provides C-compatible exports for the mda library.
// Build with: go build -buildmode=c-shared -o mda.dll
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} MdaResult;
*/
import "C"

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unsafe"

	"github.com/logicossoftware/go-mda"
)

func main() {}

// MdaVersion returns the header version string this library reads.
// Call MdaFreeString on the result.
//
//export MdaVersion
func MdaVersion() *C.char {
	return C.CString(mda.Version)
}

// MdaFreeResult frees memory allocated by other Mda functions.
// Must be called to avoid memory leaks.
//
//export MdaFreeResult
func MdaFreeResult(result C.MdaResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// MdaFreeString frees a C string allocated by Go.
//
//export MdaFreeString
func MdaFreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

// makeResult creates a result with data.
func makeResult(data []byte) C.MdaResult {
	var result C.MdaResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

// makeError creates a result with an error message.
func makeError(err error) C.MdaResult {
	var result C.MdaResult
	result.error = C.CString(err.Error())
	return result
}

func goBytes(data *C.char, dataLen C.int) *bytes.Reader {
	return bytes.NewReader(C.GoBytes(unsafe.Pointer(data), dataLen))
}

// MdaInspect parses the header of an MDA file held in memory.
// Returns MdaResult with the header as JSON or an error. Call MdaFreeResult when done.
//
//export MdaInspect
func MdaInspect(data *C.char, dataLen C.int) C.MdaResult {
	h, err := mda.DecodeHeader(goBytes(data, dataLen))
	if err != nil {
		return makeError(err)
	}
	b, err := json.Marshal(h)
	if err != nil {
		return makeError(err)
	}
	return makeResult(b)
}

type stats struct {
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Depth    int             `json:"depth"`
	Type     mda.ElementType `json:"type"`
	Range    mda.SampleRange `json:"range"`
	Checksum string          `json:"checksum"`
}

func statsJSON(vol *mda.Volume, rng mda.SampleRange) C.MdaResult {
	b, err := json.Marshal(stats{
		Width:    vol.Width,
		Height:   vol.Height,
		Depth:    vol.Depth,
		Type:     vol.Type,
		Range:    rng,
		Checksum: fmt.Sprintf("%016x", vol.Checksum()),
	})
	if err != nil {
		return makeError(err)
	}
	return makeResult(b)
}

// MdaStats decodes an MDA file held in memory and returns its dimensions,
// element type, sample range and checksum as JSON. Call MdaFreeResult when done.
//
//export MdaStats
func MdaStats(data *C.char, dataLen C.int) C.MdaResult {
	vol, rng, err := mda.Decode(goBytes(data, dataLen))
	if err != nil {
		return makeError(err)
	}
	return statsJSON(vol, rng)
}

// MdaStatsFile is MdaStats for a file on disk, which may be compressed.
//
//export MdaStatsFile
func MdaStatsFile(path *C.char) C.MdaResult {
	vol, rng, err := mda.DecodeFile(C.GoString(path))
	if err != nil {
		return makeError(err)
	}
	return statsJSON(vol, rng)
}

// MdaDecodeSlice returns the samples of slice z in big-endian layout.
// Call MdaFreeResult when done.
//
//export MdaDecodeSlice
func MdaDecodeSlice(data *C.char, dataLen C.int, z C.int) C.MdaResult {
	vol, _, err := mda.Decode(goBytes(data, dataLen))
	if err != nil {
		return makeError(err)
	}
	if int(z) < 0 || int(z) >= len(vol.Slices) {
		return makeError(fmt.Errorf("slice %d out of range [0, %d)", int(z), len(vol.Slices)))
	}
	return makeResult(vol.Slices[z].AppendBigEndian(nil))
}

// MdaValidate decodes an MDA file held in memory and discards the result.
// Returns NULL on success, or an error message string on failure.
// Call MdaFreeString on the result if non-NULL.
//
//export MdaValidate
func MdaValidate(data *C.char, dataLen C.int) *C.char {
	if _, _, err := mda.Decode(goBytes(data, dataLen)); err != nil {
		return C.CString(err.Error())
	}
	return nil
}
