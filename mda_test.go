package mda

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"
)

// mdaFile builds an MDA file the way the reference writer lays it out.
func mdaFile(format, dims string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("MDA 1.0\n")
	buf.WriteString("Format:\t\t" + format + "\n")
	buf.WriteString("Dimensions:\t" + dims + "\n")
	buf.WriteString("Channels:\t1\n")
	buf.WriteString("###\n")
	buf.Write(payload)
	return buf.Bytes()
}

func u16Payload(order binary.AppendByteOrder, vals ...uint16) []byte {
	var b []byte
	for _, v := range vals {
		b = order.AppendUint16(b, v)
	}
	return b
}

func f32Payload(order binary.AppendByteOrder, vals ...float32) []byte {
	var b []byte
	for _, v := range vals {
		b = order.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func TestDecode_UByte2D(t *testing.T) {
	in := "MDA 1.0\nFormat: ubyte little\nDimensions: 2,2\nChannels: 1\n###\n"
	vol, rng, err := Decode(bytes.NewReader(append([]byte(in), 10, 20, 30, 40)))
	if err != nil {
		t.Fatal(err)
	}
	if vol.Width != 2 || vol.Height != 2 || vol.Depth != 1 || vol.Type != U8 {
		t.Fatalf("unexpected volume shape: %dx%dx%d %v", vol.Width, vol.Height, vol.Depth, vol.Type)
	}
	if len(vol.Slices) != 1 {
		t.Fatalf("expected 1 slice, got %d", len(vol.Slices))
	}
	if !reflect.DeepEqual(vol.Slices[0].U8, []uint8{10, 20, 30, 40}) {
		t.Fatalf("samples: %v", vol.Slices[0].U8)
	}
	if vol.At(1, 0, 0) != 20 || vol.At(0, 1, 0) != 30 {
		t.Fatal("expected row-major layout without flip")
	}
	if rng.Valid {
		t.Fatalf("ubyte volume must not report a range by default, got %+v", rng)
	}
}

func TestDecode_UShortLittle3D(t *testing.T) {
	// Swapping 01 00 gives 00 01, which reads big-endian as 1.
	file := mdaFile("ushort little", "1,1,2", []byte{0x01, 0x00, 0x02, 0x00})
	vol, rng, err := Decode(bytes.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	if len(vol.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(vol.Slices))
	}
	if vol.Slices[0].U16[0] != 1 || vol.Slices[1].U16[0] != 2 {
		t.Fatalf("samples: %v %v", vol.Slices[0].U16, vol.Slices[1].U16)
	}
	if rng != (SampleRange{Min: 1, Max: 2, Valid: true}) {
		t.Fatalf("range: %+v", rng)
	}
}

func TestDecode_UShortBigAndUnknownOrder(t *testing.T) {
	for _, order := range []string{"big", "BIG", "Little", "whatever"} {
		file := mdaFile("ushort "+order, "2,1", []byte{0x01, 0x00, 0x00, 0x02})
		vol, _, err := Decode(bytes.NewReader(file))
		if err != nil {
			t.Fatalf("%s: %v", order, err)
		}
		if !reflect.DeepEqual(vol.Slices[0].U16, []uint16{256, 2}) {
			t.Fatalf("%s: expected big-endian read, got %v", order, vol.Slices[0].U16)
		}
	}
}

func TestDecode_ByteOrderEquivalence(t *testing.T) {
	u16 := []uint16{0, 1, 0x1234, 0xFFFF, 513, 40000}
	f32 := []float32{-1.5, 0, 3.25, 1e-7, -65504, 42}

	cases := []struct {
		format string
		big    []byte
		little []byte
	}{
		{"ushort", u16Payload(binary.BigEndian, u16...), u16Payload(binary.LittleEndian, u16...)},
		{"float", f32Payload(binary.BigEndian, f32...), f32Payload(binary.LittleEndian, f32...)},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			bv, br, err := Decode(bytes.NewReader(mdaFile(tc.format+" big", "3,2", tc.big)))
			if err != nil {
				t.Fatal(err)
			}
			lv, lr, err := Decode(bytes.NewReader(mdaFile(tc.format+" little", "3,2", tc.little)))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(bv, lv) {
				t.Fatalf("volumes differ: %+v vs %+v", bv.Slices, lv.Slices)
			}
			if br != lr {
				t.Fatalf("ranges differ: %+v vs %+v", br, lr)
			}
			if bv.Checksum() != lv.Checksum() {
				t.Fatal("checksums differ")
			}
		})
	}
}

func TestDecode_FloatValuesAndRange(t *testing.T) {
	vals := []float32{0.5, -2, 7.25, 3, 1, -0.125, 6, 2}
	file := mdaFile("float little", "2,2,2", f32Payload(binary.LittleEndian, vals...))
	vol, rng, err := Decode(bytes.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	if vol.Type != F32 || len(vol.Slices) != 2 {
		t.Fatalf("unexpected volume: %v with %d slices", vol.Type, len(vol.Slices))
	}
	for z := 0; z < 2; z++ {
		if !reflect.DeepEqual(vol.Slices[z].F32, vals[4*z:4*z+4]) {
			t.Fatalf("slice %d: %v", z, vol.Slices[z].F32)
		}
	}
	if rng.Min != -2 || rng.Max != 7.25 || !rng.Valid {
		t.Fatalf("range: %+v", rng)
	}
	for z := range vol.Slices {
		for i := 0; i < vol.Slices[z].Len(); i++ {
			v := vol.Slices[z].Float64(i)
			if v < rng.Min || v > rng.Max {
				t.Fatalf("sample %v outside range %+v", v, rng)
			}
		}
	}
}

func TestDecode_RangeAllZeros(t *testing.T) {
	file := mdaFile("ushort big", "2,2", make([]byte, 8))
	_, rng, err := Decode(bytes.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	if rng != (SampleRange{Min: 0, Max: 0, Valid: true}) {
		t.Fatalf("range: %+v", rng)
	}
}

func TestDecode_RangeSkipsNaN(t *testing.T) {
	nan := float32(math.NaN())
	file := mdaFile("float big", "3,1", f32Payload(binary.BigEndian, nan, 4, -1))
	vol, rng, err := Decode(bytes.NewReader(file))
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(vol.Slices[0].F32[0])) {
		t.Fatal("NaN sample must be kept in the volume")
	}
	if rng != (SampleRange{Min: -1, Max: 4, Valid: true}) {
		t.Fatalf("range: %+v", rng)
	}
}

func TestDecode_ByteRangeOption(t *testing.T) {
	file := mdaFile("ubyte big", "4,1", []byte{9, 3, 200, 17})
	_, rng, err := Decode(bytes.NewReader(file), WithByteRange(true))
	if err != nil {
		t.Fatal(err)
	}
	if rng != (SampleRange{Min: 3, Max: 200, Valid: true}) {
		t.Fatalf("range: %+v", rng)
	}
}

func TestDecode_Progress(t *testing.T) {
	file := mdaFile("ubyte big", "2,1,3", []byte{1, 2, 3, 4, 5, 6})
	var calls [][2]int
	_, _, err := Decode(bytes.NewReader(file), WithProgress(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}))
	if err != nil {
		t.Fatal(err)
	}
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("progress calls: %v", calls)
	}
}

func TestDecode_SliceShapeAllTypes(t *testing.T) {
	cases := []struct {
		format string
		size   int
		dims   string
		depth  int
	}{
		{"ubyte", 1, "3,2", 1},
		{"ubyte", 1, "3,2,4", 4},
		{"ushort", 2, "5,1", 1},
		{"ushort", 2, "1,5,3", 3},
		{"float", 4, "2,2", 1},
		{"float", 4, "2,3,2", 2},
	}
	for _, tc := range cases {
		h, err := DecodeHeader(bytes.NewReader(mdaFile(tc.format+" big", tc.dims, nil)))
		if err != nil {
			t.Fatalf("%s %s: %v", tc.format, tc.dims, err)
		}
		payload := make([]byte, h.PayloadBytes())
		vol, _, err := Decode(bytes.NewReader(mdaFile(tc.format+" big", tc.dims, payload)))
		if err != nil {
			t.Fatalf("%s %s: %v", tc.format, tc.dims, err)
		}
		if vol.Depth != tc.depth || len(vol.Slices) != tc.depth {
			t.Fatalf("%s %s: depth %d, %d slices", tc.format, tc.dims, vol.Depth, len(vol.Slices))
		}
		if vol.Type.Size() != tc.size {
			t.Fatalf("%s: size %d", tc.format, vol.Type.Size())
		}
		for z, s := range vol.Slices {
			if s.Len() != vol.Width*vol.Height {
				t.Fatalf("%s %s: slice %d has %d samples", tc.format, tc.dims, z, s.Len())
			}
		}
	}
}

func TestDecode_TrailingBytesIgnored(t *testing.T) {
	file := mdaFile("ubyte big", "2,1", []byte{1, 2, 3, 4, 5})
	r := bytes.NewReader(file)
	vol, _, err := Decode(r)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(vol.Slices[0].U8, []uint8{1, 2}) {
		t.Fatalf("samples: %v", vol.Slices[0].U8)
	}
}

func TestDecode_ErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want error
	}{
		{"bad version", []byte("MDA 1.1\nFormat: ubyte little\nDimensions: 1,1\nChannels: 1\n###\n\x00"), ErrNotMDA},
		{"trailing space in version", []byte("MDA 1.0 \nFormat: ubyte little\nDimensions: 1,1\nChannels: 1\n###\n\x00"), ErrNotMDA},
		{"empty", nil, ErrNotMDA},
		{"int type", mdaFile("int little", "1,1", []byte{0, 0, 0, 0}), ErrUnsupportedType},
		{"single dimension", mdaFile("ubyte little", "10", make([]byte, 10)), ErrUnsupportedDimensions},
		{"four dimensions", mdaFile("ubyte little", "1,1,1,1", []byte{0}), ErrUnsupportedDimensions},
		{"zero dimension", mdaFile("ubyte little", "0,4", nil), ErrUnsupportedDimensions},
		{"negative dimension", mdaFile("ubyte little", "4,-1", nil), ErrUnsupportedDimensions},
		{"two channels", []byte("MDA 1.0\nFormat: ubyte little\nDimensions: 1,1\nChannels: 2\n###\n\x00"), ErrUnsupportedChannelCount},
		{"bad number", mdaFile("ubyte little", "2,x", nil), ErrHeaderParse},
		{"bad channels", []byte("MDA 1.0\nFormat: ubyte little\nDimensions: 1,1\nChannels: one\n###\n"), ErrHeaderParse},
		{"missing byte order", []byte("MDA 1.0\nFormat: ubyte\nDimensions: 1,1\nChannels: 1\n###\n"), ErrHeaderParse},
		{"missing dims token", []byte("MDA 1.0\nFormat: ubyte little\nDimensions:\nChannels: 1\n###\n"), ErrHeaderParse},
		{"missing terminator", []byte("MDA 1.0\nFormat: ubyte little\nDimensions: 1,1\nChannels: 1\n"), ErrHeaderParse},
		{"short payload", mdaFile("ushort little", "2,2", []byte{1, 0, 2, 0, 3}), ErrTruncatedData},
		{"missing slice", mdaFile("ubyte little", "2,2,2", []byte{1, 2, 3, 4}), ErrTruncatedData},
		{"no payload", mdaFile("float big", "1,1", nil), ErrTruncatedData},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vol, rng, err := Decode(bytes.NewReader(tc.in))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if vol != nil || rng.Valid {
				t.Fatal("no partial result expected on error")
			}
		})
	}
}
