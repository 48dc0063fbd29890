package genx

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustStruct(t *testing.T, name string, fields ...Field) *Struct {
	t.Helper()
	s, err := NewStruct(name, fields...)
	if err != nil {
		t.Fatalf("NewStruct failed: %v", err)
	}
	return s
}

func encodeFile(t *testing.T, f *File) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestRoundTripScalars(t *testing.T) {
	values := []interface{}{
		uint8(200),
		int16(-1234),
		int32(-70000),
		float32(1.25),
		float64(6.02214076e23),
		complex64(complex(1, -2)),
		"Hinode/XRT",
		"",
		complex128(complex(3.5, 4.5)),
		uint16(65000),
		uint32(4000000000),
		int64(-1 << 40),
		uint64(1 << 63),
	}

	for _, want := range values {
		v, err := NewVariable("SAVEGEN0", want)
		if err != nil {
			t.Fatalf("NewVariable(%T) failed: %v", want, err)
		}
		data := encodeFile(t, &File{Header: Header{Version: 2}, Variables: []Variable{v}})

		f, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode(%T) failed: %v", want, err)
		}
		if got := f.Variables[0].Value; got != want {
			t.Errorf("expected %#v, got %#v", want, got)
		}
	}
}

func TestRoundTripArrays(t *testing.T) {
	values := []interface{}{
		[]uint8{1, 2, 3},
		[]int16{-1, 0, 1, 2, 3},
		[]int32{7},
		[]float32{0.5, 1.5},
		[]float64{1, 2, 3, 4, 5, 6, 7},
		[]string{"Al", "", "poly"},
		[]uint16{1, 65535},
		[]uint32{1, 2},
		[]int64{-5, 5},
		[]uint64{9},
		[]complex64{complex(1, 1)},
		[]complex128{complex(2, 2), complex(3, 3)},
	}

	for _, want := range values {
		v, err := NewVariable("SAVEGEN0", want)
		if err != nil {
			t.Fatalf("NewVariable(%T) failed: %v", want, err)
		}
		f, err := Decode(encodeFile(t, &File{Variables: []Variable{v}}))
		if err != nil {
			t.Fatalf("Decode(%T) failed: %v", want, err)
		}
		if diff := cmp.Diff(want, f.Variables[0].Value); diff != "" {
			t.Errorf("%T mismatch (-want +got):\n%s", want, diff)
		}
	}
}

func TestRoundTripHeader(t *testing.T) {
	tests := []struct {
		name string
		hdr  Header
	}{
		{"v1", Header{Version: 1, XDR: true, Creation: "Wed Jun  1 12:00:00 2016", Text: "v1 text"}},
		{"v2", Header{Version: 2, XDR: true, Creation: "Wed Jun  1 12:00:00 2016", Arch: "x86_64", OS: "linux", Release: "8.5", Text: "XRT channels"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := NewVariable("SAVEGEN0", int32(1))
			data := encodeFile(t, &File{Header: tt.hdr, Variables: []Variable{v}})

			got, err := DecodeHeader(data)
			if err != nil {
				t.Fatalf("DecodeHeader failed: %v", err)
			}
			if diff := cmp.Diff(tt.hdr, got); diff != "" {
				t.Errorf("header mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripNestedStructArray(t *testing.T) {
	elems := make([]*Struct, 3)
	for i := range elems {
		geom := mustStruct(t, "", Field{"LONG_NAME", "flight"}, Field{"FOC_LEN", float64(270.0 + i)})
		elems[i] = mustStruct(t, "CHAN",
			Field{"NAME", []string{"Al-mesh", "Al-poly", "C-poly"}[i]},
			Field{"GEOM", geom},
			Field{"WAVE", []float32{1, 2, 3, 4}},
			Field{"LENGTH", int16(3)},
		)
	}
	v, err := NewVariable("SAVEGEN0", elems)
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}

	f, err := Decode(encodeFile(t, &File{Header: Header{Version: 2, Text: "test"}, Variables: []Variable{v}}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	got, ok := f.Variable("savegen0")
	if !ok {
		t.Fatal("variable SAVEGEN0 not found")
	}
	if got.Size.Count != 3 || got.Struct.Name != "CHAN" {
		t.Fatalf("unexpected variable size %v / struct %q", got.Size, got.Struct.Name)
	}
	arr := got.Value.([]*Struct)
	if arr[0].Def != arr[2].Def {
		t.Error("decoded elements do not share a definition")
	}

	name, _ := arr[1].Get("name")
	if name != "Al-poly" {
		t.Errorf("expected Al-poly, got %v", name)
	}
	geom, err := arr[2].Sub("GEOM")
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	foc, err := geom.Must("FOC_LEN")
	if err != nil {
		t.Fatal(err)
	}
	if foc != float64(272) {
		t.Errorf("expected 272, got %v", foc)
	}
	if diff := cmp.Diff([]string{"NAME", "GEOM", "WAVE", "LENGTH"}, arr[0].Names()); diff != "" {
		t.Errorf("tag names mismatch (-want +got):\n%s", diff)
	}
}

func TestStructArrayLayoutMismatch(t *testing.T) {
	a := mustStruct(t, "", Field{"WAVE", []float64{1, 2}})
	b := mustStruct(t, "", Field{"WAVE", []float64{1, 2, 3}})
	if _, err := NewVariable("SAVEGEN0", []*Struct{a, b}); err == nil {
		t.Error("expected error for structure array with different array sizes")
	}
}

func TestMultipleVariables(t *testing.T) {
	v0, _ := NewVariable("SAVEGEN0", "first")
	v1, _ := NewVariable("SAVEGEN1", []float64{1, 2})
	f, err := Decode(encodeFile(t, &File{Variables: []Variable{v0, v1}}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(f.Variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(f.Variables))
	}
	if f.Variables[1].Name != "SAVEGEN1" {
		t.Errorf("expected SAVEGEN1, got %s", f.Variables[1].Name)
	}
}

func TestDecodeErrors(t *testing.T) {
	v, _ := NewVariable("SAVEGEN0", []float64{1, 2, 3})
	good := encodeFile(t, &File{Variables: []Variable{v}})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrBadHeader},
		{"bad version", []byte{0, 0, 0, 9, 0, 0, 0, 1}, ErrBadHeader},
		{"no variables", good[:len(good)-8*3-16], ErrBadHeader},
		{"truncated data", good[:len(good)-4], nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// skeletonFile is a version 1 file holding one scalar structure
//
//	PT = {X: 1.5 (float), SUB: {N: 7 (long)}}
//
// written out word by word in SAVEGEN layout.
var skeletonFile = []byte{
	// header: version 1, xdr, creation "d", empty text
	0, 0, 0, 1, 0, 0, 0, 1,
	0, 0, 0, 1, 0, 0, 0, 1, 'd', 0, 0, 0,
	0, 0, 0, 0,
	// size: scalar structure
	0, 0, 0, 0, 0, 0, 0, 8, 0, 0, 0, 1,
	// skeleton: name "PT", 2 tags, not super, tag names
	0, 0, 0, 2, 0, 0, 0, 2, 'P', 'T', 0, 0,
	0, 0, 0, 2,
	0, 0, 0, 0,
	0, 0, 0, 1, 0, 0, 0, 1, 'X', 0, 0, 0,
	0, 0, 0, 3, 0, 0, 0, 3, 'S', 'U', 'B', 0,
	// X: scalar float
	0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 1,
	// SUB: scalar structure, anonymous, 1 tag, not super
	0, 0, 0, 0, 0, 0, 0, 8, 0, 0, 0, 1,
	0, 0, 0, 0,
	0, 0, 0, 1,
	0, 0, 0, 0,
	0, 0, 0, 1, 0, 0, 0, 1, 'N', 0, 0, 0,
	// N: scalar long
	0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0, 1,
	// data: X = 1.5, SUB.N = 7
	0x3F, 0xC0, 0, 0,
	0, 0, 0, 7,
}

func TestDecodeStructureSkeleton(t *testing.T) {
	f, err := Decode(skeletonFile)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Header.Creation != "d" {
		t.Errorf("expected creation d, got %q", f.Header.Creation)
	}

	v := f.Variables[0]
	if v.Struct == nil || v.Struct.Name != "PT" || v.Struct.Super {
		t.Fatalf("unexpected definition %+v", v.Struct)
	}
	s := v.Value.(*Struct)
	x, _ := s.Get("X")
	if x != float32(1.5) {
		t.Errorf("expected X 1.5, got %v", x)
	}
	sub, err := s.Sub("SUB")
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if sub.Def.Name != "" {
		t.Errorf("expected anonymous sub-structure, got %q", sub.Def.Name)
	}
	n, _ := sub.Get("N")
	if n != int32(7) {
		t.Errorf("expected N 7, got %v", n)
	}
}

func TestEncodeStructureSkeleton(t *testing.T) {
	sub := mustStruct(t, "", Field{"N", int32(7)})
	pt := mustStruct(t, "PT", Field{"X", float32(1.5)}, Field{"SUB", sub})
	v, err := NewVariable("SAVEGEN0", pt)
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}

	got := encodeFile(t, &File{Header: Header{Version: 1, Creation: "d"}, Variables: []Variable{v}})
	if !bytes.Equal(got, skeletonFile) {
		t.Errorf("encoded bytes differ\nexpected % x\ngot      % x", skeletonFile, got)
	}
}

func TestSuperFlagRoundTrip(t *testing.T) {
	s := mustStruct(t, "CHILD", Field{"A", int32(1)})
	s.Def.Super = true
	v, err := NewVariable("SAVEGEN0", s)
	if err != nil {
		t.Fatalf("NewVariable failed: %v", err)
	}

	f, err := Decode(encodeFile(t, &File{Variables: []Variable{v}}))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !f.Variables[0].Struct.Super {
		t.Error("expected super flag to survive a round trip")
	}
}

func TestDecodeUnsupportedType(t *testing.T) {
	// header v1: version, xdr, empty creation, empty text
	data := []byte{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	// scalar pointer: ndim 0, type 10, count 1
	data = append(data, 0, 0, 0, 0, 0, 0, 0, 10, 0, 0, 0, 1)

	_, err := Decode(data)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestWalkPaths(t *testing.T) {
	elems := []*Struct{
		mustStruct(t, "", Field{"CCD", mustStruct(t, "", Field{"QE", []float64{0.5}})}, Field{"NAME", "a"}),
		mustStruct(t, "", Field{"CCD", mustStruct(t, "", Field{"QE", []float64{0.6}})}, Field{"NAME", "b"}),
	}
	v, err := NewVariable("SAVEGEN0", elems)
	if err != nil {
		t.Fatal(err)
	}

	var paths []string
	err = Walk(v, func(path string, size Size, value interface{}) error {
		paths = append(paths, path)
		if path == "SAVEGEN0[1].CCD" {
			return SkipStruct
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	want := []string{
		"SAVEGEN0",
		"SAVEGEN0[0]",
		"SAVEGEN0[0].CCD",
		"SAVEGEN0[0].CCD.QE",
		"SAVEGEN0[0].NAME",
		"SAVEGEN0[1]",
		"SAVEGEN0[1].CCD",
		"SAVEGEN0[1].NAME",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSkeleton(t *testing.T) {
	s := mustStruct(t, "CHAN",
		Field{"GEOM", mustStruct(t, "", Field{"FOC_LEN", 270.0})},
		Field{"WAVE", []float64{1, 2}},
	)

	var lines []string
	err := WalkSkeleton("SAVEGEN0", s.Def, func(path string, depth int, tag Tag) error {
		lines = append(lines, strings.Repeat(" ", depth)+path+" "+tag.Size.String())
		return nil
	})
	if err != nil {
		t.Fatalf("WalkSkeleton failed: %v", err)
	}
	want := []string{
		"SAVEGEN0.GEOM STRUCT",
		" SAVEGEN0.GEOM.FOC_LEN DOUBLE",
		"SAVEGEN0.WAVE DOUBLE[2]",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("skeleton mismatch (-want +got):\n%s", diff)
	}
}

func TestCoercion(t *testing.T) {
	f, err := Float64(int16(-3))
	if err != nil || f != -3 {
		t.Errorf("Float64(int16): got %v, %v", f, err)
	}
	f, err = Float64([]float32{2.5})
	if err != nil || f != 2.5 {
		t.Errorf("Float64(one-element array): got %v, %v", f, err)
	}
	if _, err := Float64("x"); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("expected ErrNotNumeric, got %v", err)
	}

	fs, err := Float64s([]int32{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{1, 2}, fs); diff != "" {
		t.Errorf("Float64s mismatch (-want +got):\n%s", diff)
	}

	src := []float64{1, 2}
	cp, _ := Float64s(src)
	cp[0] = 99
	if src[0] != 1 {
		t.Error("Float64s aliased its input")
	}

	n, err := Int(float32(12))
	if err != nil || n != 12 {
		t.Errorf("Int(float32): got %v, %v", n, err)
	}
	if _, err := Int(12.5); err == nil {
		t.Error("expected error for non-integral float")
	}

	s, err := String([]string{"XRT"})
	if err != nil || s != "XRT" {
		t.Errorf("String(one-element array): got %q, %v", s, err)
	}
	if _, err := String(int32(1)); !errors.Is(err, ErrNotString) {
		t.Errorf("expected ErrNotString, got %v", err)
	}
}

func TestTypeCodeString(t *testing.T) {
	if TypeStruct.String() != "STRUCT" {
		t.Errorf("expected STRUCT, got %s", TypeStruct)
	}
	if TypeCode(99).String() != "TYPE(99)" {
		t.Errorf("unexpected name for unknown type: %s", TypeCode(99))
	}
	if TypePointer.Supported() {
		t.Error("pointers reported as supported")
	}
}
