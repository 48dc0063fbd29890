package genx

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Errors returned while decoding or navigating genx data.
var (
	ErrBadHeader       = errors.New("invalid genx header")
	ErrBadSize         = errors.New("invalid size vector")
	ErrUnsupportedType = errors.New("unsupported IDL type")
	ErrNoSuchTag       = errors.New("no such tag")
	ErrNotNumeric      = errors.New("value is not numeric")
	ErrNotString       = errors.New("value is not a string")
)

// Tag is one field of a structure definition.
type Tag struct {
	Name   string
	Size   Size
	Struct *StructDef // set when Size.Type is TypeStruct
}

// StructDef is an IDL structure definition. Anonymous structures have an
// empty Name.
type StructDef struct {
	Name string
	// Super is the skeleton flag SAVEGEN writes after the tag count for
	// structures built by inheritance.
	Super bool
	Tags  []Tag
}

// TagIndex returns the position of the named tag, or -1. IDL tag names are
// case-insensitive.
func (d *StructDef) TagIndex(name string) int {
	for i, t := range d.Tags {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}

// Struct is one decoded structure element.
type Struct struct {
	Def    *StructDef
	Values []interface{}
}

// Get returns the value of the named tag.
func (s *Struct) Get(name string) (interface{}, bool) {
	i := s.Def.TagIndex(name)
	if i < 0 {
		return nil, false
	}
	return s.Values[i], true
}

// Must returns the value of the named tag or ErrNoSuchTag.
func (s *Struct) Must(name string) (interface{}, error) {
	v, ok := s.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTag, name)
	}
	return v, nil
}

// Sub returns a nested structure tag.
func (s *Struct) Sub(name string) (*Struct, error) {
	v, err := s.Must(name)
	if err != nil {
		return nil, err
	}
	sub, ok := v.(*Struct)
	if !ok {
		return nil, fmt.Errorf("tag %s is %T, not a structure", name, v)
	}
	return sub, nil
}

// Names returns the tag names in definition order.
func (s *Struct) Names() []string {
	names := make([]string, len(s.Def.Tags))
	for i, t := range s.Def.Tags {
		names[i] = t.Name
	}
	return names
}

// Header holds the file-level metadata written by SAVEGEN.
type Header struct {
	Version  int
	XDR      bool
	Creation string
	Arch     string
	OS       string
	Release  string
	Text     string
}

// Variable is one saved variable.
type Variable struct {
	Name   string // SAVEGEN0, SAVEGEN1, ...
	Size   Size
	Struct *StructDef
	Value  interface{}
}

// File is a decoded genx file.
type File struct {
	Header    Header
	Variables []Variable
}

// Variable returns the named variable.
func (f *File) Variable(name string) (*Variable, bool) {
	for i := range f.Variables {
		if strings.EqualFold(f.Variables[i].Name, name) {
			return &f.Variables[i], true
		}
	}
	return nil, false
}

// variableName returns the RESTGEN name of the i-th saved variable.
func variableName(i int) string {
	return fmt.Sprintf("SAVEGEN%d", i)
}

// Float64 converts a numeric scalar to float64.
func Float64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case uint8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	// A one-element array stands in for a scalar, as it does in IDL.
	if vs, err := Float64s(v); err == nil && len(vs) == 1 {
		return vs[0], nil
	}
	return math.NaN(), fmt.Errorf("%w: %T", ErrNotNumeric, v)
}

// Float64s converts a numeric array to a new []float64.
func Float64s(v interface{}) ([]float64, error) {
	switch x := v.(type) {
	case []float64:
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	case []float32:
		return convertSlice(x), nil
	case []uint8:
		return convertSlice(x), nil
	case []int16:
		return convertSlice(x), nil
	case []int32:
		return convertSlice(x), nil
	case []uint16:
		return convertSlice(x), nil
	case []uint32:
		return convertSlice(x), nil
	case []int64:
		return convertSlice(x), nil
	case []uint64:
		return convertSlice(x), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotNumeric, v)
}

type number interface {
	~uint8 | ~int16 | ~int32 | ~float32 | ~uint16 | ~uint32 | ~int64 | ~uint64
}

func convertSlice[T number](in []T) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = float64(x)
	}
	return out
}

// Int converts an integral scalar to int.
func Int(v interface{}) (int, error) {
	switch x := v.(type) {
	case uint8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint64:
		return int(x), nil
	case float32, float64:
		f, _ := Float64(x)
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %v is not integral", ErrNotNumeric, f)
		}
		return int(f), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
}

// String returns a string scalar. A one-element string array is accepted.
func String(v interface{}) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []string:
		if len(x) == 1 {
			return x[0], nil
		}
	}
	return "", fmt.Errorf("%w: %T", ErrNotString, v)
}
