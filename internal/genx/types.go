package genx

import (
	"fmt"
	"strings"
)

// TypeCode is an IDL type code as reported by SIZE().
type TypeCode int32

// IDL type codes.
const (
	TypeUndefined TypeCode = 0
	TypeByte      TypeCode = 1
	TypeInt       TypeCode = 2
	TypeLong      TypeCode = 3
	TypeFloat     TypeCode = 4
	TypeDouble    TypeCode = 5
	TypeComplex   TypeCode = 6
	TypeString    TypeCode = 7
	TypeStruct    TypeCode = 8
	TypeDComplex  TypeCode = 9
	TypePointer   TypeCode = 10
	TypeObject    TypeCode = 11
	TypeUInt      TypeCode = 12
	TypeULong     TypeCode = 13
	TypeLong64    TypeCode = 14
	TypeULong64   TypeCode = 15
)

var typeNames = map[TypeCode]string{
	TypeUndefined: "UNDEFINED",
	TypeByte:      "BYTE",
	TypeInt:       "INT",
	TypeLong:      "LONG",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeComplex:   "COMPLEX",
	TypeString:    "STRING",
	TypeStruct:    "STRUCT",
	TypeDComplex:  "DCOMPLEX",
	TypePointer:   "POINTER",
	TypeObject:    "OBJREF",
	TypeUInt:      "UINT",
	TypeULong:     "ULONG",
	TypeLong64:    "LONG64",
	TypeULong64:   "ULONG64",
}

func (t TypeCode) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TYPE(%d)", int32(t))
}

// Supported reports whether values of this type can be decoded. Pointers
// and object references only make sense inside a live IDL session.
func (t TypeCode) Supported() bool {
	switch t {
	case TypeUndefined, TypePointer, TypeObject:
		return false
	}
	_, ok := typeNames[t]
	return ok
}

// MaxDims is the largest rank IDL supports.
const MaxDims = 8

// Size is an IDL SIZE() vector: dimensions, type code and element count.
// A scalar has no dimensions and a count of one.
type Size struct {
	Dims  []int
	Type  TypeCode
	Count int
}

// IsScalar reports whether the size describes a single value.
func (s Size) IsScalar() bool {
	return len(s.Dims) == 0
}

func (s Size) String() string {
	if s.IsScalar() {
		return s.Type.String()
	}
	dims := make([]string, len(s.Dims))
	for i, d := range s.Dims {
		dims[i] = fmt.Sprint(d)
	}
	return fmt.Sprintf("%s[%s]", s.Type, strings.Join(dims, ","))
}

func (s Size) validate() error {
	if len(s.Dims) > MaxDims {
		return fmt.Errorf("%w: rank %d", ErrBadSize, len(s.Dims))
	}
	if !s.Type.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, s.Type)
	}
	n := 1
	for _, d := range s.Dims {
		if d <= 0 {
			return fmt.Errorf("%w: dimension %d", ErrBadSize, d)
		}
		n *= d
	}
	if s.Count != n {
		return fmt.Errorf("%w: count %d does not match dimensions %v", ErrBadSize, s.Count, s.Dims)
	}
	return nil
}
