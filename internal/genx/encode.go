package genx

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-xrt/internal/binary"
)

// Field is a named value used to build a structure.
type Field struct {
	Name  string
	Value interface{}
}

// NewStruct builds a structure, inferring every tag's size from the Go type
// of its value.
func NewStruct(name string, fields ...Field) (*Struct, error) {
	def := &StructDef{Name: name, Tags: make([]Tag, len(fields))}
	s := &Struct{Def: def, Values: make([]interface{}, len(fields))}
	for i, f := range fields {
		size, sub, err := SizeOf(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		def.Tags[i] = Tag{Name: f.Name, Size: size, Struct: sub}
		s.Values[i] = f.Value
	}
	return s, nil
}

// NewVariable wraps a value as a saved variable.
func NewVariable(name string, value interface{}) (Variable, error) {
	size, def, err := SizeOf(value)
	if err != nil {
		return Variable{}, err
	}
	return Variable{Name: name, Size: size, Struct: def, Value: value}, nil
}

// SizeOf infers the IDL size vector of a Go value. Structure arrays must
// share one definition.
func SizeOf(v interface{}) (Size, *StructDef, error) {
	scalar := func(t TypeCode) (Size, *StructDef, error) {
		return Size{Type: t, Count: 1}, nil, nil
	}
	array := func(t TypeCode, n int) (Size, *StructDef, error) {
		if n == 0 {
			return Size{}, nil, fmt.Errorf("%w: empty %s array", ErrBadSize, t)
		}
		return Size{Dims: []int{n}, Type: t, Count: n}, nil, nil
	}

	switch x := v.(type) {
	case uint8:
		return scalar(TypeByte)
	case int16:
		return scalar(TypeInt)
	case int32:
		return scalar(TypeLong)
	case float32:
		return scalar(TypeFloat)
	case float64:
		return scalar(TypeDouble)
	case complex64:
		return scalar(TypeComplex)
	case string:
		return scalar(TypeString)
	case complex128:
		return scalar(TypeDComplex)
	case uint16:
		return scalar(TypeUInt)
	case uint32:
		return scalar(TypeULong)
	case int64:
		return scalar(TypeLong64)
	case uint64:
		return scalar(TypeULong64)
	case *Struct:
		return Size{Type: TypeStruct, Count: 1}, x.Def, nil
	case []uint8:
		return array(TypeByte, len(x))
	case []int16:
		return array(TypeInt, len(x))
	case []int32:
		return array(TypeLong, len(x))
	case []float32:
		return array(TypeFloat, len(x))
	case []float64:
		return array(TypeDouble, len(x))
	case []complex64:
		return array(TypeComplex, len(x))
	case []string:
		return array(TypeString, len(x))
	case []complex128:
		return array(TypeDComplex, len(x))
	case []uint16:
		return array(TypeUInt, len(x))
	case []uint32:
		return array(TypeULong, len(x))
	case []int64:
		return array(TypeLong64, len(x))
	case []uint64:
		return array(TypeULong64, len(x))
	case []*Struct:
		size, _, err := array(TypeStruct, len(x))
		if err != nil {
			return size, nil, err
		}
		def := x[0].Def
		for i, s := range x[1:] {
			if !sameDef(s.Def, def) {
				return Size{}, nil, fmt.Errorf("element %d has a different structure definition", i+1)
			}
		}
		return size, def, nil
	}
	return Size{}, nil, fmt.Errorf("%w: Go type %T", ErrUnsupportedType, v)
}

// Encode writes f in genx format.
func Encode(w io.Writer, f *File) error {
	buf := &binary.Buffer{}
	bw := binary.NewWriter(buf, binary.DefaultConfig())

	if err := writeHeader(bw, f.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, v := range f.Variables {
		if err := writeVariable(bw, v); err != nil {
			return fmt.Errorf("writing %s: %w", v.Name, err)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeHeader(w *binary.Writer, hdr Header) error {
	version := hdr.Version
	if version == 0 {
		version = 2
	}
	if version != 1 && version != 2 {
		return fmt.Errorf("%w: version %d", ErrBadHeader, version)
	}
	if err := w.WriteInt32(int32(version)); err != nil {
		return err
	}
	// SAVEGEN always writes XDR.
	if err := w.WriteInt32(1); err != nil {
		return err
	}
	strs := []string{hdr.Creation}
	if version == 2 {
		strs = append(strs, hdr.Arch, hdr.OS, hdr.Release)
	}
	strs = append(strs, hdr.Text)
	for _, s := range strs {
		if err := writeString(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w *binary.Writer, s string) error {
	if err := w.WriteUint32(uint32(len(s))); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	return w.WriteVarOpaque([]byte(s))
}

func writeSize(w *binary.Writer, s Size) error {
	if err := s.validate(); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(len(s.Dims))); err != nil {
		return err
	}
	for _, d := range s.Dims {
		if err := w.WriteInt32(int32(d)); err != nil {
			return err
		}
	}
	if err := w.WriteInt32(int32(s.Type)); err != nil {
		return err
	}
	return w.WriteInt32(int32(s.Count))
}

func writeStructDef(w *binary.Writer, def *StructDef) error {
	if err := writeString(w, def.Name); err != nil {
		return err
	}
	if err := w.WriteInt32(int32(len(def.Tags))); err != nil {
		return err
	}
	var super int32
	if def.Super {
		super = 1
	}
	if err := w.WriteInt32(super); err != nil {
		return err
	}
	for _, t := range def.Tags {
		if err := writeString(w, t.Name); err != nil {
			return err
		}
	}
	for _, t := range def.Tags {
		if err := writeSize(w, t.Size); err != nil {
			return fmt.Errorf("tag %s: %w", t.Name, err)
		}
		if t.Size.Type == TypeStruct {
			if err := writeStructDef(w, t.Struct); err != nil {
				return fmt.Errorf("tag %s: %w", t.Name, err)
			}
		}
	}
	return nil
}

func writeVariable(w *binary.Writer, v Variable) error {
	if err := writeSize(w, v.Size); err != nil {
		return err
	}
	if v.Size.Type == TypeStruct {
		if v.Struct == nil {
			return fmt.Errorf("structure variable without definition")
		}
		if err := writeStructDef(w, v.Struct); err != nil {
			return err
		}
	}
	return writeValue(w, v.Size, v.Value)
}

func writeValue(w *binary.Writer, size Size, v interface{}) error {
	got, _, err := SizeOf(v)
	if err != nil {
		return err
	}
	if got.Type != size.Type || got.Count != size.Count || got.IsScalar() != size.IsScalar() {
		return fmt.Errorf("%w: value is %s, definition says %s", ErrBadSize, got, size)
	}

	switch x := v.(type) {
	case *Struct:
		return writeStruct(w, x)
	case []*Struct:
		for i, s := range x {
			if err := writeStruct(w, s); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	case []uint8:
		return w.WriteVarOpaque(x)
	case []int16:
		return writeN(x, func(v int16) error { return w.WriteInt32(int32(v)) })
	case []int32:
		return writeN(x, w.WriteInt32)
	case []float32:
		return writeN(x, w.WriteFloat32)
	case []float64:
		return writeN(x, w.WriteFloat64)
	case []complex64:
		return writeN(x, func(v complex64) error { return writeScalar(w, v) })
	case []string:
		return writeN(x, func(v string) error { return writeString(w, v) })
	case []complex128:
		return writeN(x, func(v complex128) error { return writeScalar(w, v) })
	case []uint16:
		return writeN(x, func(v uint16) error { return w.WriteUint32(uint32(v)) })
	case []uint32:
		return writeN(x, w.WriteUint32)
	case []int64:
		return writeN(x, w.WriteInt64)
	case []uint64:
		return writeN(x, w.WriteUint64)
	}
	return writeScalar(w, v)
}

func writeStruct(w *binary.Writer, s *Struct) error {
	for i, tag := range s.Def.Tags {
		if err := writeValue(w, tag.Size, s.Values[i]); err != nil {
			return fmt.Errorf("tag %s: %w", tag.Name, err)
		}
	}
	return nil
}

func writeScalar(w *binary.Writer, v interface{}) error {
	switch x := v.(type) {
	case uint8:
		return w.WriteUint32(uint32(x))
	case int16:
		return w.WriteInt32(int32(x))
	case int32:
		return w.WriteInt32(x)
	case float32:
		return w.WriteFloat32(x)
	case float64:
		return w.WriteFloat64(x)
	case complex64:
		if err := w.WriteFloat32(real(x)); err != nil {
			return err
		}
		return w.WriteFloat32(imag(x))
	case string:
		return writeString(w, x)
	case complex128:
		if err := w.WriteFloat64(real(x)); err != nil {
			return err
		}
		return w.WriteFloat64(imag(x))
	case uint16:
		return w.WriteUint32(uint32(x))
	case uint32:
		return w.WriteUint32(x)
	case int64:
		return w.WriteInt64(x)
	case uint64:
		return w.WriteUint64(x)
	}
	return fmt.Errorf("%w: Go type %T", ErrUnsupportedType, v)
}

func writeN[T any](xs []T, write func(T) error) error {
	for i, x := range xs {
		if err := write(x); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// sameDef reports whether two structure definitions describe the same
// layout. Elements of a structure array must all share one layout.
func sameDef(a, b *StructDef) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Name != b.Name || a.Super != b.Super || len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		ta, tb := a.Tags[i], b.Tags[i]
		if ta.Name != tb.Name || ta.Size.String() != tb.Size.String() {
			return false
		}
		if ta.Size.Type == TypeStruct && !sameDef(ta.Struct, tb.Struct) {
			return false
		}
	}
	return true
}
