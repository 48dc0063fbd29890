package genx

import (
	"bytes"
	"fmt"

	"github.com/robert-malhotra/go-xrt/internal/binary"
)

// maxStructDepth bounds nested structure definitions.
const maxStructDepth = 32

// Decode parses a complete genx file.
func Decode(data []byte) (*File, error) {
	r := binary.NewReader(bytes.NewReader(data), binary.DefaultConfig())

	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	f := &File{Header: hdr}
	for i := 0; !r.AtEOF(); i++ {
		v, err := readVariable(r, variableName(i))
		if err != nil {
			return nil, fmt.Errorf("reading %s at offset %d: %w", variableName(i), r.Pos(), err)
		}
		f.Variables = append(f.Variables, v)
	}
	if len(f.Variables) == 0 {
		return nil, fmt.Errorf("%w: no variables", ErrBadHeader)
	}
	return f, nil
}

// DecodeHeader parses only the file header.
func DecodeHeader(data []byte) (Header, error) {
	r := binary.NewReader(bytes.NewReader(data), binary.DefaultConfig())
	return readHeader(r)
}

func readHeader(r *binary.Reader) (Header, error) {
	var hdr Header

	version, err := r.ReadInt32()
	if err != nil {
		return hdr, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if version != 1 && version != 2 {
		return hdr, fmt.Errorf("%w: version %d", ErrBadHeader, version)
	}
	hdr.Version = int(version)

	xdr, err := r.ReadInt32()
	if err != nil {
		return hdr, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	hdr.XDR = xdr != 0

	if hdr.Creation, err = readString(r); err != nil {
		return hdr, fmt.Errorf("%w: creation date: %v", ErrBadHeader, err)
	}
	if hdr.Version == 2 {
		for _, dst := range []*string{&hdr.Arch, &hdr.OS, &hdr.Release} {
			if *dst, err = readString(r); err != nil {
				return hdr, fmt.Errorf("%w: platform: %v", ErrBadHeader, err)
			}
		}
	}
	if hdr.Text, err = readString(r); err != nil {
		return hdr, fmt.Errorf("%w: text: %v", ErrBadHeader, err)
	}
	return hdr, nil
}

// readString reads an SSW string: length, repeated length, padded bytes.
func readString(r *binary.Reader) (string, error) {
	n, err := r.ReadLength()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	again, err := r.ReadLength()
	if err != nil {
		return "", err
	}
	if again != n {
		return "", fmt.Errorf("string length mismatch: %d then %d", n, again)
	}
	b, err := r.ReadOpaque(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readSize(r *binary.Reader) (Size, error) {
	var s Size

	ndim, err := r.ReadInt32()
	if err != nil {
		return s, err
	}
	if ndim < 0 || ndim > MaxDims {
		return s, fmt.Errorf("%w: rank %d", ErrBadSize, ndim)
	}
	if ndim > 0 {
		s.Dims = make([]int, ndim)
		for i := range s.Dims {
			d, err := r.ReadInt32()
			if err != nil {
				return s, err
			}
			s.Dims[i] = int(d)
		}
	}
	typ, err := r.ReadInt32()
	if err != nil {
		return s, err
	}
	s.Type = TypeCode(typ)
	count, err := r.ReadInt32()
	if err != nil {
		return s, err
	}
	s.Count = int(count)

	if err := s.validate(); err != nil {
		return s, err
	}
	return s, nil
}

func readStructDef(r *binary.Reader, depth int) (*StructDef, error) {
	if depth > maxStructDepth {
		return nil, fmt.Errorf("structure nesting deeper than %d", maxStructDepth)
	}

	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("structure name: %w", err)
	}
	ntags, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if ntags <= 0 {
		return nil, fmt.Errorf("structure %q has %d tags", name, ntags)
	}
	super, err := r.ReadInt32()
	if err != nil {
		return nil, fmt.Errorf("structure %q: %w", name, err)
	}

	def := &StructDef{Name: name, Super: super != 0, Tags: make([]Tag, ntags)}
	for i := range def.Tags {
		if def.Tags[i].Name, err = readString(r); err != nil {
			return nil, fmt.Errorf("tag name %d: %w", i, err)
		}
	}
	for i := range def.Tags {
		tag := &def.Tags[i]
		if tag.Size, err = readSize(r); err != nil {
			return nil, fmt.Errorf("tag %s: %w", tag.Name, err)
		}
		if tag.Size.Type == TypeStruct {
			if tag.Struct, err = readStructDef(r, depth+1); err != nil {
				return nil, fmt.Errorf("tag %s: %w", tag.Name, err)
			}
		}
	}
	return def, nil
}

func readVariable(r *binary.Reader, name string) (Variable, error) {
	v := Variable{Name: name}

	size, err := readSize(r)
	if err != nil {
		return v, err
	}
	v.Size = size

	if size.Type == TypeStruct {
		if v.Struct, err = readStructDef(r, 0); err != nil {
			return v, err
		}
	}
	if v.Value, err = readValue(r, size, v.Struct); err != nil {
		return v, err
	}
	return v, nil
}

// readValue reads the data for one sized item.
func readValue(r *binary.Reader, size Size, def *StructDef) (interface{}, error) {
	if size.Type == TypeStruct {
		if size.IsScalar() {
			return readStruct(r, def)
		}
		out := make([]*Struct, size.Count)
		for i := range out {
			s, err := readStruct(r, def)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = s
		}
		return out, nil
	}

	if size.IsScalar() {
		return readScalar(r, size.Type)
	}
	return readArray(r, size.Type, size.Count)
}

func readStruct(r *binary.Reader, def *StructDef) (*Struct, error) {
	s := &Struct{Def: def, Values: make([]interface{}, len(def.Tags))}
	for i, tag := range def.Tags {
		v, err := readValue(r, tag.Size, tag.Struct)
		if err != nil {
			return nil, fmt.Errorf("tag %s: %w", tag.Name, err)
		}
		s.Values[i] = v
	}
	return s, nil
}

func readScalar(r *binary.Reader, typ TypeCode) (interface{}, error) {
	switch typ {
	case TypeByte:
		v, err := r.ReadUint32()
		return uint8(v), err
	case TypeInt:
		v, err := r.ReadInt32()
		return int16(v), err
	case TypeLong:
		return r.ReadInt32()
	case TypeFloat:
		return r.ReadFloat32()
	case TypeDouble:
		return r.ReadFloat64()
	case TypeComplex:
		re, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		im, err := r.ReadFloat32()
		return complex(re, im), err
	case TypeString:
		return readString(r)
	case TypeDComplex:
		re, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		im, err := r.ReadFloat64()
		return complex(re, im), err
	case TypeUInt:
		v, err := r.ReadUint32()
		return uint16(v), err
	case TypeULong:
		return r.ReadUint32()
	case TypeLong64:
		return r.ReadInt64()
	case TypeULong64:
		return r.ReadUint64()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

func readArray(r *binary.Reader, typ TypeCode, n int) (interface{}, error) {
	switch typ {
	case TypeByte:
		b, err := r.ReadVarOpaque()
		if err != nil {
			return nil, err
		}
		if len(b) != n {
			return nil, fmt.Errorf("%w: byte array holds %d of %d", ErrBadSize, len(b), n)
		}
		return b, nil
	case TypeInt:
		return readN(r, n, func() (int16, error) {
			v, err := r.ReadInt32()
			return int16(v), err
		})
	case TypeLong:
		return readN(r, n, r.ReadInt32)
	case TypeFloat:
		return readN(r, n, r.ReadFloat32)
	case TypeDouble:
		return readN(r, n, r.ReadFloat64)
	case TypeComplex:
		return readN(r, n, func() (complex64, error) {
			v, err := readScalar(r, TypeComplex)
			if err != nil {
				return 0, err
			}
			return v.(complex64), nil
		})
	case TypeString:
		return readN(r, n, func() (string, error) { return readString(r) })
	case TypeDComplex:
		return readN(r, n, func() (complex128, error) {
			v, err := readScalar(r, TypeDComplex)
			if err != nil {
				return 0, err
			}
			return v.(complex128), nil
		})
	case TypeUInt:
		return readN(r, n, func() (uint16, error) {
			v, err := r.ReadUint32()
			return uint16(v), err
		})
	case TypeULong:
		return readN(r, n, r.ReadUint32)
	case TypeLong64:
		return readN(r, n, r.ReadInt64)
	case TypeULong64:
		return readN(r, n, r.ReadUint64)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, typ)
}

func readN[T any](r *binary.Reader, n int, read func() (T, error)) ([]T, error) {
	// Every element takes at least one word; refuse counts the input
	// cannot possibly hold before allocating.
	if r.AtEOF() || n > 1<<28 {
		return nil, fmt.Errorf("%w: %d elements at offset %d", ErrBadSize, n, r.Pos())
	}
	out := make([]T, n)
	for i := range out {
		v, err := read()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
