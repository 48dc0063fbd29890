// Package genx reads and writes SSW "genx" files, the XDR encoded variable
// dumps produced by IDL's SAVEGEN and read back by RESTGEN.
//
// # File Layout
//
// Every item is a multiple of four bytes, big-endian:
//
//	version       int32   1 or 2
//	xdr           int32   non-zero for XDR encoding
//	creation      string
//	arch, os,     string  version 2 only
//	release
//	text          string  free-form description
//	variables     one or more, until EOF (SAVEGEN0, SAVEGEN1, ...)
//
// Strings carry the SSW double length prefix: a word n and, when n > 0, a
// second copy of n followed by n bytes of text padded to a word boundary.
//
// # Variables
//
// A variable starts with its IDL SIZE() vector:
//
//	ndim int32, dims [ndim]int32, type int32, count int32
//
// A structure variable (type 8) is followed by its definition: the structure
// name, the tag count, the super-structure flag word, every tag name and
// then every tag's own size vector, each nested structure tag carrying its
// definition inline. The data follow the definition in tag order, element
// by element.
//
// # Go Values
//
// Decoded values use these Go types:
//
//	IDL type    | scalar      | array
//	------------|-------------|------------
//	byte        | uint8       | []uint8
//	int         | int16       | []int16
//	long        | int32       | []int32
//	float       | float32     | []float32
//	double      | float64     | []float64
//	complex     | complex64   | []complex64
//	string      | string      | []string
//	structure   | *Struct     | []*Struct
//	dcomplex    | complex128  | []complex128
//	uint        | uint16      | []uint16
//	ulong       | uint32      | []uint32
//	long64      | int64       | []int64
//	ulong64     | uint64      | []uint64
//
// Multi-dimensional arrays are flattened in file order; the shape is kept in
// the [Size] of the owning tag.
//
// # Key Functions
//
//   - [Decode]: parse a whole genx file held in memory
//   - [Encode]: write a [File] back out
//   - [Walk]: visit every tag of a decoded value
//   - [Float64], [Float64s], [Int], [String]: loose numeric/string coercion
package genx
