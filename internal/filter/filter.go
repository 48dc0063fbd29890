package filter

import (
	"fmt"
)

// maxDepth bounds nested wrappers (for example a gzip of a zlib stream).
const maxDepth = 4

// Filter is the interface implemented by all decompression filters.
type Filter interface {
	// Name returns the filter name used in error messages.
	Name() string

	// Match reports whether data begins with this filter's magic bytes.
	Match(data []byte) bool

	// Decode transforms encoded data to decoded form.
	Decode(input []byte) ([]byte, error)
}

// Registry lists the filters tried by Detect, in order.
var Registry = []Filter{
	Gzip{},
	Zlib{},
}

// Detect returns the filter whose magic matches data, or nil.
func Detect(data []byte) Filter {
	for _, f := range Registry {
		if f.Match(data) {
			return f
		}
	}
	return nil
}

// Decode strips every recognised compression wrapper from data.
func Decode(data []byte) ([]byte, error) {
	for depth := 0; depth < maxDepth; depth++ {
		f := Detect(data)
		if f == nil {
			return data, nil
		}
		decoded, err := f.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s decode: %w", f.Name(), err)
		}
		data = decoded
	}
	return nil, fmt.Errorf("more than %d nested compression wrappers", maxDepth)
}
