package genx

import (
	"errors"
	"fmt"
)

// SkipStruct can be returned by a walk callback to skip the tags of the
// structure it was just called for.
var SkipStruct = errors.New("skip this structure")

// WalkFunc is called for each item during traversal.
// path is the IDL-style path to the item, e.g. "SAVEGEN0[4].CCD.QE".
// Return nil to continue walking, SkipStruct to skip a structure's tags, or
// any other error to stop.
type WalkFunc func(path string, size Size, value interface{}) error

// Walk traverses a variable's value depth first, calling fn for the variable
// itself, every structure element and every tag.
//
// Example:
//
//	genx.Walk(v, func(path string, size genx.Size, value interface{}) error {
//	    fmt.Println(path, size)
//	    return nil
//	})
func Walk(v Variable, fn WalkFunc) error {
	err := walkValue(v.Name, v.Size, v.Value, fn)
	if errors.Is(err, SkipStruct) {
		return nil
	}
	return err
}

func walkValue(path string, size Size, value interface{}, fn WalkFunc) error {
	err := fn(path, size, value)
	if errors.Is(err, SkipStruct) {
		return nil
	}
	if err != nil {
		return err
	}

	switch x := value.(type) {
	case *Struct:
		return walkStruct(path, x, fn)
	case []*Struct:
		elemSize := Size{Type: TypeStruct, Count: 1}
		for i, s := range x {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if err := fn(elemPath, elemSize, s); err != nil {
				if errors.Is(err, SkipStruct) {
					continue
				}
				return err
			}
			if err := walkStruct(elemPath, s, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkStruct(path string, s *Struct, fn WalkFunc) error {
	for i, tag := range s.Def.Tags {
		if err := walkValue(path+"."+tag.Name, tag.Size, s.Values[i], fn); err != nil {
			return err
		}
	}
	return nil
}

// SkeletonFunc is called for each tag of a structure definition. depth is
// zero for the tags of the outermost structure.
type SkeletonFunc func(path string, depth int, tag Tag) error

// WalkSkeleton traverses a structure definition without touching data, the
// way RESTGEN reports a file's layout.
func WalkSkeleton(name string, def *StructDef, fn SkeletonFunc) error {
	if def == nil {
		return nil
	}
	return walkSkeleton(name, 0, def, fn)
}

func walkSkeleton(path string, depth int, def *StructDef, fn SkeletonFunc) error {
	for _, tag := range def.Tags {
		tagPath := path + "." + tag.Name
		err := fn(tagPath, depth, tag)
		if errors.Is(err, SkipStruct) {
			continue
		}
		if err != nil {
			return err
		}
		if tag.Struct != nil {
			if err := walkSkeleton(tagPath, depth+1, tag.Struct, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
