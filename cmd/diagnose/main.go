// Diagnostic tool for analyzing genx (IDL SAVEGEN) files
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/robert-malhotra/go-xrt/internal/binary"
	"github.com/robert-malhotra/go-xrt/internal/filter"
	"github.com/robert-malhotra/go-xrt/internal/genx"
)

var errUsage = errors.New("usage: diagnose [--values] [--depth N] [--crc HEX] <file.genx>")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("diagnose", pflag.ContinueOnError)
	var (
		values   = fs.Bool("values", false, "Print scalar values of every element")
		maxDepth = fs.Int("depth", 20, "Maximum structure depth to print")
		crc      = fs.String("crc", "", "Expected CRC-32 of the file, in hex")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errUsage
	}

	filename := fs.Arg(0)
	fmt.Fprintf(w, "=== Analyzing %s ===\n\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	fmt.Fprintf(w, "Size: %d bytes, CRC-32 %08x\n", len(data), binary.Fingerprint(data))
	if *crc != "" {
		want, err := strconv.ParseUint(strings.TrimPrefix(*crc, "0x"), 16, 32)
		if err != nil {
			return fmt.Errorf("bad --crc value %q: %w", *crc, err)
		}
		if !binary.VerifyFingerprint(data, uint32(want)) {
			return fmt.Errorf("CRC-32 mismatch: expected %08x, got %08x", want, binary.Fingerprint(data))
		}
		fmt.Fprintln(w, "CRC-32 matches")
	}
	if f := filter.Detect(data); f != nil {
		fmt.Fprintf(w, "Compression: %s\n", f.Name())
	}
	raw, err := filter.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decompress: %w", err)
	}

	// The header prints even when the body fails to decode.
	h, err := genx.DecodeHeader(raw)
	if err != nil {
		return fmt.Errorf("failed to decode header: %w", err)
	}
	fmt.Fprintf(w, "Version: %d (xdr=%v)\n", h.Version, h.XDR)
	fmt.Fprintf(w, "Created: %s\n", h.Creation)
	if h.Version == 2 {
		fmt.Fprintf(w, "Platform: %s %s, IDL %s\n", h.Arch, h.OS, h.Release)
	}
	fmt.Fprintf(w, "Text: %q\n", h.Text)
	fmt.Fprintln(w)

	f, err := genx.Decode(raw)
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}
	for _, v := range f.Variables {
		fmt.Fprintf(w, "Variable %s: %s (%d elements)\n", v.Name, v.Size, v.Size.Count)
		if v.Struct != nil {
			printSkeleton(w, v, *maxDepth)
		}
		if *values {
			printValues(w, v, *maxDepth)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func printSkeleton(w io.Writer, v genx.Variable, maxDepth int) {
	err := genx.WalkSkeleton(v.Name, v.Struct, func(path string, depth int, tag genx.Tag) error {
		if depth > maxDepth {
			return genx.SkipStruct
		}
		indent := strings.Repeat("  ", depth+1)
		fmt.Fprintf(w, "%s%-14s %s\n", indent, tag.Name, tag.Size)
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "  ERROR walking structure: %v\n", err)
	}
}

func printValues(w io.Writer, v genx.Variable, maxDepth int) {
	err := genx.Walk(v, func(path string, size genx.Size, value interface{}) error {
		if strings.Count(path, ".") > maxDepth {
			return genx.SkipStruct
		}
		switch {
		case size.Type == genx.TypeStruct:
			return nil
		case size.IsScalar():
			fmt.Fprintf(w, "  %s = %v\n", path, value)
		default:
			fmt.Fprintf(w, "  %s = %s\n", path, size)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "  ERROR walking values: %v\n", err)
	}
}
