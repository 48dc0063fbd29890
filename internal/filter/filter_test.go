package filter

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

var payload = []byte{0, 0, 0, 2, 0, 0, 0, 1, 'g', 'e', 'n', 'x'}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zlibBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodePlainPassthrough(t *testing.T) {
	out, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("plain data changed: got %x", out)
	}
	if Detect(payload) != nil {
		t.Error("Detect matched a plain genx header")
	}
}

func TestDecodeWrapped(t *testing.T) {
	tests := []struct {
		name string
		data func(*testing.T) []byte
		want string
	}{
		{"gzip", func(t *testing.T) []byte { return gzipBytes(t, payload) }, "gzip"},
		{"zlib", func(t *testing.T) []byte { return zlibBytes(t, payload) }, "zlib"},
		{"gzip of zlib", func(t *testing.T) []byte { return gzipBytes(t, zlibBytes(t, payload)) }, "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data(t)
			f := Detect(data)
			if f == nil || f.Name() != tt.want {
				t.Fatalf("expected %s filter, got %v", tt.want, f)
			}
			out, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(out, payload) {
				t.Errorf("Decompressed data mismatch:\ngot:  %x\nwant: %x", out, payload)
			}
		})
	}
}

func TestDecodeCorruptGzip(t *testing.T) {
	data := gzipBytes(t, payload)
	data = data[:len(data)/2]
	if _, err := Decode(data); err == nil {
		t.Error("expected error for truncated gzip stream")
	}
}
