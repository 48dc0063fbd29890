package xrt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-xrt/internal/xrttest"
)

func loadFixture(t *testing.T, opts ...xrttest.Option) *Catalog {
	t.Helper()
	data, err := xrttest.Bytes(opts...)
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	cat, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return cat
}

func TestLoad(t *testing.T) {
	path, err := xrttest.WriteFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cat.Path() != path {
		t.Errorf("expected path %q, got %q", path, cat.Path())
	}
	if n := len(cat.Channels()); n != NumChannels {
		t.Errorf("expected %d channels, got %d", NumChannels, n)
	}

	hdr := cat.Header()
	if hdr.Version != 2 {
		t.Errorf("expected version 2, got %d", hdr.Version)
	}
	if hdr.Text != "XRT channel calibration (synthetic)" {
		t.Errorf("unexpected header text %q", hdr.Text)
	}
	if hdr.OS != "linux" {
		t.Errorf("expected os linux, got %q", hdr.OS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.genx"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadGzipped(t *testing.T) {
	plain := xrttest.MustBytes()
	packed := xrttest.MustBytes(xrttest.Gzipped())

	a, err := Read(bytes.NewReader(plain))
	if err != nil {
		t.Fatalf("Read plain failed: %v", err)
	}
	b, err := Read(bytes.NewReader(packed))
	if err != nil {
		t.Fatalf("Read gzipped failed: %v", err)
	}
	if a.Path() != "" {
		t.Errorf("expected empty path, got %q", a.Path())
	}

	for i := range NumChannels {
		ca, _ := a.Channel(i)
		cb, _ := b.Channel(i)
		if nameOf(t, ca) != nameOf(t, cb) {
			t.Errorf("channel %d: %q != %q", i, nameOf(t, ca), nameOf(t, cb))
		}
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("expected fingerprint of the file as stored to differ")
	}
}

func TestFingerprint(t *testing.T) {
	a := loadFixture(t)
	b := loadFixture(t)
	c := loadFixture(t, xrttest.WithText("another revision"))

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("expected equal fingerprints, got %08x and %08x", a.Fingerprint(), b.Fingerprint())
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("expected fingerprints of different files to differ")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data func() []byte
		opts []Option
		want error
	}{
		{
			name: "not genx",
			data: func() []byte { return []byte("SIMPLE  =                    T") },
			want: ErrNotGenx,
		},
		{
			name: "empty",
			data: func() []byte { return nil },
			want: ErrNotGenx,
		},
		{
			name: "too few records",
			data: func() []byte { return xrttest.MustBytes(xrttest.WithChannels(13)) },
			want: ErrRecordCount,
		},
		{
			name: "too many records",
			data: func() []byte { return xrttest.MustBytes(xrttest.WithChannels(15)) },
			want: ErrRecordCount,
		},
		{
			name: "missing variable",
			data: func() []byte { return xrttest.MustBytes() },
			opts: []Option{WithVariable("SAVEGEN1")},
			want: ErrNoVariable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data(), tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseLogsMismatchedName(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	data := xrttest.MustBytes(xrttest.WithStoredName(0, "Ti-poly"))
	cat, err := Parse(data, WithLogger(logger))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ch, err := cat.Channel(0)
	if err != nil {
		t.Fatal(err)
	}
	if nameOf(t, ch) != "Open/Ti_poly" {
		t.Errorf("expected name from record, got %q", nameOf(t, ch))
	}

	out := buf.String()
	if !strings.Contains(out, "does not match its index") {
		t.Errorf("expected mismatch warning, got %q", out)
	}
	if !strings.Contains(out, "loaded channel catalog") {
		t.Errorf("expected load message, got %q", out)
	}
}

func TestUnresolvableStoredName(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.WarnLevel)

	cat, err := Parse(xrttest.MustBytes(xrttest.WithStoredName(2, "Foo")), WithLogger(logger))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ch, err := cat.Open("C_poly")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_, err = ch.Name()
	if !errors.Is(err, ErrStoredName) || !errors.Is(err, ErrInvalidFilterName) {
		t.Errorf("expected ErrStoredName wrapping ErrInvalidFilterName, got %v", err)
	}
	if got := ch.String(); got != "XRT Channel for C_poly/Open" {
		t.Errorf("expected index name in String, got %q", got)
	}
	if ch.Wavelength().Len() != ch.NumberOfWavelengths() {
		t.Error("data of the channel must stay readable")
	}

	for i, c := range cat.Channels() {
		if i == 2 {
			continue
		}
		if _, err := c.Name(); err != nil {
			t.Errorf("channel %d: unexpected error %v", i, err)
		}
	}
	if !strings.Contains(buf.String(), "cannot be resolved") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestCatalogChannel(t *testing.T) {
	cat := loadFixture(t)

	for _, i := range []int{-1, NumChannels, 100} {
		if _, err := cat.Channel(i); !errors.Is(err, ErrUnknownChannel) {
			t.Errorf("Channel(%d): expected ErrUnknownChannel, got %v", i, err)
		}
	}

	for i, ch := range cat.Channels() {
		if ch.Index() != i {
			t.Errorf("expected index %d, got %d", i, ch.Index())
		}
	}
}
