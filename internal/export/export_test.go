package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/astrogo/fitsio"
	"github.com/google/go-cmp/cmp"
	yml "gopkg.in/yaml.v2"

	"github.com/robert-malhotra/go-xrt/internal/xrttest"
	"github.com/robert-malhotra/go-xrt/units"
	"github.com/robert-malhotra/go-xrt/xrt"
)

func loadCatalog(t *testing.T, opts ...xrttest.Option) *xrt.Catalog {
	t.Helper()
	data, err := xrttest.Bytes(opts...)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := xrt.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return cat
}

func openChannel(t *testing.T, cat *xrt.Catalog, name string) *xrt.Channel {
	t.Helper()
	ch, err := cat.Open(name)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", name, err)
	}
	return ch
}

func summarize(t *testing.T, ch *xrt.Channel) ChannelSummary {
	t.Helper()
	s, err := Summarize(ch)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	return s
}

func TestWriteFITS(t *testing.T) {
	cat := loadCatalog(t)
	ch := openChannel(t, cat, "Be-thin")

	var buf bytes.Buffer
	if err := WriteFITS(&buf, ch, cat.Header(), cat.Fingerprint()); err != nil {
		t.Fatalf("WriteFITS failed: %v", err)
	}

	f, err := fitsio.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("fitsio.Open failed: %v", err)
	}
	defer f.Close()

	hdus := f.HDUs()
	if len(hdus) != 8 {
		t.Fatalf("expected 8 HDUs, got %d", len(hdus))
	}

	hdr := hdus[0].Header()
	if card := hdr.Get("CHANNEL"); card == nil || strings.TrimSpace(fmt.Sprint(card.Value)) != "Be_thin/Open" {
		t.Errorf("unexpected CHANNEL card %+v", card)
	}
	if card := hdr.Get("CHANIDX"); card == nil || fmt.Sprint(card.Value) != "4" {
		t.Errorf("unexpected CHANIDX card %+v", card)
	}

	want := map[string]struct {
		column string
		rows   int
	}{
		ExtChannel:  {"TRANS", ch.NumberOfWavelengths()},
		ExtEntrance: {"TRANS", xrttest.EntranceLength},
		ExtMirror1:  {"REFL", xrttest.MirrorLength},
		ExtMirror2:  {"REFL", xrttest.MirrorLength},
		ExtFilter1:  {"TRANS", xrttest.FilterLength},
		ExtFilter2:  {"TRANS", xrttest.FilterLength},
		ExtCCD:      {"QE", xrttest.CCDLength},
	}
	for name, w := range want {
		tbl, ok := f.Get(name).(*fitsio.Table)
		if !ok {
			t.Errorf("%s: expected a table HDU", name)
			continue
		}
		if n := tbl.NumRows(); n != int64(w.rows) {
			t.Errorf("%s: expected %d rows, got %d", name, w.rows, n)
		}
		if tbl.Index(w.column) < 0 {
			t.Errorf("%s: missing column %s", name, w.column)
		}
	}

	ccd := f.Get(ExtCCD).(*fitsio.Table)
	if card := ccd.Header().Get("GAIN_R"); card == nil {
		t.Error("CCD table has no GAIN_R card")
	} else if v, err := strconv.ParseFloat(fmt.Sprint(card.Value), 64); err != nil || v != xrttest.GainRight {
		t.Errorf("expected GAIN_R %v, got %#v", xrttest.GainRight, card.Value)
	}
}

func TestWriteFITSRows(t *testing.T) {
	cat := loadCatalog(t)
	ch := openChannel(t, cat, "Al_poly/Ti_poly")

	var buf bytes.Buffer
	if err := WriteFITS(&buf, ch, cat.Header(), cat.Fingerprint()); err != nil {
		t.Fatalf("WriteFITS failed: %v", err)
	}
	f, err := fitsio.Open(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tbl := f.Get(ExtChannel).(*fitsio.Table)
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	defer rows.Close()

	var waves, trans []float64
	for rows.Next() {
		var w, v float64
		if err := rows.Scan(&w, &v); err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		waves = append(waves, w)
		trans = append(trans, v)
	}
	if diff := cmp.Diff(ch.Wavelength().Values, waves); diff != "" {
		t.Errorf("wavelength mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ch.Transmission().Values, trans); diff != "" {
		t.Errorf("transmission mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFITSMesh(t *testing.T) {
	tests := []struct {
		name    string
		opts    []xrttest.Option
		perWave bool
	}{
		{"scalar", nil, false},
		{"per wavelength", []xrttest.Option{xrttest.WithMeshPerWavelength()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := loadCatalog(t, tt.opts...)
			ch := openChannel(t, cat, "Al_poly/Ti_poly")

			var buf bytes.Buffer
			if err := WriteFITS(&buf, ch, cat.Header(), cat.Fingerprint()); err != nil {
				t.Fatalf("WriteFITS failed: %v", err)
			}
			f, err := fitsio.Open(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			tbl := f.Get(ExtFilter1).(*fitsio.Table)
			hasColumn := tbl.Index("MESH") >= 0
			hasCard := tbl.Header().Get("MESHTRAN") != nil
			if hasColumn != tt.perWave || hasCard == tt.perWave {
				t.Fatalf("expected MESH column %v and MESHTRAN card %v, got %v and %v", tt.perWave, !tt.perWave, hasColumn, hasCard)
			}
			if !tt.perWave {
				return
			}

			rows, err := tbl.Read(0, tbl.NumRows())
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			defer rows.Close()
			var mesh []float64
			for rows.Next() {
				var w, tr, m float64
				if err := rows.Scan(&w, &tr, &m); err != nil {
					t.Fatalf("Scan failed: %v", err)
				}
				mesh = append(mesh, m)
			}
			if diff := cmp.Diff(ch.Filter1().MeshTransmissionArray().Values, mesh); diff != "" {
				t.Errorf("mesh mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	cat := loadCatalog(t)
	ch := openChannel(t, cat, "Be-thin")

	s := summarize(t, ch)
	if s.Name != "Be_thin/Open" || s.Index != 4 {
		t.Errorf("unexpected channel %s/%d", s.Name, s.Index)
	}
	if s.CCD.Name != xrttest.CCDName(4) {
		t.Errorf("expected CCD name %q, got %q", xrttest.CCDName(4), s.CCD.Name)
	}
	if s.Mirror1.GrazeAngle.Unit != units.Degree {
		t.Errorf("expected degrees, got %v", s.Mirror1.GrazeAngle.Unit)
	}
	if s.Wavelength == nil || s.Wavelength.Min != ch.Wavelength().At(0) {
		t.Errorf("unexpected wavelength range %+v", s.Wavelength)
	}
	if s.CCD.NumberOfWavelengths != xrttest.CCDLength {
		t.Errorf("expected %d CCD wavelengths, got %d", xrttest.CCDLength, s.CCD.NumberOfWavelengths)
	}
}

func TestList(t *testing.T) {
	refs, err := List(loadCatalog(t))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(refs) != xrt.NumChannels {
		t.Fatalf("expected %d channels, got %d", xrt.NumChannels, len(refs))
	}
	for i, name := range xrt.ChannelNames() {
		if want := (ChannelRef{Name: name, Index: i}); refs[i] != want {
			t.Errorf("expected %+v, got %+v", want, refs[i])
		}
	}
}

func TestUnresolvableStoredName(t *testing.T) {
	cat := loadCatalog(t, xrttest.WithStoredName(3, "Foo-bar"))
	ch := openChannel(t, cat, "Ti_poly")

	if _, err := Summarize(ch); !errors.Is(err, xrt.ErrStoredName) {
		t.Errorf("Summarize: expected ErrStoredName, got %v", err)
	}
	if err := WriteFITS(io.Discard, ch, cat.Header(), cat.Fingerprint()); !errors.Is(err, xrt.ErrStoredName) {
		t.Errorf("WriteFITS: expected ErrStoredName, got %v", err)
	}
	if _, err := List(cat); !errors.Is(err, xrt.ErrStoredName) {
		t.Errorf("List: expected ErrStoredName, got %v", err)
	}
	if _, err := Summarize(openChannel(t, cat, "Al_mesh")); err != nil {
		t.Errorf("other channels must still work: %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	cat := loadCatalog(t)
	want := []ChannelSummary{
		summarize(t, openChannel(t, cat, "Al_mesh")),
		summarize(t, openChannel(t, cat, "C_poly/Ti_poly")),
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, want); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var got []ChannelSummary
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), `"unit": "deg"`) {
		t.Error("expected unit symbols in JSON output")
	}
}

func TestWriteYAML(t *testing.T) {
	cat := loadCatalog(t)
	var buf bytes.Buffer
	if err := WriteYAML(&buf, []ChannelSummary{summarize(t, openChannel(t, cat, "Ti_poly"))}); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	var out []map[string]interface{}
	if err := yml.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(out) != 1 || out[0]["name"] != "Open/Ti_poly" {
		t.Errorf("unexpected YAML %s", buf.String())
	}
	if !strings.Contains(buf.String(), "unit: electron / DN") {
		t.Errorf("expected gain unit symbol in %s", buf.String())
	}
}

func TestWriteFiles(t *testing.T) {
	cat := loadCatalog(t)
	dir := t.TempDir()
	names := []string{"Al_mesh", "Al_poly/Ti_poly"}

	paths, err := WriteFiles(cat, names, dir, FormatFITS)
	if err != nil {
		t.Fatalf("WriteFiles failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "xrt_Open_Al_mesh.fits"),
		filepath.Join(dir, "xrt_Al_poly_Ti_poly.fits"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Error(err)
		}
	}

	paths, err = WriteFiles(cat, names, dir, FormatJSON)
	if err != nil {
		t.Fatalf("WriteFiles json failed: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "xrt_channels.json" {
		t.Errorf("unexpected paths %v", paths)
	}

	if _, err := WriteFiles(cat, names, dir, "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := WriteFiles(cat, []string{"Foo"}, dir, FormatFITS); err == nil {
		t.Error("expected error for unknown channel")
	}
}
