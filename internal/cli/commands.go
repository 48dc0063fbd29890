package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/robert-malhotra/go-xrt/internal/config"
	"github.com/robert-malhotra/go-xrt/internal/export"
	"github.com/robert-malhotra/go-xrt/internal/server"
	"github.com/robert-malhotra/go-xrt/xrt"
)

// Channels lists every channel of the catalog.
func Channels(w io.Writer, cat *xrt.Catalog, jsonOutput bool) error {
	refs, err := export.List(cat)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(w, refs)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, header(w, "  XRT CHANNELS"))
	t := newTable(w, "  ", "Index", "Name", "Wavelengths", "Range")
	for i, ch := range cat.Channels() {
		wave := ch.Wavelength()
		span := "-"
		if n := wave.Len(); n > 0 {
			span = fmt.Sprintf("%g - %g %s", wave.Values[0], wave.Values[n-1], wave.Unit)
		}
		t.row(fmt.Sprint(ch.Index()), refs[i].Name, fmt.Sprint(wave.Len()), span)
	}
	if err := t.flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

// Resolve prints the canonical form and index of each name. It needs no
// catalog. The first failure is returned after every name is printed.
func Resolve(w io.Writer, names []string, jsonOutput bool) error {
	type result struct {
		Input string `json:"input"`
		Name  string `json:"name,omitempty"`
		Index *int   `json:"index,omitempty"`
		Error string `json:"error,omitempty"`
	}

	var first error
	results := make([]result, len(names))
	for i, in := range names {
		results[i].Input = in
		name, err := xrt.ResolveFilterName(in)
		if err == nil {
			var idx int
			if idx, err = xrt.Lookup(name); err == nil {
				results[i].Index = &idx
			}
			results[i].Name = name
		}
		if err != nil {
			results[i].Error = err.Error()
			if first == nil {
				first = err
			}
		}
	}

	if jsonOutput {
		if err := printJSON(w, results); err != nil {
			return err
		}
		return first
	}
	for _, r := range results {
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "  %-20s %s  %s\n", r.Input, colorize(w, red, "ERROR"), r.Error)
		default:
			fmt.Fprintf(w, "  %-20s %s  %s (index %d)\n", r.Input, colorize(w, green, "->"), r.Name, *r.Index)
		}
	}
	return first
}

// Show prints the properties of one channel.
func Show(w io.Writer, cat *xrt.Catalog, name string, jsonOutput bool) error {
	ch, err := cat.Open(name)
	if err != nil {
		return err
	}
	s, err := export.Summarize(ch)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(w, s)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, header(w, "  "+ch.String()))
	field(w, "Index", s.Index)
	field(w, "Observatory", s.Observatory)
	field(w, "Instrument", s.Instrument)
	field(w, "Wavelengths", s.NumberOfWavelengths)

	section := func(title string) {
		fmt.Fprintf(w, "\n  %s\n", header(w, "["+title+"]"))
	}
	section("geometry")
	field(w, "Name", s.Geometry.Name)
	field(w, "Focal length", s.Geometry.FocalLength)
	field(w, "Aperture area", s.Geometry.ApertureArea)

	for _, f := range []struct {
		title string
		s     export.FilterSummary
	}{
		{"entrance filter", s.EntranceFilter},
		{"filter 1", s.Filter1},
		{"filter 2", s.Filter2},
	} {
		section(f.title)
		field(w, "Name", f.s.Name)
		field(w, "Material", f.s.Material)
		field(w, "Substrate", f.s.Substrate)
		field(w, "Density", f.s.Density)
		field(w, "Thickness", f.s.Thickness)
		if f.s.MeshPerWavelength {
			field(w, "Mesh transmission", "per wavelength")
		} else {
			field(w, "Mesh transmission", f.s.MeshTransmission)
		}
		field(w, "Wavelengths", f.s.NumberOfWavelengths)
	}
	for i, m := range []export.MirrorSummary{s.Mirror1, s.Mirror2} {
		section(fmt.Sprintf("mirror %d", i+1))
		field(w, "Name", m.Name)
		field(w, "Material", m.Material)
		field(w, "Density", m.Density)
		field(w, "Graze angle", m.GrazeAngle)
		field(w, "Wavelengths", m.NumberOfWavelengths)
	}
	section("ccd")
	field(w, "Name", s.CCD.Name)
	field(w, "Energy per electron", s.CCD.EnergyPerElectron)
	field(w, "Full well", s.CCD.FullWell)
	field(w, "Gain left", s.CCD.GainLeft)
	field(w, "Gain right", s.CCD.GainRight)
	field(w, "Pixel size", s.CCD.PixelSize)
	field(w, "Wavelengths", s.CCD.NumberOfWavelengths)
	fmt.Fprintln(w)
	return nil
}

// Info prints the calibration file header.
func Info(w io.Writer, cat *xrt.Catalog, jsonOutput bool) error {
	hdr := cat.Header()
	if jsonOutput {
		return printJSON(w, struct {
			Path        string     `json:"path,omitempty"`
			Fingerprint string     `json:"fingerprint"`
			Header      xrt.Header `json:"header"`
		}{cat.Path(), fmt.Sprintf("%08x", cat.Fingerprint()), hdr})
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, header(w, "  CALIBRATION FILE"))
	if cat.Path() != "" {
		field(w, "Path", cat.Path())
	}
	field(w, "Fingerprint", fmt.Sprintf("%08x", cat.Fingerprint()))
	field(w, "Version", hdr.Version)
	field(w, "Created", hdr.Creation)
	if hdr.Release != "" {
		field(w, "IDL", fmt.Sprintf("%s (%s/%s)", hdr.Release, hdr.OS, hdr.Arch))
	}
	field(w, "Text", hdr.Text)
	fmt.Fprintln(w)
	return nil
}

// ExportOptions controls Export. Empty fields fall back to the export
// section of the configuration.
type ExportOptions struct {
	Dir      string
	Format   string
	Channels []string
}

// Export writes channel files and prints their paths.
func Export(w io.Writer, cat *xrt.Catalog, cfg config.Config, opts ExportOptions) error {
	if opts.Dir == "" {
		opts.Dir = cfg.Export.Dir
	}
	if opts.Format == "" {
		opts.Format = cfg.Export.Format
	}
	names := opts.Channels
	if len(names) == 0 {
		var err error
		if names, err = cfg.ExportChannels(); err != nil {
			return err
		}
	}

	paths, err := export.WriteFiles(cat, names, opts.Dir, opts.Format)
	for _, p := range paths {
		fmt.Fprintf(w, "  %s  %s\n", colorize(w, green, "WROTE"), p)
	}
	return err
}

// Serve runs the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, cat *xrt.Catalog, bind string, log zerolog.Logger) error {
	srv := server.New(cat, log)
	return server.ListenAndServe(ctx, bind, srv, log)
}

// MkConf writes cfg as YAML.
func MkConf(w io.Writer, cfg config.Config) error {
	return config.Write(w, cfg)
}
