package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robert-malhotra/go-xrt/xrt"
)

// Formats accepted by WriteFiles.
const (
	FormatFITS = "fits"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FileName returns the export file name of a canonical channel name:
// "Al_poly/Ti_poly" becomes "xrt_Al_poly_Ti_poly.fits".
func FileName(channel, format string) string {
	return "xrt_" + strings.ReplaceAll(channel, "/", "_") + "." + format
}

// WriteFiles exports the named channels of cat into dir. Names may take any
// form ResolveFilterName accepts. FITS output is one file per channel; YAML
// and JSON output is a single summary file. It returns the paths written.
func WriteFiles(cat *xrt.Catalog, names []string, dir, format string) ([]string, error) {
	chans := make([]*xrt.Channel, len(names))
	canonical := make([]string, len(names))
	for i, name := range names {
		c, err := xrt.ResolveFilterName(name)
		if err != nil {
			return nil, err
		}
		ch, err := cat.Open(c)
		if err != nil {
			return nil, err
		}
		chans[i], canonical[i] = ch, c
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	switch format {
	case FormatFITS:
		var paths []string
		for i, ch := range chans {
			var buf bytes.Buffer
			if err := WriteFITS(&buf, ch, cat.Header(), cat.Fingerprint()); err != nil {
				return paths, fmt.Errorf("%s: %w", canonical[i], err)
			}
			path := filepath.Join(dir, FileName(canonical[i], format))
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil

	case FormatYAML, FormatJSON:
		summaries := make([]ChannelSummary, len(chans))
		for i, ch := range chans {
			s, err := Summarize(ch)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", canonical[i], err)
			}
			summaries[i] = s
		}
		var buf bytes.Buffer
		var err error
		if format == FormatYAML {
			err = WriteYAML(&buf, summaries)
		} else {
			err = WriteJSON(&buf, summaries)
		}
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, "xrt_channels."+format)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}
