package xrt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robert-malhotra/go-xrt/internal/binary"
	"github.com/robert-malhotra/go-xrt/internal/filter"
	"github.com/robert-malhotra/go-xrt/internal/genx"
	"github.com/robert-malhotra/go-xrt/internal/record"
)

// Header is the metadata written by SAVEGEN at the top of the data file.
type Header struct {
	Version  int    `json:"version" yaml:"version"`
	Creation string `json:"creation" yaml:"creation"`
	Arch     string `json:"arch,omitempty" yaml:"arch,omitempty"`
	OS       string `json:"os,omitempty" yaml:"os,omitempty"`
	Release  string `json:"release,omitempty" yaml:"release,omitempty"`
	Text     string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Catalog is the loaded channel calibration data.
type Catalog struct {
	path        string
	header      Header
	fingerprint uint32
	records     []record.Channel
	names       []string // stored NAME fields, resolved
	nameErrs    []error  // per record, set when NAME does not resolve
}

// Load reads the calibration file at path. Gzip or zlib compressed files
// are accepted.
func Load(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calibration file: %w", err)
	}
	c, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.path = path
	return c, nil
}

// Read loads a catalog from r.
func Read(r io.Reader, opts ...Option) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading calibration data: %w", err)
	}
	return Parse(data, opts...)
}

// Parse loads a catalog from the contents of a calibration file.
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	o := defaultLoadOptions()
	for _, opt := range opts {
		opt(o)
	}
	log := o.logger

	c := &Catalog{fingerprint: binary.Fingerprint(data)}

	if f := filter.Detect(data); f != nil {
		log.Debug().Str("filter", f.Name()).Msg("decompressing calibration data")
	}
	raw, err := filter.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}

	gf, err := genx.Decode(raw)
	if err != nil {
		if errors.Is(err, genx.ErrBadHeader) {
			return nil, fmt.Errorf("%w: %w", ErrNotGenx, err)
		}
		return nil, fmt.Errorf("decoding genx: %w", err)
	}
	c.header = Header{
		Version:  gf.Header.Version,
		Creation: gf.Header.Creation,
		Arch:     gf.Header.Arch,
		OS:       gf.Header.OS,
		Release:  gf.Header.Release,
		Text:     gf.Header.Text,
	}

	v, ok := gf.Variable(o.variable)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoVariable, o.variable)
	}
	recs, err := record.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("decoding channel records: %w", err)
	}
	if len(recs) != NumChannels {
		return nil, fmt.Errorf("%w: %s has %d records, want %d", ErrRecordCount, v.Name, len(recs), NumChannels)
	}
	c.records = recs

	c.names = make([]string, len(recs))
	c.nameErrs = make([]error, len(recs))
	for i := range recs {
		name, err := ResolveFilterName(strings.ReplaceAll(recs[i].Name, "-", "_"))
		if err != nil {
			log.Warn().Int("index", i).Str("stored", recs[i].Name).Err(err).
				Msg("stored channel name cannot be resolved")
			c.nameErrs[i] = fmt.Errorf("%w: record %d: %w", ErrStoredName, i, err)
			continue
		}
		c.names[i] = name
		if name != channelNames[i] {
			log.Warn().Int("index", i).Str("stored", recs[i].Name).Str("expected", channelNames[i]).
				Msg("stored channel name does not match its index")
		}
	}

	log.Debug().
		Str("variable", v.Name).
		Int("records", len(recs)).
		Str("created", c.header.Creation).
		Str("fingerprint", fmt.Sprintf("%08x", c.fingerprint)).
		Msg("loaded channel catalog")
	return c, nil
}

// Open resolves a filter name and returns the matching channel.
func (c *Catalog) Open(name string) (*Channel, error) {
	canonical, err := ResolveFilterName(name)
	if err != nil {
		return nil, err
	}
	i, err := Lookup(canonical)
	if err != nil {
		return nil, err
	}
	return &Channel{cat: c, index: i}, nil
}

// Channel returns the channel at index i.
func (c *Catalog) Channel(i int) (*Channel, error) {
	if i < 0 || i >= len(c.records) {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrUnknownChannel, i, len(c.records))
	}
	return &Channel{cat: c, index: i}, nil
}

// Channels returns every channel in index order.
func (c *Catalog) Channels() []*Channel {
	out := make([]*Channel, len(c.records))
	for i := range out {
		out[i] = &Channel{cat: c, index: i}
	}
	return out
}

// Header returns the file header.
func (c *Catalog) Header() Header {
	return c.header
}

// Fingerprint returns the CRC-32 of the calibration file as read.
func (c *Catalog) Fingerprint() uint32 {
	return c.fingerprint
}

// Path returns the file the catalog was loaded from, or "" if it was read
// from memory.
func (c *Catalog) Path() string {
	return c.path
}
