// Package xrttest builds synthetic XRT channel calibration files for tests.
//
// The layout matches xrt_channels_v0016.genx: one SAVEGEN0 structure array
// of fourteen channels, every wavelength array allocated to a common capacity
// and bounded by its LENGTH field. Values are plausible but not flight data.
package xrttest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robert-malhotra/go-xrt/internal/genx"
)

// StoredNames are the NAME fields in file order, in the dash style the SSW
// file uses.
var StoredNames = [14]string{
	"Al-mesh",
	"Al-poly",
	"C-poly",
	"Ti-poly",
	"Be-thin",
	"Be-med",
	"Al-med",
	"Al-thick",
	"Be-thick",
	"Al-poly/Al-mesh",
	"Al-poly/Ti-poly",
	"Al-poly/Al-thick",
	"Al-poly/Be-thick",
	"C-poly/Ti-poly",
}

// Sub-record lengths. Every one is at most DefaultCapacity.
const (
	DefaultCapacity = 8
	EntranceLength  = 6
	MirrorLength    = 7
	FilterLength    = 5
	CCDLength       = 8
	GainRight       = 57.0
)

// ChannelLength returns the top-level LENGTH of channel i.
func ChannelLength(i int) int {
	return 5 + i%4
}

// CCDName returns the CCD LONG_NAME of channel i.
func CCDName(i int) string {
	return fmt.Sprintf("XRT flight model CCD (record %d)", i)
}

// MeshTrans is the scalar MESH_TRANS of every filter.
const MeshTrans = 0.82

// Mesh returns the k-th per-wavelength MESH_TRANS value written by
// WithMeshPerWavelength.
func Mesh(k int) float64 {
	return MeshTrans - 0.01*float64(k)
}

// Wave returns the k-th wavelength of channel i's grid in Angstrom.
func Wave(i, k int) float64 {
	return 1.0 + float64(k) + 0.1*float64(i)
}

type options struct {
	capacity  int
	channels  int
	gainRight bool
	lengths   map[int]int
	names     map[int]string
	gzip      bool
	text      string
	meshArray bool
}

// Option customises the generated file.
type Option func(*options)

// WithChannels sets how many channel records are written.
func WithChannels(n int) Option {
	return func(o *options) { o.channels = n }
}

// WithoutGainRight omits the CCD GAIN_R field.
func WithoutGainRight() Option {
	return func(o *options) { o.gainRight = false }
}

// WithLength overrides the top-level LENGTH of channel i.
func WithLength(i, n int) Option {
	return func(o *options) { o.lengths[i] = n }
}

// WithStoredName overrides the NAME of channel i.
func WithStoredName(i int, name string) Option {
	return func(o *options) { o.names[i] = name }
}

// WithMeshPerWavelength stores every MESH_TRANS as an array over the
// wavelength grid instead of a scalar.
func WithMeshPerWavelength() Option {
	return func(o *options) { o.meshArray = true }
}

// Gzipped wraps the file in gzip.
func Gzipped() Option {
	return func(o *options) { o.gzip = true }
}

// WithText sets the header text.
func WithText(text string) Option {
	return func(o *options) { o.text = text }
}

func newOptions(opts []Option) *options {
	o := &options{
		capacity:  DefaultCapacity,
		channels:  len(StoredNames),
		gainRight: true,
		lengths:   map[int]int{},
		names:     map[int]string{},
		text:      "XRT channel calibration (synthetic)",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// File builds the genx file structure.
func File(opts ...Option) (*genx.File, error) {
	o := newOptions(opts)

	elems := make([]*genx.Struct, o.channels)
	for i := range elems {
		s, err := channel(i, o)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", i, err)
		}
		elems[i] = s
	}
	v, err := genx.NewVariable("SAVEGEN0", elems)
	if err != nil {
		return nil, err
	}
	return &genx.File{
		Header: genx.Header{
			Version:  2,
			XDR:      true,
			Creation: "Tue Feb 14 10:00:00 2017",
			Arch:     "x86_64",
			OS:       "linux",
			Release:  "8.5.1",
			Text:     o.text,
		},
		Variables: []genx.Variable{v},
	}, nil
}

// Bytes encodes the file.
func Bytes(opts ...Option) ([]byte, error) {
	f, err := File(opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := genx.Encode(&buf, f); err != nil {
		return nil, err
	}
	if newOptions(opts).gzip {
		return gzipBytes(buf.Bytes())
	}
	return buf.Bytes(), nil
}

// MustBytes is Bytes that panics on error.
func MustBytes(opts ...Option) []byte {
	b, err := Bytes(opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// WriteFile writes the encoded file into dir and returns its path.
func WriteFile(dir string, opts ...Option) (string, error) {
	b, err := Bytes(opts...)
	if err != nil {
		return "", err
	}
	name := "xrt_channels_test.genx"
	if newOptions(opts).gzip {
		name += ".gz"
	}
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, b, 0o644)
}

func grid(capacity, length int, f func(k int) float64) []float32 {
	out := make([]float32, capacity)
	for k := 0; k < length && k < capacity; k++ {
		out[k] = float32(f(k))
	}
	return out
}

func channel(i int, o *options) (*genx.Struct, error) {
	name := StoredNames[i%len(StoredNames)]
	if n, ok := o.names[i]; ok {
		name = n
	}
	length := ChannelLength(i)
	if n, ok := o.lengths[i]; ok {
		length = n
	}
	wave := func(k int) float64 { return Wave(i, k) }

	geom, err := genx.NewStruct("",
		genx.Field{Name: "LONG_NAME", Value: "XRT flight model geometry"},
		genx.Field{Name: "FOC_LEN", Value: float32(270.753)},
		genx.Field{Name: "APERTURE_AREA", Value: float32(2.28)},
	)
	if err != nil {
		return nil, err
	}
	enFilter, err := filterStruct("Entrance filter", "Al", "Polyimide", 2.699, 1492, EntranceLength, o, wave)
	if err != nil {
		return nil, err
	}
	fp1, err := filterStruct(fmt.Sprintf("Filter wheel 1 (record %d)", i), "Al", "Polyimide", 2.699, 1250, FilterLength, o, wave)
	if err != nil {
		return nil, err
	}
	fp2, err := filterStruct(fmt.Sprintf("Filter wheel 2 (record %d)", i), "Ti", "Polyimide", 4.54, 2523, FilterLength, o, wave)
	if err != nil {
		return nil, err
	}
	m1, err := mirrorStruct("Mirror 1", o.capacity, wave)
	if err != nil {
		return nil, err
	}
	m2, err := mirrorStruct("Mirror 2", o.capacity, wave)
	if err != nil {
		return nil, err
	}

	ccdFields := []genx.Field{
		{Name: "LONG_NAME", Value: CCDName(i)},
		{Name: "EV_PER_EL", Value: float32(3.65)},
		{Name: "FULL_WELL", Value: int32(222000)},
		{Name: "GAIN_L", Value: float32(58.79)},
	}
	if o.gainRight {
		ccdFields = append(ccdFields, genx.Field{Name: "GAIN_R", Value: float32(GainRight)})
	}
	ccdFields = append(ccdFields,
		genx.Field{Name: "PIXEL_SIZE", Value: float32(13.5)},
		genx.Field{Name: "WAVE", Value: grid(o.capacity, CCDLength, wave)},
		genx.Field{Name: "QE", Value: grid(o.capacity, CCDLength, func(k int) float64 { return 0.9 - 0.05*float64(k) })},
		genx.Field{Name: "LENGTH", Value: int16(CCDLength)},
	)
	ccd, err := genx.NewStruct("", ccdFields...)
	if err != nil {
		return nil, err
	}

	return genx.NewStruct("",
		genx.Field{Name: "NAME", Value: name},
		genx.Field{Name: "WAVE", Value: grid(o.capacity, length, wave)},
		genx.Field{Name: "TRANS", Value: grid(o.capacity, length, func(k int) float64 { return 0.01 * float64(k+1) })},
		genx.Field{Name: "LENGTH", Value: int16(length)},
		genx.Field{Name: "OBSERVATORY", Value: "Hinode"},
		genx.Field{Name: "INSTRUMENT", Value: "XRT"},
		genx.Field{Name: "GEOM", Value: geom},
		genx.Field{Name: "EN_FILTER", Value: enFilter},
		genx.Field{Name: "MIRROR1", Value: m1},
		genx.Field{Name: "MIRROR2", Value: m2},
		genx.Field{Name: "FP_FILTER1", Value: fp1},
		genx.Field{Name: "FP_FILTER2", Value: fp2},
		genx.Field{Name: "CCD", Value: ccd},
	)
}

func filterStruct(long, material, substrate string, dens, thick float64, length int, o *options, wave func(int) float64) (*genx.Struct, error) {
	capacity := o.capacity
	var mesh interface{} = float32(MeshTrans)
	if o.meshArray {
		mesh = grid(capacity, length, Mesh)
	}
	return genx.NewStruct("",
		genx.Field{Name: "LONG_NAME", Value: long},
		genx.Field{Name: "MATERIAL", Value: material},
		genx.Field{Name: "SUBSTRATE", Value: substrate},
		genx.Field{Name: "DENS", Value: float32(dens)},
		genx.Field{Name: "THICK", Value: float32(thick)},
		genx.Field{Name: "MESH_TRANS", Value: mesh},
		genx.Field{Name: "WAVE", Value: grid(capacity, length, wave)},
		genx.Field{Name: "TRANS", Value: grid(capacity, length, func(k int) float64 { return 0.5 + 0.01*float64(k) })},
		genx.Field{Name: "LENGTH", Value: int16(length)},
	)
}

func mirrorStruct(long string, capacity int, wave func(int) float64) (*genx.Struct, error) {
	return genx.NewStruct("",
		genx.Field{Name: "LONG_NAME", Value: long},
		genx.Field{Name: "MATERIAL", Value: "Zerodur"},
		genx.Field{Name: "DENS", Value: float32(2.53)},
		genx.Field{Name: "GRAZE_ANGLE", Value: float32(0.91)},
		genx.Field{Name: "WAVE", Value: grid(capacity, MirrorLength, wave)},
		genx.Field{Name: "REFL", Value: grid(capacity, MirrorLength, func(k int) float64 { return 0.8 - 0.02*float64(k) })},
		genx.Field{Name: "LENGTH", Value: int16(MirrorLength)},
	)
}
