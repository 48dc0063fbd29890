package record

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-xrt/internal/genx"
)

// Errors returned by Decode.
var (
	ErrMissingField = errors.New("missing field")
	ErrBadLength    = errors.New("LENGTH exceeds array size")
	ErrNotChannels  = errors.New("variable is not a channel structure array")
)

// Field names of the channel structure.
const (
	FieldName           = "NAME"
	FieldWave           = "WAVE"
	FieldTrans          = "TRANS"
	FieldLength         = "LENGTH"
	FieldObservatory    = "OBSERVATORY"
	FieldInstrument     = "INSTRUMENT"
	FieldGeometry       = "GEOM"
	FieldEntranceFilter = "EN_FILTER"
	FieldMirror1        = "MIRROR1"
	FieldMirror2        = "MIRROR2"
	FieldFilter1        = "FP_FILTER1"
	FieldFilter2        = "FP_FILTER2"
	FieldCCD            = "CCD"

	FieldLongName     = "LONG_NAME"
	FieldFocalLength  = "FOC_LEN"
	FieldApertureArea = "APERTURE_AREA"
	FieldMaterial     = "MATERIAL"
	FieldSubstrate    = "SUBSTRATE"
	FieldDensity      = "DENS"
	FieldThickness    = "THICK"
	FieldMeshTrans    = "MESH_TRANS"
	FieldGrazeAngle   = "GRAZE_ANGLE"
	FieldRefl         = "REFL"
	FieldEVPerEl      = "EV_PER_EL"
	FieldFullWell     = "FULL_WELL"
	FieldGainLeft     = "GAIN_L"
	FieldGainRight    = "GAIN_R"
	FieldPixelSize    = "PIXEL_SIZE"
	FieldQE           = "QE"
)

// DefaultGainRight is the right-port CCD gain in electron/DN used when a
// CCD record has no GAIN_R field.
const DefaultGainRight = 57.5

// Geometry is the GEOM sub-record.
type Geometry struct {
	LongName     string
	FocalLength  float64
	ApertureArea float64
}

// Filter is an EN_FILTER or FP_FILTERn sub-record.
type Filter struct {
	LongName  string
	Material  string
	Substrate string
	Density   float64
	Thickness float64
	// MeshTrans holds MESH_TRANS as stored. A scalar field gives one
	// value and MeshPerWave false.
	MeshTrans   []float64
	MeshPerWave bool
	Wave      []float64
	Trans     []float64
	Length    int
}

// Mirror is a MIRRORn sub-record.
type Mirror struct {
	LongName   string
	Material   string
	Density    float64
	GrazeAngle float64
	Wave       []float64
	Refl       []float64
	Length     int
}

// CCD is the CCD sub-record.
type CCD struct {
	LongName  string
	EVPerEl   float64
	FullWell  float64
	GainLeft  float64
	GainRight float64
	PixelSize float64
	Wave      []float64
	QE        []float64
	Length    int
}

// Channel is one decoded channel structure.
type Channel struct {
	Name           string
	Wave           []float64
	Trans          []float64
	Length         int
	Observatory    string
	Instrument     string
	Geometry       Geometry
	EntranceFilter Filter
	Mirror1        Mirror
	Mirror2        Mirror
	Filter1        Filter
	Filter2        Filter
	CCD            CCD
}

// Decode converts a SAVEGEN channel variable into typed records, in file
// order.
func Decode(v *genx.Variable) ([]Channel, error) {
	var elems []*genx.Struct
	switch x := v.Value.(type) {
	case []*genx.Struct:
		elems = x
	case *genx.Struct:
		elems = []*genx.Struct{x}
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrNotChannels, v.Name, v.Size)
	}

	out := make([]Channel, len(elems))
	for i, s := range elems {
		if err := decodeChannel(&out[i], s); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", v.Name, i, err)
		}
	}
	return out, nil
}

func decodeChannel(c *Channel, s *genx.Struct) error {
	d := decoder{s: s}
	c.Name = d.str(FieldName)
	c.Observatory = d.str(FieldObservatory)
	c.Instrument = d.str(FieldInstrument)
	c.Length = d.length(FieldLength, FieldWave, FieldTrans)
	c.Wave = d.floats(FieldWave)
	c.Trans = d.floats(FieldTrans)
	if d.err != nil {
		return d.err
	}

	if err := decodeSub(s, FieldGeometry, func(d *decoder) {
		c.Geometry = Geometry{
			LongName:     d.str(FieldLongName),
			FocalLength:  d.float(FieldFocalLength),
			ApertureArea: d.float(FieldApertureArea),
		}
	}); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		dst  *Filter
	}{
		{FieldEntranceFilter, &c.EntranceFilter},
		{FieldFilter1, &c.Filter1},
		{FieldFilter2, &c.Filter2},
	} {
		dst := f.dst
		if err := decodeSub(s, f.name, func(d *decoder) { *dst = decodeFilter(d) }); err != nil {
			return err
		}
	}
	for _, m := range []struct {
		name string
		dst  *Mirror
	}{
		{FieldMirror1, &c.Mirror1},
		{FieldMirror2, &c.Mirror2},
	} {
		dst := m.dst
		if err := decodeSub(s, m.name, func(d *decoder) { *dst = decodeMirror(d) }); err != nil {
			return err
		}
	}
	return decodeSub(s, FieldCCD, func(d *decoder) { c.CCD = decodeCCD(d) })
}

func decodeSub(parent *genx.Struct, name string, fill func(*decoder)) error {
	sub, err := parent.Sub(name)
	if err != nil {
		if errors.Is(err, genx.ErrNoSuchTag) {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		return err
	}
	d := &decoder{s: sub, path: name + "."}
	fill(d)
	return d.err
}

func decodeFilter(d *decoder) Filter {
	f := Filter{
		LongName:  d.str(FieldLongName),
		Material:  d.str(FieldMaterial),
		Substrate: d.str(FieldSubstrate),
		Density:   d.float(FieldDensity),
		Thickness: d.float(FieldThickness),
		Length:    d.length(FieldLength, FieldWave, FieldTrans),
		Wave:      d.floats(FieldWave),
		Trans:     d.floats(FieldTrans),
	}
	if v, ok := d.get(FieldMeshTrans); ok {
		_, err := genx.Float64s(v)
		f.MeshPerWave = err == nil
		f.MeshTrans = d.floats(FieldMeshTrans)
	}
	return f
}

func decodeMirror(d *decoder) Mirror {
	return Mirror{
		LongName:   d.str(FieldLongName),
		Material:   d.str(FieldMaterial),
		Density:    d.float(FieldDensity),
		GrazeAngle: d.float(FieldGrazeAngle),
		Length:     d.length(FieldLength, FieldWave, FieldRefl),
		Wave:       d.floats(FieldWave),
		Refl:       d.floats(FieldRefl),
	}
}

func decodeCCD(d *decoder) CCD {
	c := CCD{
		LongName:  d.str(FieldLongName),
		EVPerEl:   d.float(FieldEVPerEl),
		FullWell:  d.float(FieldFullWell),
		GainLeft:  d.float(FieldGainLeft),
		GainRight: DefaultGainRight,
		PixelSize: d.float(FieldPixelSize),
		Length:    d.length(FieldLength, FieldWave, FieldQE),
		Wave:      d.floats(FieldWave),
		QE:        d.floats(FieldQE),
	}
	if _, ok := d.s.Get(FieldGainRight); ok {
		c.GainRight = d.float(FieldGainRight)
	}
	return c
}

// decoder reads fields of one structure and keeps the first error.
type decoder struct {
	s    *genx.Struct
	path string
	err  error
}

func (d *decoder) get(name string) (interface{}, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := d.s.Get(name)
	if !ok {
		d.err = fmt.Errorf("%w: %s%s", ErrMissingField, d.path, name)
	}
	return v, ok
}

func (d *decoder) fail(name string, err error) {
	d.err = fmt.Errorf("%s%s: %w", d.path, name, err)
}

func (d *decoder) str(name string) string {
	v, ok := d.get(name)
	if !ok {
		return ""
	}
	s, err := genx.String(v)
	if err != nil {
		d.fail(name, err)
	}
	return s
}

func (d *decoder) float(name string) float64 {
	v, ok := d.get(name)
	if !ok {
		return 0
	}
	f, err := genx.Float64(v)
	if err != nil {
		d.fail(name, err)
	}
	return f
}

func (d *decoder) floats(name string) []float64 {
	v, ok := d.get(name)
	if !ok {
		return nil
	}
	fs, err := genx.Float64s(v)
	if err != nil {
		// Scalars stand in for one-element arrays.
		f, ferr := genx.Float64(v)
		if ferr != nil {
			d.fail(name, err)
			return nil
		}
		fs = []float64{f}
	}
	return fs
}

// length reads an integral LENGTH field and checks it against the arrays it
// bounds.
func (d *decoder) length(name string, arrays ...string) int {
	v, ok := d.get(name)
	if !ok {
		return 0
	}
	n, err := genx.Int(v)
	if err != nil {
		d.fail(name, err)
		return 0
	}
	if n < 0 {
		d.fail(name, fmt.Errorf("%w: negative length %d", ErrBadLength, n))
		return 0
	}
	for _, a := range arrays {
		fs := d.floats(a)
		if d.err != nil {
			return 0
		}
		if n > len(fs) {
			d.fail(name, fmt.Errorf("%w: %d > len(%s) = %d", ErrBadLength, n, a, len(fs)))
			return 0
		}
	}
	return n
}
