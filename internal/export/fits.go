package export

import (
	"fmt"
	"io"

	"github.com/astrogo/fitsio"

	"github.com/robert-malhotra/go-xrt/units"
	"github.com/robert-malhotra/go-xrt/xrt"
)

// Extension names, in file order.
const (
	ExtChannel  = "CHANNEL"
	ExtEntrance = "EN_FILTER"
	ExtMirror1  = "MIRROR1"
	ExtMirror2  = "MIRROR2"
	ExtFilter1  = "FP_FILTER1"
	ExtFilter2  = "FP_FILTER2"
	ExtCCD      = "CCD"
)

// column is one wavelength-indexed table column.
type column struct {
	name   string
	values units.Array
}

// element is one binary table: a wavelength grid, its response columns and
// header cards.
type element struct {
	name    string
	wave    units.Array
	columns []column
	cards   []fitsio.Card
}

// WriteFITS writes ch as a FITS file. fingerprint identifies the
// calibration file the data came from.
func WriteFITS(w io.Writer, ch *xrt.Channel, hdr xrt.Header, fingerprint uint32) error {
	name, err := ch.Name()
	if err != nil {
		return err
	}
	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("creating FITS stream: %w", err)
	}
	defer f.Close()

	geom := ch.Geometry()
	primary := fitsio.NewImage(8, nil)
	defer primary.Close()
	err = primary.Header().Append(
		fitsio.Card{Name: "TELESCOP", Value: ch.Observatory()},
		fitsio.Card{Name: "INSTRUME", Value: ch.Instrument()},
		fitsio.Card{Name: "CHANNEL", Value: name, Comment: "filter1/filter2"},
		fitsio.Card{Name: "CHANIDX", Value: ch.Index(), Comment: "record index"},
		quantityCard("FOCALLEN", geom.FocalLength(), "focal length"),
		quantityCard("APERAREA", geom.ApertureArea(), "aperture area"),
		fitsio.Card{Name: "GENXDATE", Value: hdr.Creation, Comment: "calibration file creation"},
		fitsio.Card{Name: "GENXCRC", Value: int(fingerprint), Comment: "CRC-32 of calibration file"},
	)
	if err != nil {
		return fmt.Errorf("primary header: %w", err)
	}
	if err := f.Write(primary); err != nil {
		return fmt.Errorf("writing primary HDU: %w", err)
	}

	for _, el := range elements(ch) {
		if err := writeElement(f, el); err != nil {
			return fmt.Errorf("writing %s: %w", el.name, err)
		}
	}
	return nil
}

func elements(ch *xrt.Channel) []element {
	filter := func(name string, fl *xrt.Filter) element {
		el := element{
			name:    name,
			wave:    fl.Wavelength(),
			columns: []column{{"TRANS", fl.Transmission()}},
			cards: []fitsio.Card{
				{Name: "LONGNAME", Value: fl.Name()},
				{Name: "MATERIAL", Value: fl.Material()},
				{Name: "SUBSTRAT", Value: fl.Substrate()},
				quantityCard("DENSITY", fl.Density(), "material density"),
				quantityCard("THICK", fl.Thickness(), "thickness"),
			},
		}
		if fl.MeshPerWavelength() {
			el.columns = append(el.columns, column{"MESH", fl.MeshTransmissionArray()})
		} else {
			el.cards = append(el.cards, quantityCard("MESHTRAN", fl.MeshTransmission(), "mesh transmission"))
		}
		return el
	}
	mirror := func(name string, m *xrt.Mirror) element {
		return element{
			name:    name,
			wave:    m.Wavelength(),
			columns: []column{{"REFL", m.Reflection()}},
			cards: []fitsio.Card{
				{Name: "LONGNAME", Value: m.Name()},
				{Name: "MATERIAL", Value: m.Material()},
				quantityCard("DENSITY", m.Density(), "material density"),
				quantityCard("GRAZEANG", m.GrazeAngle(), "graze angle"),
			},
		}
	}
	ccd := ch.CCD()

	return []element{
		{name: ExtChannel, wave: ch.Wavelength(), columns: []column{{"TRANS", ch.Transmission()}}},
		filter(ExtEntrance, ch.EntranceFilter()),
		mirror(ExtMirror1, ch.Mirror1()),
		mirror(ExtMirror2, ch.Mirror2()),
		filter(ExtFilter1, ch.Filter1()),
		filter(ExtFilter2, ch.Filter2()),
		{
			name:    ExtCCD,
			wave:    ccd.Wavelength(),
			columns: []column{{"QE", ccd.QuantumEfficiency()}},
			cards: []fitsio.Card{
				{Name: "LONGNAME", Value: ccd.Name()},
				quantityCard("EVPEREL", ccd.EnergyPerElectron(), "energy per electron"),
				quantityCard("FULLWELL", ccd.FullWell(), "full well"),
				quantityCard("GAIN_L", ccd.GainLeft(), "left port gain"),
				quantityCard("GAIN_R", ccd.GainRight(), "right port gain"),
				quantityCard("PIXSIZE", ccd.PixelSize(), "pixel size"),
			},
		},
	}
}

func writeElement(f *fitsio.File, el element) error {
	cols := []fitsio.Column{{Name: "WAVE", Format: "D", Unit: el.wave.Unit.String()}}
	for _, c := range el.columns {
		cols = append(cols, fitsio.Column{Name: c.name, Format: "D", Unit: c.values.Unit.String()})
	}
	tbl, err := fitsio.NewTable(el.name, cols, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()

	cards := append([]fitsio.Card{{Name: "NWAVE", Value: el.wave.Len(), Comment: "valid wavelengths"}}, el.cards...)
	if err := tbl.Header().Append(cards...); err != nil {
		return err
	}
	row := make([]float64, len(cols))
	args := make([]interface{}, len(cols))
	for j := range row {
		args[j] = &row[j]
	}
	for i := range el.wave.Len() {
		row[0] = el.wave.Values[i]
		for j, c := range el.columns {
			if i < c.values.Len() {
				row[j+1] = c.values.Values[i]
			} else {
				row[j+1] = 0
			}
		}
		if err := tbl.Write(args...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return f.Write(tbl)
}

func quantityCard(name string, q units.Quantity, comment string) fitsio.Card {
	if q.Unit != units.Dimensionless {
		comment = fmt.Sprintf("[%s] %s", q.Unit, comment)
	}
	return fitsio.Card{Name: name, Value: q.Value, Comment: comment}
}
