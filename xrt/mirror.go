package xrt

import (
	"github.com/robert-malhotra/go-xrt/internal/record"
	"github.com/robert-malhotra/go-xrt/units"
)

// Mirror is one of the two grazing-incidence mirrors of a channel.
type Mirror struct {
	cat    *Catalog
	index  int
	number int
}

func (m *Mirror) rec() *record.Mirror {
	r := &m.cat.records[m.index]
	if m.number == 2 {
		return &r.Mirror2
	}
	return &r.Mirror1
}

// Number returns 1 or 2.
func (m *Mirror) Number() int {
	return m.number
}

// Name returns the LONG_NAME of the mirror.
func (m *Mirror) Name() string {
	return m.rec().LongName
}

// Material returns the mirror substrate material.
func (m *Mirror) Material() string {
	return m.rec().Material
}

// Density returns the mirror material density in g/cm3.
func (m *Mirror) Density() units.Quantity {
	return quantity(record.FieldDensity, m.rec().Density)
}

// GrazeAngle returns the graze angle in degrees.
func (m *Mirror) GrazeAngle() units.Quantity {
	return quantity(record.FieldGrazeAngle, m.rec().GrazeAngle)
}

// Wavelength returns the mirror wavelength grid in Angstrom.
func (m *Mirror) Wavelength() units.Array {
	r := m.rec()
	return array(record.FieldWave, r.Wave, r.Length)
}

// Reflection returns the mirror reflectivity on the wavelength grid.
func (m *Mirror) Reflection() units.Array {
	r := m.rec()
	return array(record.FieldRefl, r.Refl, r.Length)
}

// NumberOfWavelengths returns the LENGTH field of the mirror record.
func (m *Mirror) NumberOfWavelengths() int {
	return m.rec().Length
}
