package xrt

import (
	"github.com/robert-malhotra/go-xrt/internal/record"
	"github.com/robert-malhotra/go-xrt/units"
)

// fieldUnits is the unit of every numeric record field. Fields not listed
// are dimensionless.
var fieldUnits = map[string]units.Unit{
	record.FieldWave:         units.Angstrom,
	record.FieldThickness:    units.Angstrom,
	record.FieldFocalLength:  units.Centimeter,
	record.FieldApertureArea: units.SquareCentimeter,
	record.FieldDensity:      units.GramPerCubicCentimeter,
	record.FieldGrazeAngle:   units.Degree,
	record.FieldEVPerEl:      units.ElectronVoltPerElectron,
	record.FieldFullWell:     units.Electron,
	record.FieldGainLeft:     units.ElectronPerDN,
	record.FieldGainRight:    units.ElectronPerDN,
	record.FieldPixelSize:    units.Micron,
}

// FieldUnit returns the unit attached to a record field such as "WAVE" or
// "GRAZE_ANGLE".
func FieldUnit(field string) units.Unit {
	return fieldUnits[field]
}

func quantity(field string, v float64) units.Quantity {
	return units.New(v, FieldUnit(field))
}

// array returns the first n values of a wavelength-indexed field.
func array(field string, values []float64, n int) units.Array {
	return units.NewArray(values, FieldUnit(field)).Slice(n)
}
