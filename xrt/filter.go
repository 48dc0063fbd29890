package xrt

import (
	"github.com/robert-malhotra/go-xrt/internal/record"
	"github.com/robert-malhotra/go-xrt/units"
)

// FilterSlot identifies where a filter sits in the light path.
type FilterSlot int

const (
	EntranceSlot FilterSlot = iota // entrance filter
	Wheel1Slot                     // focal-plane filter wheel 1
	Wheel2Slot                     // focal-plane filter wheel 2
)

// String returns the slot name.
func (s FilterSlot) String() string {
	switch s {
	case EntranceSlot:
		return "entrance"
	case Wheel1Slot:
		return "filter1"
	case Wheel2Slot:
		return "filter2"
	}
	return "unknown"
}

// Filter is the entrance filter or one of the focal-plane filters of a
// channel.
type Filter struct {
	cat   *Catalog
	index int
	slot  FilterSlot
}

func (f *Filter) rec() *record.Filter {
	r := &f.cat.records[f.index]
	switch f.slot {
	case Wheel1Slot:
		return &r.Filter1
	case Wheel2Slot:
		return &r.Filter2
	}
	return &r.EntranceFilter
}

// Slot returns the position of the filter.
func (f *Filter) Slot() FilterSlot {
	return f.slot
}

// Name returns the LONG_NAME of the filter.
func (f *Filter) Name() string {
	return f.rec().LongName
}

// Material returns the filter material.
func (f *Filter) Material() string {
	return f.rec().Material
}

// Substrate returns the material the filter is deposited on.
func (f *Filter) Substrate() string {
	return f.rec().Substrate
}

// Density returns the filter material density in g/cm3.
func (f *Filter) Density() units.Quantity {
	return quantity(record.FieldDensity, f.rec().Density)
}

// Thickness returns the filter thickness in Angstrom.
func (f *Filter) Thickness() units.Quantity {
	return quantity(record.FieldThickness, f.rec().Thickness)
}

// MeshTransmission returns the transmission of the supporting mesh. When the
// mesh transmission is stored per wavelength this is its first value; use
// MeshTransmissionArray for the full curve.
func (f *Filter) MeshTransmission() units.Quantity {
	mesh := f.rec().MeshTrans
	if len(mesh) == 0 {
		return quantity(record.FieldMeshTrans, 0)
	}
	return quantity(record.FieldMeshTrans, mesh[0])
}

// MeshTransmissionArray returns the mesh transmission on the wavelength
// grid, truncated to LENGTH. A scalar mesh transmission gives a one-element
// array.
func (f *Filter) MeshTransmissionArray() units.Array {
	r := f.rec()
	if !r.MeshPerWave {
		return array(record.FieldMeshTrans, r.MeshTrans, len(r.MeshTrans))
	}
	return array(record.FieldMeshTrans, r.MeshTrans, r.Length)
}

// MeshPerWavelength reports whether the mesh transmission is stored per
// wavelength rather than as one number.
func (f *Filter) MeshPerWavelength() bool {
	return f.rec().MeshPerWave
}

// Wavelength returns the filter wavelength grid in Angstrom.
func (f *Filter) Wavelength() units.Array {
	r := f.rec()
	return array(record.FieldWave, r.Wave, r.Length)
}

// Transmission returns the filter transmission on the wavelength grid.
func (f *Filter) Transmission() units.Array {
	r := f.rec()
	return array(record.FieldTrans, r.Trans, r.Length)
}

// NumberOfWavelengths returns the LENGTH field of the filter record.
func (f *Filter) NumberOfWavelengths() int {
	return f.rec().Length
}
