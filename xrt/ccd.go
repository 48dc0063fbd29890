package xrt

import (
	"github.com/robert-malhotra/go-xrt/internal/record"
	"github.com/robert-malhotra/go-xrt/units"
)

// CCD is the detector of a channel.
type CCD struct {
	cat   *Catalog
	index int
}

func (c *CCD) rec() *record.CCD {
	return &c.cat.records[c.index].CCD
}

// Name returns the LONG_NAME of the CCD.
func (c *CCD) Name() string {
	return c.rec().LongName
}

// EnergyPerElectron returns the mean photon energy per liberated electron.
func (c *CCD) EnergyPerElectron() units.Quantity {
	return quantity(record.FieldEVPerEl, c.rec().EVPerEl)
}

// FullWell returns the pixel full-well capacity in electrons.
func (c *CCD) FullWell() units.Quantity {
	return quantity(record.FieldFullWell, c.rec().FullWell)
}

// GainLeft returns the gain of the left readout port in electron/DN.
func (c *CCD) GainLeft() units.Quantity {
	return quantity(record.FieldGainLeft, c.rec().GainLeft)
}

// GainRight returns the gain of the right readout port in electron/DN. Files
// without a GAIN_R field report record.DefaultGainRight.
func (c *CCD) GainRight() units.Quantity {
	return quantity(record.FieldGainRight, c.rec().GainRight)
}

// PixelSize returns the pixel pitch in micron.
func (c *CCD) PixelSize() units.Quantity {
	return quantity(record.FieldPixelSize, c.rec().PixelSize)
}

// Wavelength returns the CCD wavelength grid in Angstrom.
func (c *CCD) Wavelength() units.Array {
	r := c.rec()
	return array(record.FieldWave, r.Wave, r.Length)
}

// QuantumEfficiency returns the detector quantum efficiency on the
// wavelength grid.
func (c *CCD) QuantumEfficiency() units.Array {
	r := c.rec()
	return array(record.FieldQE, r.QE, r.Length)
}

// NumberOfWavelengths returns the LENGTH field of the CCD record.
func (c *CCD) NumberOfWavelengths() int {
	return c.rec().Length
}
