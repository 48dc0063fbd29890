package xrt

import (
	"github.com/robert-malhotra/go-xrt/internal/record"
	"github.com/robert-malhotra/go-xrt/units"
)

// Geometry is the telescope geometry of a channel.
type Geometry struct {
	cat   *Catalog
	index int
}

func (g *Geometry) rec() *record.Geometry {
	return &g.cat.records[g.index].Geometry
}

// Name returns the LONG_NAME field.
func (g *Geometry) Name() string {
	return g.rec().LongName
}

// FocalLength returns the focal length in cm.
func (g *Geometry) FocalLength() units.Quantity {
	return quantity(record.FieldFocalLength, g.rec().FocalLength)
}

// ApertureArea returns the aperture area in cm2.
func (g *Geometry) ApertureArea() units.Quantity {
	return quantity(record.FieldApertureArea, g.rec().ApertureArea)
}
