package xrt

import (
	"fmt"

	"github.com/robert-malhotra/go-xrt/internal/record"
	"github.com/robert-malhotra/go-xrt/units"
)

// Channel is one filter-wheel combination of the telescope. It refers to
// its catalog and record index; it holds no copy of the data.
type Channel struct {
	cat   *Catalog
	index int
}

func (c *Channel) rec() *record.Channel {
	return &c.cat.records[c.index]
}

// Index returns the record index of the channel.
func (c *Channel) Index() int {
	return c.index
}

// Name returns the canonical channel name derived from the record's own
// NAME field. The error wraps ErrStoredName when that field could not be
// resolved at load time.
func (c *Channel) Name() (string, error) {
	if err := c.cat.nameErrs[c.index]; err != nil {
		return "", err
	}
	return c.cat.names[c.index], nil
}

// label is the stored name, or the index table name when the stored name
// is unusable.
func (c *Channel) label() string {
	if name, err := c.Name(); err == nil {
		return name
	}
	return channelNames[c.index]
}

// Wavelength returns the channel wavelength grid in Angstrom.
func (c *Channel) Wavelength() units.Array {
	r := c.rec()
	return array(record.FieldWave, r.Wave, r.Length)
}

// Transmission returns the channel transmission on the wavelength grid.
func (c *Channel) Transmission() units.Array {
	r := c.rec()
	return array(record.FieldTrans, r.Trans, r.Length)
}

// NumberOfWavelengths returns the LENGTH field of the channel record.
func (c *Channel) NumberOfWavelengths() int {
	return c.rec().Length
}

// Observatory returns the spacecraft name.
func (c *Channel) Observatory() string {
	return c.rec().Observatory
}

// Instrument returns the instrument name.
func (c *Channel) Instrument() string {
	return c.rec().Instrument
}

// Geometry returns the telescope geometry of the channel.
func (c *Channel) Geometry() *Geometry {
	return &Geometry{cat: c.cat, index: c.index}
}

// EntranceFilter returns the entrance filter.
func (c *Channel) EntranceFilter() *Filter {
	return &Filter{cat: c.cat, index: c.index, slot: EntranceSlot}
}

// Mirror1 returns the primary mirror.
func (c *Channel) Mirror1() *Mirror {
	return &Mirror{cat: c.cat, index: c.index, number: 1}
}

// Mirror2 returns the secondary mirror.
func (c *Channel) Mirror2() *Mirror {
	return &Mirror{cat: c.cat, index: c.index, number: 2}
}

// Filter1 returns the filter on focal-plane filter wheel 1.
func (c *Channel) Filter1() *Filter {
	return &Filter{cat: c.cat, index: c.index, slot: Wheel1Slot}
}

// Filter2 returns the filter on focal-plane filter wheel 2.
func (c *Channel) Filter2() *Filter {
	return &Filter{cat: c.cat, index: c.index, slot: Wheel2Slot}
}

// CCD returns the detector.
func (c *Channel) CCD() *CCD {
	return &CCD{cat: c.cat, index: c.index}
}

// String returns "XRT Channel for <name>".
func (c *Channel) String() string {
	return "XRT Channel for " + c.label()
}

// GoString returns Channel("<name>").
func (c *Channel) GoString() string {
	return fmt.Sprintf("Channel(%q)", c.label())
}
