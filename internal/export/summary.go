package export

import (
	"encoding/json"
	"io"

	yml "gopkg.in/yaml.v2"

	"github.com/robert-malhotra/go-xrt/units"
	"github.com/robert-malhotra/go-xrt/xrt"
)

// Range is the first and last valid wavelength of a grid.
type Range struct {
	Min units.Quantity `json:"min" yaml:"min"`
	Max units.Quantity `json:"max" yaml:"max"`
}

func rangeOf(a units.Array) *Range {
	if a.Len() == 0 {
		return nil
	}
	return &Range{Min: a.At(0), Max: a.At(a.Len() - 1)}
}

// GeometrySummary holds the telescope geometry of a channel.
type GeometrySummary struct {
	Name         string         `json:"name" yaml:"name"`
	FocalLength  units.Quantity `json:"focal_length" yaml:"focal_length"`
	ApertureArea units.Quantity `json:"aperture_area" yaml:"aperture_area"`
}

// FilterSummary holds the scalar properties of a filter. For a mesh
// transmission stored per wavelength, MeshTransmission is its first value.
type FilterSummary struct {
	Name                string         `json:"name" yaml:"name"`
	Material            string         `json:"material" yaml:"material"`
	Substrate           string         `json:"substrate" yaml:"substrate"`
	Density             units.Quantity `json:"density" yaml:"density"`
	Thickness           units.Quantity `json:"thickness" yaml:"thickness"`
	MeshTransmission    units.Quantity `json:"mesh_transmission" yaml:"mesh_transmission"`
	MeshPerWavelength   bool           `json:"mesh_per_wavelength,omitempty" yaml:"mesh_per_wavelength,omitempty"`
	NumberOfWavelengths int            `json:"number_of_wavelengths" yaml:"number_of_wavelengths"`
	Wavelength          *Range         `json:"wavelength,omitempty" yaml:"wavelength,omitempty"`
}

// MirrorSummary holds the scalar properties of a mirror.
type MirrorSummary struct {
	Name                string         `json:"name" yaml:"name"`
	Material            string         `json:"material" yaml:"material"`
	Density             units.Quantity `json:"density" yaml:"density"`
	GrazeAngle          units.Quantity `json:"graze_angle" yaml:"graze_angle"`
	NumberOfWavelengths int            `json:"number_of_wavelengths" yaml:"number_of_wavelengths"`
	Wavelength          *Range         `json:"wavelength,omitempty" yaml:"wavelength,omitempty"`
}

// CCDSummary holds the scalar properties of the CCD.
type CCDSummary struct {
	Name                string         `json:"name" yaml:"name"`
	EnergyPerElectron   units.Quantity `json:"energy_per_electron" yaml:"energy_per_electron"`
	FullWell            units.Quantity `json:"full_well" yaml:"full_well"`
	GainLeft            units.Quantity `json:"gain_left" yaml:"gain_left"`
	GainRight           units.Quantity `json:"gain_right" yaml:"gain_right"`
	PixelSize           units.Quantity `json:"pixel_size" yaml:"pixel_size"`
	NumberOfWavelengths int            `json:"number_of_wavelengths" yaml:"number_of_wavelengths"`
	Wavelength          *Range         `json:"wavelength,omitempty" yaml:"wavelength,omitempty"`
}

// ChannelSummary holds the scalar properties of a channel.
type ChannelSummary struct {
	Name                string          `json:"name" yaml:"name"`
	Index               int             `json:"index" yaml:"index"`
	Observatory         string          `json:"observatory" yaml:"observatory"`
	Instrument          string          `json:"instrument" yaml:"instrument"`
	NumberOfWavelengths int             `json:"number_of_wavelengths" yaml:"number_of_wavelengths"`
	Wavelength          *Range          `json:"wavelength,omitempty" yaml:"wavelength,omitempty"`
	Geometry            GeometrySummary `json:"geometry" yaml:"geometry"`
	EntranceFilter      FilterSummary   `json:"entrance_filter" yaml:"entrance_filter"`
	Mirror1             MirrorSummary   `json:"mirror1" yaml:"mirror1"`
	Mirror2             MirrorSummary   `json:"mirror2" yaml:"mirror2"`
	Filter1             FilterSummary   `json:"filter1" yaml:"filter1"`
	Filter2             FilterSummary   `json:"filter2" yaml:"filter2"`
	CCD                 CCDSummary      `json:"ccd" yaml:"ccd"`
}

// ChannelRef names one channel in a channel list.
type ChannelRef struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// List returns a reference to every channel of cat in index order.
func List(cat *xrt.Catalog) ([]ChannelRef, error) {
	chans := cat.Channels()
	out := make([]ChannelRef, len(chans))
	for i, ch := range chans {
		name, err := ch.Name()
		if err != nil {
			return nil, err
		}
		out[i] = ChannelRef{Name: name, Index: ch.Index()}
	}
	return out, nil
}

// Summarize collects the scalar properties of ch.
func Summarize(ch *xrt.Channel) (ChannelSummary, error) {
	name, err := ch.Name()
	if err != nil {
		return ChannelSummary{}, err
	}
	geom, ccd := ch.Geometry(), ch.CCD()
	return ChannelSummary{
		Name:                name,
		Index:               ch.Index(),
		Observatory:         ch.Observatory(),
		Instrument:          ch.Instrument(),
		NumberOfWavelengths: ch.NumberOfWavelengths(),
		Wavelength:          rangeOf(ch.Wavelength()),
		Geometry: GeometrySummary{
			Name:         geom.Name(),
			FocalLength:  geom.FocalLength(),
			ApertureArea: geom.ApertureArea(),
		},
		EntranceFilter: summarizeFilter(ch.EntranceFilter()),
		Mirror1:        summarizeMirror(ch.Mirror1()),
		Mirror2:        summarizeMirror(ch.Mirror2()),
		Filter1:        summarizeFilter(ch.Filter1()),
		Filter2:        summarizeFilter(ch.Filter2()),
		CCD: CCDSummary{
			Name:                ccd.Name(),
			EnergyPerElectron:   ccd.EnergyPerElectron(),
			FullWell:            ccd.FullWell(),
			GainLeft:            ccd.GainLeft(),
			GainRight:           ccd.GainRight(),
			PixelSize:           ccd.PixelSize(),
			NumberOfWavelengths: ccd.NumberOfWavelengths(),
			Wavelength:          rangeOf(ccd.Wavelength()),
		},
	}, nil
}

func summarizeFilter(f *xrt.Filter) FilterSummary {
	return FilterSummary{
		Name:                f.Name(),
		Material:            f.Material(),
		Substrate:           f.Substrate(),
		Density:             f.Density(),
		Thickness:           f.Thickness(),
		MeshTransmission:    f.MeshTransmission(),
		MeshPerWavelength:   f.MeshPerWavelength(),
		NumberOfWavelengths: f.NumberOfWavelengths(),
		Wavelength:          rangeOf(f.Wavelength()),
	}
}

func summarizeMirror(m *xrt.Mirror) MirrorSummary {
	return MirrorSummary{
		Name:                m.Name(),
		Material:            m.Material(),
		Density:             m.Density(),
		GrazeAngle:          m.GrazeAngle(),
		NumberOfWavelengths: m.NumberOfWavelengths(),
		Wavelength:          rangeOf(m.Wavelength()),
	}
}

// WriteYAML writes summaries as a YAML sequence.
func WriteYAML(w io.Writer, s []ChannelSummary) error {
	b, err := yml.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// WriteJSON writes summaries as an indented JSON array.
func WriteJSON(w io.Writer, s []ChannelSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
