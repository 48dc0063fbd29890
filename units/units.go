// Package units tags calibration values with the physical unit they are
// expressed in.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompatible is returned when converting between units of different
// dimensions.
var ErrIncompatible = errors.New("incompatible units")

// ErrUnknownUnit is returned by Parse for an unrecognised symbol.
var ErrUnknownUnit = errors.New("unknown unit")

// Unit is a physical unit.
type Unit int

// Units used by the XRT calibration data.
const (
	Dimensionless Unit = iota
	Angstrom
	Micron
	Centimeter
	SquareCentimeter
	GramPerCubicCentimeter
	Degree
	ElectronVoltPerElectron
	Electron
	ElectronPerDN
)

var symbols = [...]string{
	Dimensionless:           "",
	Angstrom:                "Angstrom",
	Micron:                  "micron",
	Centimeter:              "cm",
	SquareCentimeter:        "cm2",
	GramPerCubicCentimeter:  "g / cm3",
	Degree:                  "deg",
	ElectronVoltPerElectron: "eV / electron",
	Electron:                "electron",
	ElectronPerDN:           "electron / DN",
}

// String returns the unit symbol. Dimensionless values have an empty symbol.
func (u Unit) String() string {
	if u < 0 || int(u) >= len(symbols) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return symbols[u]
}

// MarshalText encodes the unit as its symbol.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText decodes a unit symbol.
func (u *Unit) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Parse returns the unit with the given symbol. Symbols are matched
// case-insensitively; "dimensionless" is accepted for the empty symbol.
func Parse(symbol string) (Unit, error) {
	s := strings.TrimSpace(symbol)
	if strings.EqualFold(s, "dimensionless") {
		return Dimensionless, nil
	}
	for u, sym := range symbols {
		if strings.EqualFold(sym, s) {
			return Unit(u), nil
		}
	}
	return Dimensionless, fmt.Errorf("%w %q", ErrUnknownUnit, symbol)
}

// lengthScale holds the size of each length unit in centimetres.
var lengthScale = map[Unit]float64{
	Angstrom:   1e-8,
	Micron:     1e-4,
	Centimeter: 1,
}

// factor returns the multiplier converting from u to to.
func factor(from, to Unit) (float64, error) {
	if from == to {
		return 1, nil
	}
	f, okFrom := lengthScale[from]
	t, okTo := lengthScale[to]
	if !okFrom || !okTo {
		return 0, fmt.Errorf("%w: %q to %q", ErrIncompatible, from, to)
	}
	return f / t, nil
}

// Quantity is a scalar value with a unit.
type Quantity struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// New returns a Quantity.
func New(value float64, unit Unit) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// Convert returns q expressed in another unit of the same dimension.
func (q Quantity) Convert(to Unit) (Quantity, error) {
	f, err := factor(q.Unit, to)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value * f, Unit: to}, nil
}

// String formats the value followed by its unit symbol.
func (q Quantity) String() string {
	if q.Unit == Dimensionless {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// Array is a sequence of values sharing one unit.
type Array struct {
	Values []float64 `json:"values" yaml:"values"`
	Unit   Unit      `json:"unit" yaml:"unit"`
}

// NewArray returns an Array holding a copy of values.
func NewArray(values []float64, unit Unit) Array {
	cp := make([]float64, len(values))
	copy(cp, values)
	return Array{Values: cp, Unit: unit}
}

// Len returns the number of values.
func (a Array) Len() int {
	return len(a.Values)
}

// At returns the i-th value as a Quantity.
func (a Array) At(i int) Quantity {
	return Quantity{Value: a.Values[i], Unit: a.Unit}
}

// Slice returns the first n values. n is clamped to [0, Len()].
func (a Array) Slice(n int) Array {
	n = max(0, min(n, len(a.Values)))
	return Array{Values: a.Values[:n:n], Unit: a.Unit}
}

// Convert returns a copy of a expressed in another unit of the same
// dimension.
func (a Array) Convert(to Unit) (Array, error) {
	f, err := factor(a.Unit, to)
	if err != nil {
		return Array{}, err
	}
	out := make([]float64, len(a.Values))
	for i, v := range a.Values {
		out[i] = v * f
	}
	return Array{Values: out, Unit: to}, nil
}

// String formats the values followed by their unit symbol.
func (a Array) String() string {
	if a.Unit == Dimensionless {
		return fmt.Sprintf("%v", a.Values)
	}
	return fmt.Sprintf("%v %s", a.Values, a.Unit)
}
