// Package xrt provides read-only access to the Hinode X-Ray Telescope
// channel calibration data.
//
// A [Catalog] is loaded once from the SSW channel file
// (xrt_channels_v0016.genx) and is immutable afterwards. Channels are
// opened by filter-wheel name:
//
//	cat, err := xrt.Load("xrt_channels_v0016.genx")
//	if err != nil {
//		return err
//	}
//	ch, err := cat.Open("Be-thin")
//	if err != nil {
//		return err
//	}
//	fmt.Println(ch) // XRT Channel for Be_thin/Open
//	fmt.Println(ch.Mirror1().GrazeAngle())
//
// # Filter names
//
// [ResolveFilterName] accepts the FITS header form ("Open/Ti_poly"), the
// SunPy form ("Open-Ti poly") or a single filter wheel name ("Ti_poly",
// "Be-thin").
// Only the first character of each part is upper-cased and spaces become
// underscores, so "be thin" resolves but "BE THIN" does not.
//
// # Units
//
// Dimensioned values are returned as [units.Quantity] or [units.Array].
// Wavelength-indexed arrays are truncated to the LENGTH field of the
// record they come from.
//
// # Concurrency
//
// A Catalog and its handles are safe for concurrent use. Nothing is
// mutated after loading.
package xrt
