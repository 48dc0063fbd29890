// Package record decodes the per-channel structures of the XRT channel
// calibration file into typed Go values.
//
// The SAVEGEN0 variable of xrt_channels_v0016.genx is an array of fourteen
// anonymous structures, one per filter-wheel combination:
//
//	NAME         string    e.g. "Al-poly/Ti-poly"
//	WAVE         float[n]  wavelength grid, Angstrom
//	TRANS        float[n]  channel transmission
//	LENGTH       int       number of valid WAVE/TRANS entries
//	OBSERVATORY  string
//	INSTRUMENT   string
//	GEOM         struct    LONG_NAME, FOC_LEN, APERTURE_AREA
//	EN_FILTER    struct    entrance filter, see Filter
//	MIRROR1/2    struct    LONG_NAME, MATERIAL, DENS, GRAZE_ANGLE, WAVE, REFL, LENGTH
//	FP_FILTER1/2 struct    focal plane filters, see Filter
//	CCD          struct    LONG_NAME, EV_PER_EL, FULL_WELL, GAIN_L, GAIN_R,
//	                       PIXEL_SIZE, WAVE, QE, LENGTH
//
// IDL structure arrays carry fixed-size arrays, so every wavelength-indexed
// array is allocated to the largest grid and LENGTH says how much of it is
// valid. [Decode] keeps the arrays whole and checks that LENGTH never exceeds
// them; truncation happens in the accessors of package xrt.
package record
