// Package export writes channel calibration data to files.
//
// # FITS
//
// [WriteFITS] writes one channel per file. The primary HDU carries no data;
// its header identifies the channel and holds the geometry. Each optical
// element follows as a binary table with one row per wavelength:
//
//	CHANNEL     WAVE, TRANS
//	EN_FILTER   WAVE, TRANS
//	MIRROR1     WAVE, REFL
//	MIRROR2     WAVE, REFL
//	FP_FILTER1  WAVE, TRANS
//	FP_FILTER2  WAVE, TRANS
//	CCD         WAVE, QE
//
// Scalar properties of each element are header cards of its table, with the
// unit in brackets at the start of the comment.
//
// # Summaries
//
// [Summarize] collects the scalar properties of a channel for YAML or JSON
// output.
package export
