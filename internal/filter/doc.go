// Package filter unwraps compressed calibration data files.
//
// Distributions of SSW data files are sometimes shipped gzip compressed
// (xrt_channels_v0016.genx.gz) or as raw zlib streams. The loader hands the
// raw file contents to [Decode], which recognises the wrapper by its magic
// bytes and returns the plain genx payload. Unwrapped input is returned
// unchanged.
//
// # Supported Filters
//
//   - gzip (magic 1f 8b) via [Gzip], backed by klauspost/compress/gzip.
//   - zlib (CMF 0x78 with a valid FCHECK) via [Zlib], backed by
//     klauspost/compress/zlib.
//
// A genx file always starts with the big-endian version word 00 00 00 0n,
// so neither magic collides with plain data.
package filter
