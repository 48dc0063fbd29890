package binary

import "github.com/snksoft/crc"

// Fingerprint returns the CRC-32 (IEEE) of data. It identifies which
// calibration file a catalog was loaded from.
func Fingerprint(data []byte) uint32 {
	return uint32(crc.CalculateCRC(crc.CRC32, data))
}

// VerifyFingerprint reports whether data matches an expected fingerprint.
func VerifyFingerprint(data []byte, expected uint32) bool {
	return Fingerprint(data) == expected
}
