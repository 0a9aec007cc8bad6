package kmz

import "bytes"

// Zip signatures: a local file header, the end-of-central-directory record
// of an empty archive, and a spanned archive marker.
var zipSignatures = [][]byte{
	[]byte("PK\x03\x04"),
	[]byte("PK\x05\x06"),
	[]byte("PK\x07\x08"),
}

// IsArchive reports whether data begins with a zip container signature.
//
// This is a cheap sniff, not a validation: bytes can carry a signature and
// still fail to open, but bytes without one never open. An empty finalized
// archive is recognized through its end-of-central-directory signature.
func IsArchive(data []byte) bool {
	for _, sig := range zipSignatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}
