package badger

import (
	"encoding/binary"

	"github.com/poiesic/enrichit/core"
)

// Key prefixes for different data types
const (
	capturePrefix    = "capture"
	captureLatestKey = "capture:latest"
)

// makeCaptureKey generates a key for a capture by fingerprint.
// Format: prefix:fingerprint (8 bytes, BigEndian)
func makeCaptureKey(fp core.Fingerprint) []byte {
	prefix := capturePrefix + ":fp:"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fp))
	return buf
}
