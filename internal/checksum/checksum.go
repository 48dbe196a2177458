// Package checksum fingerprints content for change detection: optimistic
// concurrency on page text updates and self-write filtering in the
// collection file watcher.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SumString is Sum over a string payload.
func SumString(s string) string {
	return Sum([]byte(s))
}
