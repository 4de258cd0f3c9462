package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes computes the SHA256 hash of data that is already in memory
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
