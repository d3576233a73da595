package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the length of a key in characters.
const Size = sha256.Size * 2

// Key returns the cache key for a URL: the lowercase hex SHA-256 digest of
// the exact string. Keys are safe to use as file names.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Valid reports whether s could have been produced by Key.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
