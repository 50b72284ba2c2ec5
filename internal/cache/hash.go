package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the hex sha256 digest of content. Content hashes
// are the sole cache key: a file whose digest is unchanged is never
// re-parsed, regardless of timestamps.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashStrings digests an ordered list of strings with length framing so
// ["ab","c"] and ["a","bc"] never collide
func HashStrings(parts []string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		n := len(p)
		for i := 0; i < 8; i++ {
			lenBuf[i] = byte(n >> (8 * i))
		}
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
