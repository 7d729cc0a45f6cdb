package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data. Frame snapshots and image URLs are
// addressed by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// scopedHash joins scope and the hash of the JSON form of parts, so the same
// frame rendered with different output options gets distinct keys.
func scopedHash(scope string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return scope + ":" + Hash(data)
}
