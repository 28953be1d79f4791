package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds a cache key of the form <class>:<sha256 hex>. The
// digest covers the content hash (the normalized dimension list for
// plans, the packed document for artifacts) together with the options
// that influenced the cached value, so any option change keys a
// different entry.
func hashKey(class, contentHash string, opts any) string {
	payload, _ := json.Marshal(struct {
		Content string `json:"content"`
		Opts    any    `json:"opts"`
	}{contentHash, opts})
	sum := sha256.Sum256(payload)
	return class + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 digest of data. The pipeline uses it to
// identify dimension lists and documents by content.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
