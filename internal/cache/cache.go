// Package cache stores extraction results keyed by scenario note, so
// repeated teaching scenarios do not re-bill the LLM provider.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a scenario note
func Key(note string) string {
	hash := sha256.Sum256([]byte(note))
	return "triago:v1:" + hex.EncodeToString(hash[:])
}
