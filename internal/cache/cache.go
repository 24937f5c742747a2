package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching fetched corpus material
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from an API request URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "provenance:v1:" + hex.EncodeToString(hash[:])
}
