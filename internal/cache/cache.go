// Package cache holds serialized API payloads (graph, country table) so
// repeated requests skip re-encoding.
package cache

import "time"

// Cache stores serialized payloads with a TTL.
type Cache interface {
	// Get returns the value and true if present and not expired.
	Get(key string) ([]byte, bool)

	// Set stores value under key. A ttl of 0 uses the cache default.
	Set(key string, value []byte, ttl time.Duration)

	Delete(key string)
	Clear()
	Stats() Stats
}

// Stats represents cache statistics.
type Stats struct {
	Hits      uint64
	Misses    uint64
	KeysAdded uint64
	Evictions uint64
	Items     int64
}

// Fetch returns the cached value for key, or calls load and caches its
// result. The boolean reports a cache hit. Load errors are not cached.
func Fetch(c Cache, key string, ttl time.Duration, load func() ([]byte, error)) ([]byte, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	v, err := load()
	if err != nil {
		return nil, false, err
	}
	c.Set(key, v, ttl)
	return v, false, nil
}
