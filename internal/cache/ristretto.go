package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Ristretto is a size-bounded cache backed by ristretto. Cost is the payload
// size in bytes.
type Ristretto struct {
	cache      *ristretto.Cache
	defaultTTL time.Duration
}

// NewRistretto creates a cache holding at most maxSizeMB megabytes and
// roughly maxEntries keys.
func NewRistretto(maxSizeMB, maxEntries int64, defaultTTL time.Duration) (*Ristretto, error) {
	// NumCounters should be ~10x the number of entries
	numCounters := maxEntries * 10
	if numCounters < 1000 {
		numCounters = 1000
	}
	if maxSizeMB < 1 {
		maxSizeMB = 1
	}

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxSizeMB * 1024 * 1024,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Ristretto{cache: c, defaultTTL: defaultTTL}, nil
}

func (r *Ristretto) Get(key string) ([]byte, bool) {
	val, found := r.cache.Get(key)
	if !found {
		return nil, false
	}
	data, ok := val.([]byte)
	if !ok {
		r.cache.Del(key)
		return nil, false
	}
	return data, true
}

func (r *Ristretto) Set(key string, value []byte, ttl time.Duration) {
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	r.cache.SetWithTTL(key, value, int64(len(value)), ttl)
	// make the value visible to the next Get
	r.cache.Wait()
}

func (r *Ristretto) Delete(key string) {
	r.cache.Del(key)
}

func (r *Ristretto) Clear() {
	r.cache.Clear()
}

func (r *Ristretto) Stats() Stats {
	m := r.cache.Metrics
	return Stats{
		Hits:      m.Hits(),
		Misses:    m.Misses(),
		KeysAdded: m.KeysAdded(),
		Evictions: m.KeysEvicted(),
		Items:     int64(m.KeysAdded() - m.KeysEvicted()),
	}
}

// Close releases the cache goroutines.
func (r *Ristretto) Close() {
	r.cache.Close()
}
