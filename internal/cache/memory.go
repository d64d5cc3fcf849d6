package cache

import (
	"sync"
	"time"
)

// Memory is an unbounded map-backed cache used in tests and when the
// ristretto cache cannot be created.
type Memory struct {
	mu     sync.Mutex
	data   map[string]memoryItem
	hits   uint64
	misses uint64
	added  uint64
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty Memory cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]memoryItem)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.data[key]
	if !ok || (!it.expiresAt.IsZero() && time.Now().After(it.expiresAt)) {
		delete(m.data, key)
		m.misses++
		return nil, false
	}
	m.hits++
	return it.value, true
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := memoryItem{value: value}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	m.data[key] = it
	m.added++
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

func (m *Memory) Clear() {
	m.mu.Lock()
	m.data = make(map[string]memoryItem)
	m.mu.Unlock()
}

func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Hits: m.hits, Misses: m.misses, KeysAdded: m.added, Items: int64(len(m.data))}
}
