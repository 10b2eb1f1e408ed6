package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is a process-local store holding JSON-encoded values so that
// readers never share mutable state with writers.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evictLocked()
	}
	m.entries[key] = memoryEntry{data: data, expires: m.now().Add(ttl)}
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return ErrCacheMiss
	}
	if !m.now().Before(entry.expires) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && !m.now().Before(current.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return ErrCacheMiss
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

// evictLocked drops expired entries, then the entry closest to expiry if
// the map is still full.
func (m *MemoryCache) evictLocked() {
	now := m.now()
	var oldestKey string
	var oldest time.Time
	for key, entry := range m.entries {
		if !now.Before(entry.expires) {
			delete(m.entries, key)
			continue
		}
		if oldestKey == "" || entry.expires.Before(oldest) {
			oldestKey, oldest = key, entry.expires
		}
	}
	if len(m.entries) >= m.maxEntries && oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"entries":     m.Len(),
		"max_entries": m.maxEntries,
	}
}
