package cache

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = 5 * time.Minute

type memoryItem struct {
	value      []byte
	expiration time.Time
}

func (i memoryItem) expired() bool {
	if i.expiration.IsZero() {
		return false
	}

	return time.Now().After(i.expiration)
}

// Memory is a thread-safe in-memory Backend. It stands in for the shared
// tier in single-process deployments and in tests.
type Memory struct {
	mu        sync.RWMutex
	items     map[string]memoryItem
	stopClean chan struct{}
	closeOnce sync.Once
}

// NewMemory creates an in-memory cache backend with a background janitor
// removing expired items.
func NewMemory() *Memory {
	m := &Memory{
		items:     make(map[string]memoryItem),
		stopClean: make(chan struct{}),
	}

	go m.cleanupLoop(defaultCleanupInterval)

	return m
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stopClean:
			return
		}
	}
}

func (m *Memory) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, item := range m.items {
		if item.expired() {
			delete(m.items, key)
		}
	}
}

// Get retrieves an item from the cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if item.expired() {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()

		return nil, false, nil
	}

	return item.value, true, nil
}

// Set stores an item with the specified TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiration = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()

	return nil
}

// Delete removes an item from the cache.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()

	return nil
}

// Flush clears all items from the cache.
func (m *Memory) Flush(_ context.Context) error {
	m.mu.Lock()
	m.items = make(map[string]memoryItem)
	m.mu.Unlock()

	return nil
}

// Close stops the janitor goroutine.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		close(m.stopClean)
	})

	return nil
}
