package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-process Cache used when no Redis address is configured.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value   string
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	item := memoryItem{value: fmt.Sprint(value)}
	if b, ok := value.([]byte); ok {
		item.value = string(b)
	}
	if expiration > 0 {
		item.expires = m.now().Add(expiration)
	}
	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.lookup(key)
	return item.value, ok, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lookup(key)
	return ok, nil
}

// lookup expects m.mu to be held.
func (m *Memory) lookup(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.items, key)
		return memoryItem{}, false
	}
	return item, true
}
