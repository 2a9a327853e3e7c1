package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore mantém sessões no próprio processo; usado quando REDIS_URL não é definido.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	data    Data
	expires time.Time
}

// NewMemoryStore cria store vazio.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.items[id]
	if !ok {
		return Data{}, ErrNotFound
	}
	if m.now().After(entry.expires) {
		delete(m.items, id)
		return Data{}, ErrNotFound
	}
	return cloneData(entry.data), nil
}

func (m *MemoryStore) Set(ctx context.Context, id string, data Data, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.items[id] = memoryEntry{data: cloneData(data), expires: now.Add(ttl)}

	for k, entry := range m.items {
		if now.After(entry.expires) {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Len devolve o número de sessões guardadas.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func cloneData(d Data) Data {
	if d.Flashes != nil {
		d.Flashes = append([]Flash(nil), d.Flashes...)
	}
	return d
}
