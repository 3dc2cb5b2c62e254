package storage

import (
	"sync"
	"time"
)

// memoryStore keeps announced IDs for the life of the process.
type memoryStore struct {
	mu          sync.Mutex
	ttl         time.Duration
	cleanup     time.Duration
	expires     map[string]time.Time
	lastCleanup time.Time
	now         func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		ttl:     opts.ItemTTL,
		cleanup: opts.CleanupInterval,
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) SeenItem(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	exp, ok := m.expires[id]
	return ok && now.Before(exp), nil
}

func (m *memoryStore) MarkItem(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.expires[id] = now.Add(m.ttl)
	m.sweep(now)
	return nil
}

// sweep drops expired IDs at most once per cleanup interval. Callers hold mu.
func (m *memoryStore) sweep(now time.Time) {
	if now.Sub(m.lastCleanup) < m.cleanup {
		return
	}
	m.lastCleanup = now
	for id, exp := range m.expires {
		if !now.Before(exp) {
			delete(m.expires, id)
		}
	}
}
