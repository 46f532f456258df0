package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is the reference Store implementation. It keeps a serialized
// snapshot per session id, so Get always reconstructs a fresh record and
// mutations by one request can never alias another's in-memory state.
//
// It exists as the default and as a testing fixture. It is unsuitable for
// multi-process or production deployment: records live in one process and
// vanish on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates an in-memory session store. A positive
// sweepInterval starts a background sweep removing expired records;
// zero disables it (expired records are still invisible to Get).
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string][]byte),
		done:     make(chan struct{}),
	}

	if sweepInterval > 0 {
		store.ticker = time.NewTicker(sweepInterval)
		go store.sweepLoop()
	}

	return store
}

// Get retrieves the record for id. Expired records are treated as absent
// and removed.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	raw, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, err
	}

	if rec.Cookie != nil && rec.Cookie.Expired(time.Now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	return rec, nil
}

// Set overwrites the record for id with a serialized snapshot.
func (m *MemoryStore) Set(ctx context.Context, id string, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.sessions[id] = raw
	m.mu.Unlock()
	return nil
}

// Destroy removes the record for id. Destroying a non-existent id is a
// silent success.
func (m *MemoryStore) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Touch refreshes only the stored cookie metadata, keeping the persisted
// data as-is.
func (m *MemoryStore) Touch(ctx context.Context, id string, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, exists := m.sessions[id]
	if !exists {
		return nil
	}

	stored, err := decodeRecord(raw)
	if err != nil {
		return err
	}

	stored.Cookie = rec.Cookie
	updated, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	m.sessions[id] = updated
	return nil
}

// All returns every live record keyed by session id.
func (m *MemoryStore) All(ctx context.Context) (map[string]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	all := make(map[string]*Record, len(m.sessions))
	for id, raw := range m.sessions {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		if rec.Cookie != nil && rec.Cookie.Expired(now) {
			continue
		}
		all[id] = rec
	}
	return all, nil
}

// Len returns the number of stored records, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Clear removes all records.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	m.sessions = make(map[string][]byte)
	m.mu.Unlock()
}

// Close stops the sweep goroutine.
func (m *MemoryStore) Close() error {
	if m.ticker != nil {
		m.ticker.Stop()
		m.once.Do(func() { close(m.done) })
	}
	return nil
}

func (m *MemoryStore) sweepLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

// sweep removes entries whose cookie expiry has passed.
func (m *MemoryStore) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, raw := range m.sessions {
		rec, err := decodeRecord(raw)
		if err != nil {
			delete(m.sessions, id)
			continue
		}
		if rec.Cookie != nil && rec.Cookie.Expired(now) {
			delete(m.sessions, id)
		}
	}
}

func decodeRecord(raw []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if rec.Data == nil {
		rec.Data = make(map[string]any)
	}
	return &rec, nil
}
