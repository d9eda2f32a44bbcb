// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Solving sessions are ephemeral: they hold a candidate set and nothing is written to disk.
//
// Characteristics:
//   - Stores *solver.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Entries expire ttl after Save (the lifetime of the session token); Sweep drops
//     them and Run sweeps periodically. State is lost when the process restarts.
//   - Errors are returned for missing or expired session IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle/internal/solver"
)

var ErrNotFound = errors.New("store: not found")

// Store defines the persistence interface for solving sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *solver.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (*solver.Session, error)

	// Delete forgets a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

type memEntry struct {
	session *solver.Session
	expires time.Time // zero: never
}

// MemoryStore is an in-memory map-based Store implementation.
type MemoryStore struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]memEntry // keyed by Session.ID
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store whose entries live for ttl after
// their last Save. ttl <= 0 keeps entries until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memEntry), ttl: ttl, now: time.Now}
}

// Save adds or updates the session in the map and restarts its lifetime.
func (m *MemoryStore) Save(ctx context.Context, s *solver.Session) error {
	e := memEntry{session: s}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = e
	return nil
}

// Get looks up a session by ID. Expired entries are reported as missing.
func (m *MemoryStore) Get(ctx context.Context, id string) (*solver.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || m.expired(e, m.now()) {
		return nil, ErrNotFound
	}
	return e.session, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len is the number of stored entries, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops expired entries and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Int("sessions", m.Len()).Msg("swept expired sessions")
			}
		}
	}
}

func (m *MemoryStore) expired(e memEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}
