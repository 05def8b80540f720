package chat

import (
	"context"
	"sync"
	"time"
)

// Store keeps one in-memory session per browser. Sessions idle longer than
// the TTL are dropped by Sweep.
type Store struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	newSession func() *Session
	ttl        time.Duration
}

// NewStore creates a store that builds sessions with factory. A zero ttl
// disables expiry.
func NewStore(factory func() *Session, ttl time.Duration) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		newSession: factory,
		ttl:        ttl,
	}
}

// Get looks up a session by ID
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

// GetOrCreate returns the session for id, creating a new one (with a fresh
// ID) when id is empty or unknown. created reports which happened.
func (s *Store) GetOrCreate(id string) (session *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if existing, ok := s.sessions[id]; ok {
			existing.Touch()
			return existing, false
		}
	}

	session = s.newSession()
	s.sessions[session.ID()] = session
	return session, true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle since before now-ttl and returns how many
// were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.LastActive().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			removed := s.Sweep(t)
			if removed > 0 && onSweep != nil {
				onSweep(removed)
			}
		}
	}
}
