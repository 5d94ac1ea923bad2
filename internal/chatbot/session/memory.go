package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	mu      sync.Mutex
	state   State
	removed bool
}

// MemoryStore keeps sessions in process memory. Different ids never contend
// on the same lock; the map lock is held only to find or insert an entry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	now      func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (State, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return State{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, id string) (State, error) {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*State) error) (State, error) {
	for {
		out, retry, err := s.updateEntry(s.entry(id), fn)
		if retry {
			continue
		}
		return out, err
	}
}

// updateEntry applies fn under e's lock. retry is true when e was swept
// between lookup and lock.
func (s *MemoryStore) updateEntry(e *memoryEntry, fn func(*State) error) (out State, retry bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return State{}, true, nil
	}

	next := e.state.Clone()
	if err := fn(&next); err != nil {
		return State{}, false, err
	}
	next.UpdatedAt = s.now()
	e.state = next
	return next.Clone(), false, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
	}
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, idleFor time.Duration) (int, error) {
	cutoff := s.now().Add(-idleFor)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		if e.state.UpdatedAt.Before(cutoff) {
			e.removed = true
			delete(s.sessions, id)
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted, nil
}

func (s *MemoryStore) Len(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// entry returns the entry for id, creating it if absent.
func (s *MemoryStore) entry(id string) *memoryEntry {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		return e
	}
	e = &memoryEntry{state: newState(s.now())}
	s.sessions[id] = e
	return e
}
