// Package session keeps per-conversation follow-up state behind a Store
// interface so the responder can run against memory, Redis or PostgreSQL.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for an unknown session id.
var ErrNotFound = errors.New("SESSION_NOT_FOUND")

// State is one conversation. FollowUpCount is the follow-up stage, 0 to 3.
type State struct {
	CurrentIntent string                 `json:"current_intent,omitempty"`
	FollowUpCount int                    `json:"follow_up_count"`
	Context       map[string]interface{} `json:"context,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func newState(now time.Time) State {
	return State{Context: map[string]interface{}{}, CreatedAt: now, UpdatedAt: now}
}

// Clone returns a copy that shares nothing mutable with s.
func (s State) Clone() State {
	out := s
	out.Context = make(map[string]interface{}, len(s.Context))
	for k, v := range s.Context {
		out.Context[k] = v
	}
	return out
}

// Store is the session registry. Update is the only mutation path used by
// the responder; fn runs with exclusive access to the session and, if it
// returns an error, nothing is written.
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	// Create returns the existing state if id is already known.
	Create(ctx context.Context, id string) (State, error)
	// Update creates the session if needed, then applies fn atomically.
	Update(ctx context.Context, id string, fn func(*State) error) (State, error)
	Delete(ctx context.Context, id string) error
	// Sweep drops sessions idle for longer than idleFor and reports how many.
	Sweep(ctx context.Context, idleFor time.Duration) (int, error)
	Len(ctx context.Context) (int, error)
}
