// Package memsession keeps in-flight booking drafts in process memory.
// Drafts are working state, not records: they exist between starting a
// booking and its order being confirmed, and are lost on restart, which is
// acceptable because the payer simply starts over.
package memsession

import (
	"context"
	"sync"

	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
	"shipbook/internal/pkg/errs"
)

type entry struct {
	mu    sync.Mutex
	draft *booking.Draft
}

// Store implements ports.SessionStore. A per-session mutex serializes
// mutations of one draft; different sessions never block each other.
type Store struct {
	mu      sync.RWMutex
	entries map[kernel.UUID]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[kernel.UUID]*entry)}
}

// Add stores a freshly started draft. Fails if the id is already taken.
func (s *Store) Add(_ context.Context, draft *booking.Draft) error {
	if draft == nil {
		return errs.NewValueIsRequiredError("draft")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[draft.ID()]; exists {
		return errs.NewValueIsInvalidError("draft.ID")
	}

	s.entries[draft.ID()] = &entry{draft: draft}
	return nil
}

// Get returns the draft for the given id.
func (s *Store) Get(_ context.Context, id kernel.UUID) (*booking.Draft, error) {
	s.mu.RLock()
	e, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists {
		return nil, errs.NewObjectNotFoundError("booking", id.String())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft, nil
}

// Mutate runs fn against the draft under the session's write lock. fn
// returning an error aborts the mutation; any state fn already changed on
// the draft is the caller's responsibility to leave consistent.
func (s *Store) Mutate(_ context.Context, id kernel.UUID, fn func(*booking.Draft) error) error {
	s.mu.RLock()
	e, exists := s.entries[id]
	s.mu.RUnlock()

	if !exists {
		return errs.NewObjectNotFoundError("booking", id.String())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.draft)
}

// Delete removes the draft. Unknown ids are a no-op.
func (s *Store) Delete(_ context.Context, id kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}
