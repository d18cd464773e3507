package ports

import (
	"context"

	"shipbook/internal/core/domain/model/booking"
	"shipbook/internal/core/domain/model/kernel"
)

// SessionStore holds in-flight booking drafts keyed by draft id. A draft
// lives here from StartBooking until its order is confirmed or the session
// expires; it is never persisted to the database.
type SessionStore interface {
	// Add stores a freshly started draft.
	// Fails if a draft with the same id already exists.
	Add(ctx context.Context, draft *booking.Draft) error

	// Get returns the draft for the given id.
	// Returns errs.ObjectNotFoundError when the session is unknown.
	Get(ctx context.Context, id kernel.UUID) (*booking.Draft, error)

	// Mutate runs fn against the draft under the session's write lock and
	// stores the result. fn returning an error aborts the mutation and the
	// stored draft is left unchanged. Concurrent Mutate calls for the same
	// session serialize; different sessions do not block each other.
	Mutate(ctx context.Context, id kernel.UUID, fn func(*booking.Draft) error) error

	// Delete removes the draft. Deleting an unknown session is a no-op.
	Delete(ctx context.Context, id kernel.UUID) error
}
