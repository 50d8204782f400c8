package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session id has never been seen. The
// transport layer maps it to a 404 rather than defaulting to an empty
// report, so client bugs don't masquerade as empty intelligence.
var ErrNotFound = errors.New("session not found")

// Store holds session records keyed by session id.
//
// Mutate serializes concurrent callers for the same session id, which
// is what keeps the turn counter monotone under concurrent requests.
// Different session ids proceed fully in parallel. No iteration or
// eviction is part of the contract; capacity management belongs to
// external collaborators.
type Store interface {
	// Mutate fetches or creates the record for sessionID, applies fn
	// under the per-session lock, persists the result, and returns a
	// snapshot safe to read without further locking.
	Mutate(ctx context.Context, sessionID string, fn func(*Record)) (*Record, error)

	// Get returns a snapshot of an existing session, or ErrNotFound.
	Get(ctx context.Context, sessionID string) (*Record, error)

	Close()
}
