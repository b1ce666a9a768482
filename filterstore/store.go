package filterstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a named filter does not exist in the store.
//
// Implementations must return an error that satisfies
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("filter not found")

// Store is an abstraction for persisting serialized filters by name.
// Names may contain "/" separators; backends map them to their own notion
// of hierarchy (directories, object key prefixes).
type Store interface {
	// Get returns the stored bytes for name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put stores data under name, replacing any previous value atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes name. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
