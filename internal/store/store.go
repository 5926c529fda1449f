// Package store abstracts the shared state all engine instances act on: a
// path-addressed value store with snapshot reads, multi-path atomic updates
// and push notification on change. Backends are expected to be eventually
// consistent; admission decisions tolerate slightly stale reads.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists at the path.
var ErrNotFound = errors.New("no value at path")

// ChangeHandler receives the new value written at path. Handlers must not
// block; slow work belongs in the handler's own goroutine.
type ChangeHandler func(path string, value []byte)

// Store is the contract every backend must satisfy.
type Store interface {
	// Get returns a snapshot of the value at path, or ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)

	// Set writes a single value.
	Set(ctx context.Context, path string, value []byte) error

	// Update writes every entry of the batch atomically. Multi-field writes
	// that must land together (the scheduler's batch reset, the credit
	// sequence) go through Update to narrow the inconsistency window.
	Update(ctx context.Context, entries map[string][]byte) error

	// List returns all values whose path starts with prefix, keyed by path.
	List(ctx context.Context, prefix string) (map[string][]byte, error)

	// Delete removes the value at path. Deleting an absent path is not an error.
	Delete(ctx context.Context, path string) error

	// Subscribe registers a change handler for every path starting with
	// prefix and returns an unsubscribe function.
	Subscribe(prefix string, handler ChangeHandler) (unsubscribe func())

	Close()
}
