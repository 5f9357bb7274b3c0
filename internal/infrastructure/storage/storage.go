// Package storage provides the key/value "local storage" that the session
// layer persists its token and user profile into.
//
// Three backends are available: an in-process map, a bbolt file for
// persistence across CLI invocations, and Redis for sharing one session
// between several client processes.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by GetItem when no value is stored under the key
var ErrKeyNotFound = errors.New("key not found")

// LocalStorage is a string key/value store with browser localStorage semantics.
// Implementations are safe for concurrent use.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes the key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
	Close() error
}
