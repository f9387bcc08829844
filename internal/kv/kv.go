// Package kv provides the durable key-value port the journey repository
// persists through, with filesystem, SQLite, Redis and in-memory backends.
//
// Every backend stores opaque byte values under string keys. Writes of a
// single key are atomic at the backend level; there is no multi-key
// transaction support because callers only ever write one key.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when the key has never been written or
// has been deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence port.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ValidateKey rejects keys that cannot be used safely as a filename or
// SQL/Redis key across all backends.
func ValidateKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("kv: invalid key %q: use letters, digits, '.', '_' or '-'", key)
	}
	return nil
}
