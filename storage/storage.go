// Package storage implements the byte-oriented key-value persistence backend.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("storage: key not found")

// KeyValueStore is the blocking byte get/set substrate the stores persist
// through. Writes to the same key are linearized by every implementation;
// writes to different keys need no cross-locking.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
