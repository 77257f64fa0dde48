// Package storage is the persistence layer: a small key-value contract with
// file, redis and mongo backends, the versioned-schema cart adapter on top of
// it, and the ephemeral session/analytics stores. All date (de)serialization
// happens here and nowhere else; the rest of the module only sees time.Time.
package storage

import (
	"context"
	"errors"
)

// KV abstracts a durable key-value store holding whole records per key.
// Consumers define this interface, not a concrete backend.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrKeyNotFound = errors.New("key not found")
