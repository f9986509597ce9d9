// Package kvstore persists named JSON documents, the way a browser's local storage does.
package kvstore

import (
	"context"

	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is a flat string-keyed document store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// PutMulti writes all pairs atomically.
	PutMulti(ctx context.Context, pairs map[string][]byte) error
	// Delete removes the keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
