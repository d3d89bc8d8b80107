package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound indicates no document is stored under the key
var ErrObjectNotFound = errors.New("object not found")

// KernelStore persists published kernel documents
type KernelStore interface {
	Put(ctx context.Context, key string, doc []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Name() string
}
