package storage

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned by Get when no document has been stored
// under the requested name.
var ErrCollectionNotFound = errors.New("collection not found")

// Backend persists named collections as whole JSON documents. Every Set
// replaces the previous document; there are no partial updates.
type Backend interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, data []byte) error
}
