// Package blob stores each tenant collection as a single JSON array under a
// string key. Every write rewrites the whole collection.
package blob

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("blob: key not found")

// KV is the byte store underneath a Source.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

const (
	KeyProperties   = "properties"
	KeyReservations = "reservations"
	KeySubUsers     = "subUsers"
)
