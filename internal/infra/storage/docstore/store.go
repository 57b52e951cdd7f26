// Package docstore serves tenant data from a remote document database. The
// Store port keeps the access pattern to single-document reads, equality
// queries and whole-document writes.
package docstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("docstore: document not found")

const (
	CollectionProperties   = "properties"
	CollectionReservations = "reservations"
	CollectionSubUsers     = "subUsers"
	CollectionUsers        = "users"
)

// Store is implemented by the Mongo and in-memory backends. Documents are
// bson-tagged structs whose `_id` equals the id argument.
type Store interface {
	// Get decodes the document into out or returns ErrNotFound.
	Get(ctx context.Context, collection, id string, out any) error
	// Set inserts or replaces the whole document.
	Set(ctx context.Context, collection, id string, doc any) error
	// Update sets the given top-level fields on an existing document.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// Find decodes every document whose field equals value into out, a
	// pointer to a slice.
	Find(ctx context.Context, collection, field string, value any, out any) error
	// DeleteWhere removes every document whose field equals value.
	DeleteWhere(ctx context.Context, collection, field string, value any) (int, error)
}
