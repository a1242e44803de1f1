package store

import (
	"context"
	"errors"
)

// MaxInValues is the largest number of literals a single WhereIn query may
// carry. Firestore rejects 'in' filters with more than 10 values, so callers
// batch above this.
const MaxInValues = 10

// ErrTooManyInValues is returned by WhereIn when the value list exceeds
// MaxInValues.
var ErrTooManyInValues = errors.New("store: 'in' filter limited to 10 values per query")

// serverTimestamp is the sentinel type behind ServerTimestamp.
type serverTimestamp struct{}

// ServerTimestamp marks a field to be filled with the store's own write
// timestamp. Each implementation translates it before persisting.
var ServerTimestamp = serverTimestamp{}

// Doc is a single document: its id plus the raw field map.
type Doc struct {
	ID   string
	Data map[string]any
}

// Store is the document-store boundary. Handlers receive a Store instead of
// a concrete client so tests can substitute the in-memory implementation.
type Store interface {
	// All streams every document in a collection.
	All(ctx context.Context, collection string) ([]Doc, error)

	// Get fetches one document by id. A missing document is (nil, nil),
	// not an error.
	Get(ctx context.Context, collection, id string) (*Doc, error)

	// Where returns documents whose field equals value. A limit <= 0 means
	// no limit.
	Where(ctx context.Context, collection, field string, value any, limit int) ([]Doc, error)

	// WhereIn returns documents whose field matches any of values. The
	// value list must not exceed MaxInValues.
	WhereIn(ctx context.Context, collection, field string, values []any) ([]Doc, error)

	// Create writes a new document and returns its id. An empty id asks the
	// store to generate one.
	Create(ctx context.Context, collection, id string, data map[string]any) (string, error)

	// Update merges fields into an existing document.
	Update(ctx context.Context, collection, id string, data map[string]any) error

	// NextSequence atomically increments and returns the named counter.
	// A counter that does not exist yet is initialised to seed.
	NextSequence(ctx context.Context, name string, seed int64) (int64, error)
}
