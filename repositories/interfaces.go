package repositories

import (
	"context"
	"errors"
	"sort"
)

var (
	// ErrNoDocuments is returned by FindOne when no document matches the filter
	ErrNoDocuments = errors.New("no documents in result")

	// ErrDuplicateKey is returned when inserting a document whose id already exists
	ErrDuplicateKey = errors.New("duplicate key")
)

// IDField is the filter key addressing the document identifier
const IDField = "_id"

// Filter selects documents by equality on top-level fields.
// The IDField key matches the document identifier.
type Filter map[string]string

// ByID returns a filter matching a single document id
func ByID(id string) Filter {
	return Filter{IDField: id}
}

// With returns a copy of the filter with an additional equality condition
func (f Filter) With(field, value string) Filter {
	out := make(Filter, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out[field] = value
	return out
}

// Keys returns the filter keys in sorted order so backends build stable queries
func (f Filter) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UpdateResult mirrors the outcome of a replace or field update
type UpdateResult struct {
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DocumentStore is a document database keyed by opaque string identifiers.
// Implementations are safe for concurrent use and shared by all requests.
// Operations are atomic per document only.
type DocumentStore interface {
	// Find decodes all documents matching filter into out, a pointer to a slice.
	// An empty filter matches every document in the collection.
	Find(ctx context.Context, collection string, filter Filter, out interface{}) error

	// FindOne decodes the first matching document into out.
	// Returns ErrNoDocuments when nothing matches.
	FindOne(ctx context.Context, collection string, filter Filter, out interface{}) error

	// InsertOne stores doc under id. Returns ErrDuplicateKey if id is taken.
	InsertOne(ctx context.Context, collection string, id string, doc interface{}) error

	// ReplaceOne replaces the document matching filter with doc.
	// With upsert set and no match, doc is inserted under id.
	ReplaceOne(ctx context.Context, collection string, filter Filter, id string, doc interface{}, upsert bool) (UpdateResult, error)

	// SetFields overwrites the given top-level fields on the first matching document
	SetFields(ctx context.Context, collection string, filter Filter, fields map[string]interface{}) (UpdateResult, error)

	// DeleteOne removes the first matching document and returns the number deleted
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)

	// Ping checks connectivity to the backing store
	Ping(ctx context.Context) error

	// Close releases the underlying connection
	Close(ctx context.Context) error
}
