// Package docstore defines the document store contract the repositories are
// built on: named documents of typed fields, addressed by slash-separated
// paths, grouped into collections, with per-document atomic operations and
// server-assigned timestamps.
//
// All failures unrelated to the contract (transport, availability) propagate
// as ordinary errors; the contract-level outcomes use the sentinels in
// internal/common and must be matched with errors.Is.
package docstore

import (
	"context"
	"strings"
	"time"
)

// Fields is one document's field mapping. Supported value types are string,
// bool, Timestamp (reads) and the ServerTimestamp sentinel (writes).
type Fields map[string]any

// sentinel is the type of the ServerTimestamp marker. It carries no data;
// stores replace it with the commit-time server clock.
type sentinel int

// ServerTimestamp marks a field to be filled in by the store at write time.
const ServerTimestamp sentinel = 0

// Timestamp is a server-assigned time value. Until the store has resolved it
// (a read of your own write may observe this), it is pending. The zero value
// is pending.
type Timestamp struct {
	resolved bool
	t        time.Time
}

// ResolvedAt returns a resolved Timestamp for the given instant.
func ResolvedAt(t time.Time) Timestamp {
	return Timestamp{resolved: true, t: t}
}

// IsPending reports whether the store has not yet assigned the value.
func (ts Timestamp) IsPending() bool {
	return !ts.resolved
}

// Time returns the resolved instant; the zero time while pending.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// Document pairs a store-assigned id with the document's fields.
type Document struct {
	ID     string
	Fields Fields
}

// Store is the document store contract. Implementations must be safe for use
// by a single session at a time; cross-process writers race with
// last-writer-wins semantics on whole write payloads.
type Store interface {
	// Get returns the fields of the document at path, or common.ErrorNotFound.
	Get(ctx context.Context, path string) (Fields, error)

	// Set writes the document at path, replacing any existing fields.
	Set(ctx context.Context, path string, fields Fields) error

	// Create writes the document at path only if it does not exist yet;
	// fails with common.ErrorAlreadyExists otherwise.
	Create(ctx context.Context, path string, fields Fields) error

	// Update merges only the given fields into the existing document at path,
	// leaving the rest untouched. Fails with common.ErrorNotFound if the
	// document does not exist.
	Update(ctx context.Context, path string, partial Fields) error

	// Delete removes the document at path. Deleting a missing document is
	// not an error.
	Delete(ctx context.Context, path string) error

	// Add writes a new document into the collection under a store-generated
	// id and returns that id.
	Add(ctx context.Context, collection string, fields Fields) (string, error)

	// ListChildren returns the documents of the collection ordered by the
	// named field, ascending; ties keep store insertion order.
	ListChildren(ctx context.Context, collection string, orderBy string) ([]Document, error)

	// Close releases the underlying client.
	Close() error
}

// SplitPath splits a document path into its collection path and document id.
func SplitPath(path string) (collection, id string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
