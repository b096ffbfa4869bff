// Package docstore provides a keyed hierarchical document store addressed by
// slash-delimited paths, the only persistence primitive the engine depends on.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound is returned when no document exists at a path
	ErrNotFound = errors.New("document not found")
	// ErrPathExists is returned by Create when a document already exists.
	// It is the single-key serialization primitive resolution relies on.
	ErrPathExists = errors.New("document already exists at path")
)

// Store is the minimal hierarchical document store interface. Paths are
// slash-delimited, e.g. "Deposits/ApprovedDeposits/{memberId}/{txnId}".
// No cross-path transactions are offered.
type Store interface {
	// Get decodes the document at path into out
	Get(ctx context.Context, path string, out interface{}) error
	// Set writes the document at path, replacing any existing one
	Set(ctx context.Context, path string, doc interface{}) error
	// Create writes the document only if the path is vacant, failing with
	// ErrPathExists otherwise. Atomic on a single path.
	Create(ctx context.Context, path string, doc interface{}) error
	// Update merges partial into the existing document at path
	Update(ctx context.Context, path string, partial map[string]interface{}) error
	// List returns the immediate children of a collection path, keyed by
	// the child path segment. Missing collections list as empty.
	List(ctx context.Context, path string) (map[string]json.RawMessage, error)
	// ListAll returns every document below a path, keyed by relative path.
	// Used to flatten nested per-member collections.
	ListAll(ctx context.Context, path string) (map[string]json.RawMessage, error)
	// Delete removes the document at path; deleting a vacant path is a no-op
	Delete(ctx context.Context, path string) error
}
