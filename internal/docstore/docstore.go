// Package docstore defines the document-store contract the exercise core persists through.
//
// A Collection groups documents addressed by store-assigned identifiers. Backends live in
// sub-packages (memory, postgres, mongo, dgraph) and must be safe for concurrent use.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"maps"
)

// ErrNotFound is returned by OverwriteFields when the document does not exist.
var ErrNotFound = errors.New("document not found")

// Fields is the field mapping of a single document.
type Fields map[string]any

// Clone returns a shallow copy of the mapping.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// DecodeFields decodes a JSON object into Fields. Numbers are kept as json.Number
// so integers beyond 2^53 survive the round trip.
func DecodeFields(raw []byte) (Fields, error) {
	fields := Fields{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, nil
}

// Document is a stored field mapping together with its identifier.
type Document struct {
	ID     string
	Fields Fields
}

// Collection is one named group of documents.
type Collection interface {
	// Insert stores a new document and returns the identifier assigned by the store.
	Insert(ctx context.Context, fields Fields) (string, error)
	// FetchAll returns every document in the collection.
	FetchAll(ctx context.Context) ([]Document, error)
	// OverwriteFields replaces the given fields of an existing document, leaving others untouched.
	OverwriteFields(ctx context.Context, id string, fields Fields) error
	// Remove deletes the document. Removing an unknown id is not an error.
	Remove(ctx context.Context, id string) error
}
