// Package memory provides an in-process document collection for local development and tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

// Collection stores documents in memory.
type Collection struct {
	mu        sync.RWMutex
	documents map[string]docstore.Fields
}

var _ docstore.Collection = (*Collection)(nil)

// NewCollection constructs an empty collection.
func NewCollection() *Collection {
	return &Collection{documents: make(map[string]docstore.Fields)}
}

// Insert implements docstore.Collection.
func (c *Collection) Insert(ctx context.Context, fields docstore.Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()
	c.documents[id] = fields.Clone()
	return id, nil
}

// FetchAll returns a snapshot of every document ordered by id.
func (c *Collection) FetchAll(ctx context.Context) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]docstore.Document, 0, len(c.documents))
	for id, fields := range c.documents {
		out = append(out, docstore.Document{ID: id, Fields: fields.Clone()})
	}
	slices.SortFunc(out, func(a, b docstore.Document) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// OverwriteFields merges fields into an existing document.
func (c *Collection) OverwriteFields(ctx context.Context, id string, fields docstore.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.documents[id]
	if !ok {
		return docstore.ErrNotFound
	}
	merged := existing.Clone()
	for k, v := range fields {
		merged[k] = v
	}
	c.documents[id] = merged
	return nil
}

// Remove deletes the document if present.
func (c *Collection) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.documents, id)
	return nil
}

// Len reports the number of stored documents.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.documents)
}
