package docstore

import (
	"context"
	"time"

	"github.com/a010145456/FitTrackApp/internal/observability"
)

// Instrumented decorates a Collection with Prometheus operation metrics.
type Instrumented struct {
	next    Collection
	backend string
}

var _ Collection = (*Instrumented)(nil)

// Instrument wraps next, labelling its metrics with backend.
func Instrument(next Collection, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend}
}

// Insert implements Collection.
func (i *Instrumented) Insert(ctx context.Context, fields Fields) (string, error) {
	start := time.Now()
	id, err := i.next.Insert(ctx, fields)
	observability.RecordStoreOperation(i.backend, "insert", time.Since(start), err)
	return id, err
}

// FetchAll implements Collection.
func (i *Instrumented) FetchAll(ctx context.Context) ([]Document, error) {
	start := time.Now()
	docs, err := i.next.FetchAll(ctx)
	observability.RecordStoreOperation(i.backend, "fetch_all", time.Since(start), err)
	return docs, err
}

// OverwriteFields implements Collection.
func (i *Instrumented) OverwriteFields(ctx context.Context, id string, fields Fields) error {
	start := time.Now()
	err := i.next.OverwriteFields(ctx, id, fields)
	observability.RecordStoreOperation(i.backend, "overwrite_fields", time.Since(start), err)
	return err
}

// Remove implements Collection.
func (i *Instrumented) Remove(ctx context.Context, id string) error {
	start := time.Now()
	err := i.next.Remove(ctx, id)
	observability.RecordStoreOperation(i.backend, "remove", time.Since(start), err)
	return err
}
