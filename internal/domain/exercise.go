// Package domain holds the exercise record, its document mapping and the service used by the API and CLI.
package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

// CollectionName is the document collection exercises are stored in.
const CollectionName = "exercises"

// Document field names.
const (
	fieldName     = "name"
	fieldDuration = "duration"
)

// Exercise is one stored exercise entry.
type Exercise struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// String renders the exercise for display only. It is never parsed back.
func (e Exercise) String() string {
	return fmt.Sprintf("%s => name: %s, duration: %d", e.ID, e.Name, e.DurationMinutes)
}

// Repository maps exercises onto a document collection.
type Repository struct {
	collection docstore.Collection
}

// NewRepository constructs a Repository over collection.
func NewRepository(collection docstore.Collection) *Repository {
	return &Repository{collection: collection}
}

// Add inserts a new exercise and returns the id assigned by the store.
func (r *Repository) Add(ctx context.Context, name string, durationMinutes int) (string, error) {
	id, err := r.collection.Insert(ctx, encodeFields(name, durationMinutes))
	if err != nil {
		return "", &StoreWriteError{Op: "add", Err: err}
	}
	return id, nil
}

// List fetches and decodes every exercise.
func (r *Repository) List(ctx context.Context) ([]Exercise, error) {
	docs, err := r.collection.FetchAll(ctx)
	if err != nil {
		return nil, &StoreReadError{Err: err}
	}

	exercises := make([]Exercise, 0, len(docs))
	for _, doc := range docs {
		exercise, err := decodeExercise(doc)
		if err != nil {
			return nil, &StoreReadError{Err: err}
		}
		exercises = append(exercises, exercise)
	}
	return exercises, nil
}

// Update overwrites both name and duration of an existing exercise.
func (r *Repository) Update(ctx context.Context, id, name string, durationMinutes int) error {
	if err := r.collection.OverwriteFields(ctx, id, encodeFields(name, durationMinutes)); err != nil {
		return &StoreWriteError{Op: "update", ID: id, Err: err}
	}
	return nil
}

// Delete removes an exercise. Unknown ids are not an error.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.collection.Remove(ctx, id); err != nil {
		return &StoreWriteError{Op: "delete", ID: id, Err: err}
	}
	return nil
}

func encodeFields(name string, durationMinutes int) docstore.Fields {
	return docstore.Fields{
		fieldName:     name,
		fieldDuration: durationMinutes,
	}
}

func decodeExercise(doc docstore.Document) (Exercise, error) {
	exercise := Exercise{ID: doc.ID}

	if raw, ok := doc.Fields[fieldName]; ok && raw != nil {
		name, ok := raw.(string)
		if !ok {
			return Exercise{}, fmt.Errorf("document %s: field %s has type %T", doc.ID, fieldName, raw)
		}
		exercise.Name = name
	}

	if raw, ok := doc.Fields[fieldDuration]; ok && raw != nil {
		minutes, err := coerceInt(raw)
		if err != nil {
			return Exercise{}, fmt.Errorf("document %s: field %s: %w", doc.ID, fieldDuration, err)
		}
		exercise.DurationMinutes = minutes
	}
	return exercise, nil
}

// coerceInt accepts the numeric representations the backends hand back.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("value %v out of range", f)
	}
	return int(f), nil
}
