package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/docstore"
	"github.com/a010145456/FitTrackApp/internal/docstore/memory"
)

func TestAuditHandlerRecordsChange(t *testing.T) {
	changes := memory.NewCollection()
	handler := NewAuditHandler(changes)
	handler.now = func() time.Time { return time.Date(2026, time.May, 4, 8, 30, 0, 0, time.UTC) }

	err := handler.Handle(context.Background(), Message{
		Topic:     "exercise_events",
		Offset:    7,
		Key:       "ex-9",
		EventType: "exercise.updated",
		Source:    "fittrack-api",
		Payload:   json.RawMessage(`{"exercise_id":"ex-9","name":"Row","duration_minutes":12}`),
	})
	require.NoError(t, err)

	docs, err := changes.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	fields := docs[0].Fields
	assert.Equal(t, "exercise.updated", fields["event_type"])
	assert.Equal(t, "ex-9", fields["exercise_id"])
	assert.Equal(t, "2026-05-04T08:30:00Z", fields["received_at"])
	assert.Equal(t, map[string]any{"exercise_id": "ex-9", "name": "Row", "duration_minutes": float64(12)}, fields["payload"])
}

func TestAuditHandlerFallsBackToPayloadID(t *testing.T) {
	changes := memory.NewCollection()
	err := NewAuditHandler(changes).Handle(context.Background(), Message{
		EventType: "exercise.deleted",
		Payload:   json.RawMessage(`{"exercise_id":"ex-3"}`),
	})
	require.NoError(t, err)

	docs, err := changes.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "ex-3", docs[0].Fields["exercise_id"])
}

func TestAuditHandlerRejectsNonObjectPayload(t *testing.T) {
	err := NewAuditHandler(memory.NewCollection()).Handle(context.Background(), Message{
		EventType: "exercise.added",
		Payload:   json.RawMessage(`[1,2]`),
	})
	require.ErrorContains(t, err, "decode exercise.added payload")
	require.ErrorIs(t, err, ErrMalformed)
}

type failingCollection struct {
	docstore.Collection
}

func (failingCollection) Insert(context.Context, docstore.Fields) (string, error) {
	return "", errors.New("disk full")
}

func TestAuditHandlerSurfacesStoreErrors(t *testing.T) {
	err := NewAuditHandler(failingCollection{}).Handle(context.Background(), Message{
		Key:       "ex-1",
		EventType: "exercise.added",
		Payload:   json.RawMessage(`{}`),
	})
	require.ErrorContains(t, err, "disk full")
	require.ErrorContains(t, err, "ex-1")
	require.NotErrorIs(t, err, ErrMalformed)
}
