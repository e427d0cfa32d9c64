package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/events"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func newTestPublisher(w *recordingWriter) *Kafka {
	return &Kafka{topic: "exercise_events", source: "test", newFn: func() messageWriter { return w }}
}

func TestPublishWritesHeadersAndJSON(t *testing.T) {
	w := &recordingWriter{}
	p := newTestPublisher(w)

	evt := events.ExerciseAdded{
		ExerciseID:      "ex-1",
		Name:            "Plank",
		DurationMinutes: 3,
		OccurredAt:      time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), events.TypeExerciseAdded, evt.ExerciseID, evt))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	require.Equal(t, "ex-1", string(msg.Key))
	require.JSONEq(t, `{"exercise_id":"ex-1","name":"Plank","duration_minutes":3,"occurred_at":"2026-01-02T03:04:05Z"}`, string(msg.Value))
	require.Equal(t, []kafka.Header{
		{Key: "event_type", Value: []byte(events.TypeExerciseAdded)},
		{Key: "source", Value: []byte("test")},
	}, msg.Headers)
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := newTestPublisher(&recordingWriter{err: boom})

	err := p.Publish(context.Background(), events.TypeExerciseDeleted, "ex-1", events.ExerciseDeleted{ExerciseID: "ex-1"})
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "exercise_events")
}

func TestCloseWithoutWriter(t *testing.T) {
	p := NewKafka([]string{"localhost:9092"}, "exercise_events", "test")
	require.NoError(t, p.Close())
}

func TestCloseReleasesWriter(t *testing.T) {
	w := &recordingWriter{}
	p := newTestPublisher(w)
	require.NoError(t, p.Publish(context.Background(), events.TypeExerciseDeleted, "ex-1", events.ExerciseDeleted{ExerciseID: "ex-1"}))
	require.NoError(t, p.Close())
	require.True(t, w.closed)
}
