//go:build integration

package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/consumer"
	"github.com/a010145456/FitTrackApp/internal/docstore"
	"github.com/a010145456/FitTrackApp/internal/docstore/memory"
	"github.com/a010145456/FitTrackApp/internal/events"
	"github.com/a010145456/FitTrackApp/internal/testsupport"
)

func TestPublishedEventsReachAuditCollection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	broker := testsupport.StartKafka(ctx, t)
	topic := "exercise_events"

	conn, err := kafka.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))

	changes := memory.NewCollection()
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{broker},
		GroupID:     "fittrack-integration",
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	defer reader.Close()

	consumerCtx, stop := context.WithCancel(ctx)
	defer stop()
	proc := consumer.NewProcessor(reader, consumer.NewAuditHandler(changes))
	go func() {
		_ = proc.Run(consumerCtx)
	}()

	pub := NewKafka([]string{broker}, topic, "integration-test")
	defer pub.Close()

	added := events.ExerciseAdded{ExerciseID: "ex-int", Name: "Farmer Carry", DurationMinutes: 8, OccurredAt: time.Now().UTC()}
	require.NoError(t, pub.Publish(ctx, events.TypeExerciseAdded, added.ExerciseID, added))
	deleted := events.ExerciseDeleted{ExerciseID: "ex-int", OccurredAt: time.Now().UTC()}
	require.NoError(t, pub.Publish(ctx, events.TypeExerciseDeleted, deleted.ExerciseID, deleted))

	var docs []docstore.Document
	require.Eventually(t, func() bool {
		docs, err = changes.FetchAll(ctx)
		return err == nil && len(docs) == 2
	}, 60*time.Second, 500*time.Millisecond)

	seen := map[string]bool{}
	for _, doc := range docs {
		require.Equal(t, "ex-int", doc.Fields["exercise_id"])
		require.Equal(t, "integration-test", doc.Fields["source"])
		seen[doc.Fields["event_type"].(string)] = true
	}
	require.True(t, seen[events.TypeExerciseAdded])
	require.True(t, seen[events.TypeExerciseDeleted])
}
