package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

// AuditHandler records every change event as a document in an audit collection.
type AuditHandler struct {
	changes docstore.Collection
	now     func() time.Time
}

// NewAuditHandler constructs a handler writing into changes.
func NewAuditHandler(changes docstore.Collection) *AuditHandler {
	return &AuditHandler{
		changes: changes,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Handle stores the event type, exercise id and decoded payload. Payloads that
// are not JSON objects are rejected with ErrMalformed.
func (h *AuditHandler) Handle(ctx context.Context, msg Message) error {
	var payload map[string]any
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w: %w", msg.EventType, ErrMalformed, err)
	}

	exerciseID := msg.Key
	if exerciseID == "" {
		exerciseID, _ = payload["exercise_id"].(string)
	}

	_, err := h.changes.Insert(ctx, docstore.Fields{
		"event_type":  msg.EventType,
		"exercise_id": exerciseID,
		"source":      msg.Source,
		"topic":       msg.Topic,
		"offset":      msg.Offset,
		"payload":     payload,
		"received_at": h.now().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("record %s for %s: %w", msg.EventType, exerciseID, err)
	}
	return nil
}
