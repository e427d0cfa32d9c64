// Package events defines the exercise change payloads written to Kafka.
package events

import "time"

// Event types carried in the event_type header.
const (
	TypeExerciseAdded   = "exercise.added"
	TypeExerciseUpdated = "exercise.updated"
	TypeExerciseDeleted = "exercise.deleted"
)

// ExerciseAdded is emitted when an exercise is created.
type ExerciseAdded struct {
	ExerciseID      string    `json:"exercise_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ExerciseUpdated is emitted when an exercise's name and duration are overwritten.
type ExerciseUpdated struct {
	ExerciseID      string    `json:"exercise_id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ExerciseDeleted is emitted when an exercise is removed.
type ExerciseDeleted struct {
	ExerciseID string    `json:"exercise_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
