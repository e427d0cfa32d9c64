package domain

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/a010145456/FitTrackApp/internal/cache"
	"github.com/a010145456/FitTrackApp/internal/events"
	"github.com/a010145456/FitTrackApp/internal/observability"
)

// Publisher emits change events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload any) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

// Option configures a Service.
type Option func(*Service)

// WithInvalidator sets the cache invalidator used after writes.
func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *Service) {
		if inv != nil {
			s.cache = inv
		}
	}
}

// WithPublisher sets the change event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithLogger sets the logger for side-effect failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service is the entry point for collaborators that hold raw user input.
type Service struct {
	repo   *Repository
	cache  cache.Invalidator
	events Publisher
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo *Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		cache:  cache.NoopInvalidator{},
		events: noopPublisher{},
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddExercise parses input and stores a new exercise.
func (s *Service) AddExercise(ctx context.Context, in ExerciseInput) (Exercise, error) {
	name, minutes, err := ParseExerciseInput(in)
	if err != nil {
		return Exercise{}, err
	}

	id, err := s.repo.Add(ctx, name, minutes)
	if err != nil {
		return Exercise{}, err
	}

	exercise := Exercise{ID: id, Name: name, DurationMinutes: minutes}
	now := s.now()
	observability.RecordExerciseWrite(now)
	s.afterWrite(ctx, id, events.TypeExerciseAdded, events.ExerciseAdded{
		ExerciseID:      id,
		Name:            name,
		DurationMinutes: minutes,
		OccurredAt:      now,
	})
	return exercise, nil
}

// ListExercises returns every stored exercise.
func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	exercises, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	observability.RecordExerciseRead(s.now())
	return exercises, nil
}

// UpdateExercise parses input and overwrites the exercise's name and duration.
func (s *Service) UpdateExercise(ctx context.Context, id string, in ExerciseInput) (Exercise, error) {
	if strings.TrimSpace(id) == "" {
		return Exercise{}, &InvalidInputError{Field: "id", Value: id}
	}
	name, minutes, err := ParseExerciseInput(in)
	if err != nil {
		return Exercise{}, err
	}

	if err := s.repo.Update(ctx, id, name, minutes); err != nil {
		return Exercise{}, err
	}

	now := s.now()
	observability.RecordExerciseWrite(now)
	s.afterWrite(ctx, id, events.TypeExerciseUpdated, events.ExerciseUpdated{
		ExerciseID:      id,
		Name:            name,
		DurationMinutes: minutes,
		OccurredAt:      now,
	})
	return Exercise{ID: id, Name: name, DurationMinutes: minutes}, nil
}

// DeleteExercise removes an exercise. Unknown ids succeed.
func (s *Service) DeleteExercise(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &InvalidInputError{Field: "id", Value: id}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	now := s.now()
	observability.RecordExerciseWrite(now)
	s.afterWrite(ctx, id, events.TypeExerciseDeleted, events.ExerciseDeleted{
		ExerciseID: id,
		OccurredAt: now,
	})
	return nil
}

// afterWrite runs the post-write side effects. The store write already happened,
// so failures are logged and counted rather than returned.
func (s *Service) afterWrite(ctx context.Context, id, eventType string, payload any) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		observability.RecordSideEffectFailure("cache")
		s.logger.Warn("cache invalidation failed",
			zap.String("exercise_id", id),
			zap.Error(err),
		)
	}
	if err := s.events.Publish(ctx, eventType, id, payload); err != nil {
		observability.RecordSideEffectFailure("publish")
		s.logger.Warn("publish change event failed",
			zap.String("exercise_id", id),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
