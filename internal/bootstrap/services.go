package bootstrap

import (
	"go.uber.org/zap"

	"github.com/a010145456/FitTrackApp/internal/cache"
	"github.com/a010145456/FitTrackApp/internal/config"
	"github.com/a010145456/FitTrackApp/internal/domain"
	"github.com/a010145456/FitTrackApp/internal/publisher"
)

// Publisher is a domain.Publisher that may hold a broker connection.
type Publisher interface {
	domain.Publisher
	Close() error
}

// NewInvalidator returns the HTTP invalidator when CACHE_INVALIDATION_URL is set.
func NewInvalidator(cfg config.Config, logger *zap.Logger) cache.Invalidator {
	if cfg.CacheInvalidationURL == "" {
		return cache.NoopInvalidator{}
	}
	if logger != nil {
		logger.Info("cache invalidator enabled", zap.String("url", cfg.CacheInvalidationURL))
	}
	return cache.NewHTTPInvalidator(cfg.CacheInvalidationURL, cfg.CacheInvalidationToken, cfg.HTTPTimeout)
}

// NewPublisher returns a Kafka publisher when EVENTS_ENABLED is set.
func NewPublisher(cfg config.Config, source string, logger *zap.Logger) Publisher {
	if !cfg.EventsEnabled {
		return publisher.Noop{}
	}
	if logger != nil {
		logger.Info("change events enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.EventsTopic),
		)
	}
	return publisher.NewKafka(cfg.KafkaBrokers, cfg.EventsTopic, source)
}

// NewService assembles the exercise service over the configured exercise collection.
func NewService(store *Store, cfg config.Config, pub domain.Publisher, logger *zap.Logger) *domain.Service {
	name := cfg.CollectionName
	if name == "" {
		name = domain.CollectionName
	}
	repo := domain.NewRepository(store.Collection(name))
	return domain.NewService(repo,
		domain.WithInvalidator(NewInvalidator(cfg, logger)),
		domain.WithPublisher(pub),
		domain.WithLogger(logger),
	)
}
