// Package bootstrap wires configured backends into the collaborators used by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/a010145456/FitTrackApp/internal/config"
	"github.com/a010145456/FitTrackApp/internal/docstore"
	"github.com/a010145456/FitTrackApp/internal/docstore/dgraph"
	"github.com/a010145456/FitTrackApp/internal/docstore/memory"
	"github.com/a010145456/FitTrackApp/internal/docstore/mongo"
	"github.com/a010145456/FitTrackApp/internal/docstore/postgres"
)

// Store hands out instrumented collections from a single backend connection.
type Store struct {
	backend string
	open    func(name string) docstore.Collection
	close   func(ctx context.Context) error

	mu          sync.Mutex
	collections map[string]docstore.Collection
}

// OpenStore connects to the backend named by cfg.StoreBackend and prepares its schema.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Store{
		backend:     cfg.StoreBackend,
		close:       func(context.Context) error { return nil },
		collections: make(map[string]docstore.Collection),
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		s.open = func(string) docstore.Collection { return memory.NewCollection() }
		logger.Info("using in-memory document store")

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		s.open = func(name string) docstore.Collection { return postgres.NewCollection(pool, name) }
		s.close = func(context.Context) error {
			pool.Close()
			return nil
		}
		logger.Info("using postgres document store")

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		s.open = func(name string) docstore.Collection { return mongo.NewCollection(db, name) }
		s.close = client.Disconnect
		logger.Info("using mongo document store", zap.String("database", cfg.MongoDatabase))

	case config.BackendDgraph:
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		if err := dgraph.NewCollection(cfg.DgraphURL, "", timeout).ApplySchema(ctx); err != nil {
			return nil, fmt.Errorf("apply dgraph schema: %w", err)
		}
		s.open = func(name string) docstore.Collection { return dgraph.NewCollection(cfg.DgraphURL, name, timeout) }
		logger.Info("using dgraph document store", zap.String("url", cfg.DgraphURL))
	}

	return s, nil
}

// Backend names the backend in use.
func (s *Store) Backend() string { return s.backend }

// Collection returns the named collection wrapped with store metrics.
// Repeated calls with the same name share one instance.
func (s *Store) Collection(name string) docstore.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return c
	}
	c := docstore.Instrument(s.open(name), s.backend)
	s.collections[name] = c
	return c
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
