//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/docstore"
	"github.com/a010145456/FitTrackApp/internal/docstore/docstoretest"
	"github.com/a010145456/FitTrackApp/internal/testsupport"
)

func TestCollectionContract(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	connStr := testsupport.StartPostgres(ctx, t)
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	require.NoError(t, EnsureSchema(ctx, pool), "schema must be idempotent")

	docstoretest.RunContract(t, func(t *testing.T) docstore.Collection {
		return NewCollection(pool, "contract-"+uuid.NewString())
	})
}

func TestCollectionsArePartitioned(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, testsupport.StartPostgres(ctx, t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(ctx, pool))

	exercises := NewCollection(pool, "exercises")
	changes := NewCollection(pool, "exercise_changes")

	id, err := exercises.Insert(ctx, docstore.Fields{"name": "Row", "duration": 5})
	require.NoError(t, err)

	docs, err := changes.FetchAll(ctx)
	require.NoError(t, err)
	require.Empty(t, docs)

	require.ErrorIs(t, changes.OverwriteFields(ctx, id, docstore.Fields{"name": "x"}), docstore.ErrNotFound)
}
