//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/docstore"
	"github.com/a010145456/FitTrackApp/internal/docstore/docstoretest"
	"github.com/a010145456/FitTrackApp/internal/testsupport"
)

func TestCollectionContract(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	client, err := Connect(ctx, testsupport.StartMongo(ctx, t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("fittrack")
	docstoretest.RunContract(t, func(t *testing.T) docstore.Collection {
		return NewCollection(db, "contract_"+uuid.NewString())
	})
}

func TestMalformedIDsBehaveAsAbsent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	client, err := Connect(ctx, testsupport.StartMongo(ctx, t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	coll := NewCollection(client.Database("fittrack"), "exercises")
	require.ErrorIs(t, coll.OverwriteFields(ctx, "not-hex", docstore.Fields{"name": "x"}), docstore.ErrNotFound)
	require.NoError(t, coll.Remove(ctx, "not-hex"))
}
