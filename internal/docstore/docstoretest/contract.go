// Package docstoretest holds the behaviour every docstore.Collection backend must share.
package docstoretest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/docstore"
)

// Factory returns an empty collection for a single sub-test.
type Factory func(t *testing.T) docstore.Collection

// RunContract exercises a backend against the Collection contract.
func RunContract(t *testing.T, newCollection Factory) {
	t.Helper()

	t.Run("insert then fetch", func(t *testing.T) {
		ctx := context.Background()
		c := newCollection(t)

		id, err := c.Insert(ctx, docstore.Fields{"name": "Squat", "duration": 15})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		docs, err := c.FetchAll(ctx)
		require.NoError(t, err)
		doc := find(t, docs, id)
		require.Equal(t, "Squat", doc.Fields["name"])
		require.EqualValues(t, 15, toInt64(t, doc.Fields["duration"]))
	})

	t.Run("overwrite merges and keeps id", func(t *testing.T) {
		ctx := context.Background()
		c := newCollection(t)

		id, err := c.Insert(ctx, docstore.Fields{"name": "Row", "duration": 10})
		require.NoError(t, err)
		other, err := c.Insert(ctx, docstore.Fields{"name": "Press", "duration": 5})
		require.NoError(t, err)

		require.NoError(t, c.OverwriteFields(ctx, id, docstore.Fields{"name": "Seated Row", "duration": 20}))

		docs, err := c.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		updated := find(t, docs, id)
		require.Equal(t, "Seated Row", updated.Fields["name"])
		require.EqualValues(t, 20, toInt64(t, updated.Fields["duration"]))
		untouched := find(t, docs, other)
		require.Equal(t, "Press", untouched.Fields["name"])
	})

	t.Run("overwrite unknown id", func(t *testing.T) {
		c := newCollection(t)
		err := c.OverwriteFields(context.Background(), missingID, docstore.Fields{"name": "x"})
		require.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("remove", func(t *testing.T) {
		ctx := context.Background()
		c := newCollection(t)

		keep, err := c.Insert(ctx, docstore.Fields{"name": "Keep"})
		require.NoError(t, err)
		drop, err := c.Insert(ctx, docstore.Fields{"name": "Drop"})
		require.NoError(t, err)

		require.NoError(t, c.Remove(ctx, drop))
		require.NoError(t, c.Remove(ctx, missingID))

		docs, err := c.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		require.Equal(t, keep, docs[0].ID)
	})

	t.Run("concurrent inserts", func(t *testing.T) {
		ctx := context.Background()
		c := newCollection(t)

		const n = 16
		ids := make([]string, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], errs[i] = c.Insert(ctx, docstore.Fields{"name": fmt.Sprintf("ex-%d", i), "duration": i})
			}(i)
		}
		wg.Wait()

		seen := make(map[string]struct{}, n)
		for i := range n {
			require.NoError(t, errs[i])
			seen[ids[i]] = struct{}{}
		}
		require.Len(t, seen, n)

		docs, err := c.FetchAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, n)
	})
}

// missingID is syntactically valid for every backend, including Mongo ObjectIDs.
const missingID = "000000000000000000000000"

func find(t *testing.T, docs []docstore.Document, id string) docstore.Document {
	t.Helper()
	for _, doc := range docs {
		if doc.ID == id {
			return doc
		}
	}
	require.Failf(t, "document not found", "id %s missing from %d documents", id, len(docs))
	return docstore.Document{}
}

func toInt64(t *testing.T, v any) int64 {
	t.Helper()
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		require.NoError(t, err)
		return i
	default:
		require.Failf(t, "unexpected numeric type", "%T", v)
		return 0
	}
}
