package docstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/a010145456/FitTrackApp/internal/docstore"
	"github.com/a010145456/FitTrackApp/internal/docstore/memory"
	"github.com/a010145456/FitTrackApp/internal/observability"
)

type failingCollection struct {
	docstore.Collection
	err error
}

func (f failingCollection) Remove(context.Context, string) error { return f.err }

func TestInstrumentedCountsOutcomes(t *testing.T) {
	ctx := context.Background()
	backend := "instrumented-test"
	c := docstore.Instrument(memory.NewCollection(), backend)

	before := testutil.ToFloat64(observability.StoreOperationCounter(backend, "insert", "success"))
	id, err := c.Insert(ctx, docstore.Fields{"name": "Deadlift"})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, before+1, testutil.ToFloat64(observability.StoreOperationCounter(backend, "insert", "success")))

	err = c.OverwriteFields(ctx, "missing", docstore.Fields{"name": "x"})
	require.ErrorIs(t, err, docstore.ErrNotFound)
	require.Equal(t, float64(1), testutil.ToFloat64(observability.StoreOperationCounter(backend, "overwrite_fields", "error")))

	_, err = c.FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), histogramSampleCount(t, observability.StoreDurationObserver(backend, "fetch_all")))
}

func TestInstrumentedPassesErrorsThrough(t *testing.T) {
	boom := errors.New("permission denied")
	c := docstore.Instrument(failingCollection{Collection: memory.NewCollection(), err: boom}, "instrumented-failing")

	err := c.Remove(context.Background(), "id")
	require.ErrorIs(t, err, boom)
	require.Equal(t, float64(1), testutil.ToFloat64(observability.StoreOperationCounter("instrumented-failing", "remove", "error")))
}

func histogramSampleCount(t *testing.T, observer prometheus.Observer) uint64 {
	t.Helper()

	metric := &dto.Metric{}
	require.NoError(t, observer.(prometheus.Metric).Write(metric))
	hist := metric.GetHistogram()
	require.NotNil(t, hist)
	return hist.GetSampleCount()
}
