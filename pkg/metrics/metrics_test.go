// Package metrics provides tests for the janitor's Prometheus metrics.
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterRun_UpdatesGaugesAndCounters verifies that one run's outcome
// lands in the per-run gauges and the cumulative counters.
func TestRegisterRun_UpdatesGaugesAndCounters(t *testing.T) {
	t.Parallel()

	handler, err := NewWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	handler.RegisterRun(&Metric{Repositories: 3, Scanned: 120, Deleted: 30, Kept: 80, Ignored: 10})

	assert.InDelta(t, 3, testutil.ToFloat64(handler.repositories), 0)
	assert.InDelta(t, 120, testutil.ToFloat64(handler.scanned), 0)
	assert.InDelta(t, 30, testutil.ToFloat64(handler.deleted), 0)
	assert.InDelta(t, 80, testutil.ToFloat64(handler.kept), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(handler.ignored), 0)
	assert.InDelta(t, 30, testutil.ToFloat64(handler.deletedTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(handler.runsTotal), 0)
}

// TestRegisterRun_AccumulatesTotals verifies that counters accumulate across
// runs while gauges reflect only the latest run.
func TestRegisterRun_AccumulatesTotals(t *testing.T) {
	t.Parallel()

	handler, err := NewWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	handler.RegisterRun(&Metric{Deleted: 5})
	handler.RegisterRun(&Metric{Deleted: 2})

	assert.InDelta(t, 2, testutil.ToFloat64(handler.deleted), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(handler.deletedTotal), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(handler.runsTotal), 0)
}

// TestRegisterRun_NilMetricCountsRun verifies that a nil metric still counts
// the run without touching the gauges.
func TestRegisterRun_NilMetricCountsRun(t *testing.T) {
	t.Parallel()

	handler, err := NewWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)

	handler.RegisterRun(&Metric{Scanned: 9})
	handler.RegisterRun(nil)

	assert.InDelta(t, 9, testutil.ToFloat64(handler.scanned), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(handler.runsTotal), 0)
}

// TestRegisterRun_NilHandlerIsSafe verifies that a nil handler ignores
// registrations, matching the degraded mode when registration fails.
func TestRegisterRun_NilHandlerIsSafe(t *testing.T) {
	t.Parallel()

	var handler *Metrics

	assert.NotPanics(t, func() { handler.RegisterRun(&Metric{Scanned: 1}) })
}
