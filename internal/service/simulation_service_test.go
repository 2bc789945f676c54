package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/andresuchdata/logisim/internal/cache"
	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/andresuchdata/logisim/internal/export"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct {
	mu   sync.Mutex
	runs []string
	err  error
}

func (c *countingSink) Name() string { return "counting" }

func (c *countingSink) Export(_ context.Context, b export.Bundle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = append(c.runs, b.Run.ID)
	return c.err
}

func newTestService(sinks ...export.Sink) *SimulationService {
	return NewSimulationService(catalog.Default(), cache.NewMemoryRunStore(10), sinks, DefaultOptions())
}

func TestSimulate_StoresAndExports(t *testing.T) {
	sink := &countingSink{}
	svc := newTestService(sink)

	run, err := svc.Simulate(context.Background(), SimulationRequest{Days: 3, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, run.Status)
	assert.Len(t, run.Results, 3)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, pipeline.DefaultThresholds(), run.Thresholds)
	assert.Equal(t, []string{run.ID}, sink.runs)

	stored, err := svc.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.ID)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
}

func TestSimulate_SameSeedSameResults(t *testing.T) {
	svc := newTestService()

	a, err := svc.Simulate(context.Background(), SimulationRequest{Days: 4, Seed: 7})
	require.NoError(t, err)
	b, err := svc.Simulate(context.Background(), SimulationRequest{Days: 4, Seed: 7})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.IndicatorHistory(), b.IndicatorHistory())
	assert.Equal(t, a.Inventory, b.Inventory)
}

func TestSimulate_ExportFailureKeepsRun(t *testing.T) {
	svc := newTestService(&countingSink{err: errors.New("disk full")})

	run, err := svc.Simulate(context.Background(), SimulationRequest{Days: 1, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusCompleted, run.Status)
}

func TestSimulate_InvalidRequests(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name string
		req  SimulationRequest
	}{
		{"negative days", SimulationRequest{Days: -1}},
		{"too many days", SimulationRequest{Days: 366}},
		{"negative capacity", SimulationRequest{Days: 1, PickingCapacity: -5}},
		{"unknown threshold", SimulationRequest{Days: 1, Thresholds: map[string]float64{"Speed_minimum": 1}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Simulate(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestSimulate_ThresholdOverrides(t *testing.T) {
	opts := DefaultOptions()
	opts.Thresholds = map[string]float64{pipeline.ThresholdOTIFMinimum: 90}
	svc := NewSimulationService(nil, nil, nil, opts)

	run, err := svc.Simulate(context.Background(), SimulationRequest{
		Days:       1,
		Seed:       3,
		Thresholds: map[string]float64{pipeline.ThresholdFillRateMinimum: 50},
	})
	require.NoError(t, err)

	assert.Equal(t, 90.0, run.Thresholds.OTIFMinimum)
	assert.Equal(t, 50.0, run.Thresholds.FillRateMinimum)
	assert.Equal(t, 85.0, run.Thresholds.FleetUtilizationMaximum)
}

func TestSimulate_FailedRunIsStored(t *testing.T) {
	cat := catalog.Default()
	cat.Vehicles = nil
	svc := NewSimulationService(cat, cache.NewMemoryRunStore(10), nil, DefaultOptions())

	run, err := svc.Simulate(context.Background(), SimulationRequest{Days: 2, Seed: 9})
	require.Error(t, err)

	var dayErr *pipeline.DayError
	require.ErrorAs(t, err, &dayErr)
	assert.Equal(t, 1, dayErr.Day)
	assert.ErrorIs(t, err, pipeline.ErrEmptyFleet)

	stored, getErr := svc.Get(context.Background(), run.ID)
	require.NoError(t, getErr)
	assert.Equal(t, pipeline.StatusFailed, stored.Status)
}

func TestReportAndAlerts(t *testing.T) {
	svc := newTestService()
	run, err := svc.Simulate(context.Background(), SimulationRequest{Days: 5, Seed: 11})
	require.NoError(t, err)

	rep, err := svc.Report(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, rep.Summary.Days)
	assert.Contains(t, rep.Text, "5-DAY LOGISTICS REPORT")
	assert.Equal(t, run.Inventory, rep.Inventory)

	latest, err := svc.LatestReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.RunID)

	all, err := svc.Alerts(context.Background(), run.ID, "")
	require.NoError(t, err)
	assert.Equal(t, run.Alerts, all)

	critical, err := svc.Alerts(context.Background(), run.ID, "critical")
	require.NoError(t, err)
	for _, a := range critical {
		assert.Equal(t, domain.SeverityCritical, a.Severity)
	}
}

func TestDeleteAndReset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Simulate(ctx, SimulationRequest{Days: 1, Seed: 1})
	require.NoError(t, err)
	_, err = svc.Simulate(ctx, SimulationRequest{Days: 1, Seed: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, cache.ErrRunNotFound)

	require.NoError(t, svc.Reset(ctx))
	_, err = svc.Latest(ctx)
	assert.ErrorIs(t, err, cache.ErrRunNotFound)
}
