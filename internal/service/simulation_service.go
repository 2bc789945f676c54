package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/logisim/internal/cache"
	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/demand"
	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/andresuchdata/logisim/internal/export"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/andresuchdata/logisim/internal/report"
	"github.com/rs/zerolog/log"
)

// ErrInvalidRequest is returned when a simulation request cannot be run.
var ErrInvalidRequest = errors.New("invalid simulation request")

// SimulationRequest describes one run. Zero values fall back to the
// service defaults.
type SimulationRequest struct {
	Days            int                `json:"days"`
	PickingCapacity int                `json:"picking_capacity"`
	Seed            int64              `json:"seed"`
	Thresholds      map[string]float64 `json:"thresholds"`
}

// Options holds the service defaults.
type Options struct {
	DefaultDays     int
	MaxDays         int
	PickingCapacity int
	Seed            int64
	Thresholds      map[string]float64
	Picking         pipeline.PickingConfig
	Demand          demand.Config
	ExportTimeout   time.Duration
}

// DefaultOptions mirrors the stock configuration.
func DefaultOptions() Options {
	return Options{
		DefaultDays:     7,
		MaxDays:         365,
		PickingCapacity: 1500,
		Picking:         pipeline.DefaultPickingConfig(),
		Demand:          demand.DefaultConfig(),
		ExportTimeout:   time.Minute,
	}
}

// RunReport is the executive view of a stored run.
type RunReport struct {
	RunID           string             `json:"run_id"`
	Seed            int64              `json:"seed"`
	Status          pipeline.RunStatus `json:"status"`
	Summary         report.Summary     `json:"summary"`
	Inventory       domain.Stock       `json:"inventory"`
	CriticalStock   map[string]int     `json:"critical_stock"`
	Recommendations []string           `json:"recommendations"`
	Text            string             `json:"text"`
}

type SimulationService struct {
	catalog *catalog.Catalog
	store   cache.RunStore
	sinks   []export.Sink
	opts    Options
}

func NewSimulationService(cat *catalog.Catalog, store cache.RunStore, sinks []export.Sink, opts Options) *SimulationService {
	if cat == nil {
		cat = catalog.Default()
	}
	if store == nil {
		store = cache.NewMemoryRunStore(cache.DefaultMemoryRuns)
	}
	return &SimulationService{catalog: cat, store: store, sinks: sinks, opts: opts}
}

// Catalog returns the master data runs are generated from.
func (s *SimulationService) Catalog() *catalog.Catalog {
	return s.catalog
}

// Simulate runs the pipeline for the requested period, stores the run and
// hands it to the configured exporters. Failed runs are stored too and
// returned together with their error.
func (s *SimulationService) Simulate(ctx context.Context, req SimulationRequest) (*pipeline.Run, error) {
	days := req.Days
	if days == 0 {
		days = s.opts.DefaultDays
	}
	if days < 1 || (s.opts.MaxDays > 0 && days > s.opts.MaxDays) {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidRequest, s.opts.MaxDays)
	}

	capacity := req.PickingCapacity
	if capacity == 0 {
		capacity = s.opts.PickingCapacity
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: picking capacity must not be negative", ErrInvalidRequest)
	}

	thresholds, err := s.thresholds(req.Thresholds)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.opts.Seed
	}
	rng, seed := pipeline.NewRand(seed)

	generator, err := demand.NewGenerator(s.catalog, s.opts.Demand, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create demand generator: %w", err)
	}

	cfg := pipeline.Config{
		LaborCapacity: capacity,
		Policy:        s.catalog.Policy,
		Fleet:         s.catalog.Vehicles,
		Clients:       s.catalog.ClientIndex(),
		Thresholds:    thresholds,
		Picking:       s.opts.Picking,
	}

	run := pipeline.NewRun(days, capacity, s.catalog.InitialInventory, seed)
	runErr := pipeline.NewOrchestrator(cfg, rng).Run(ctx, run, generator)

	if err := s.store.Save(ctx, run); err != nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("simulation: run store save failed")
	}

	if runErr != nil {
		return run, runErr
	}

	s.export(ctx, run)
	return run, nil
}

func (s *SimulationService) thresholds(overrides map[string]float64) (pipeline.Thresholds, error) {
	merged := make(map[string]float64, len(s.opts.Thresholds)+len(overrides))
	for k, v := range s.opts.Thresholds {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}

	t, err := pipeline.ParseThresholds(merged)
	if err != nil {
		return pipeline.Thresholds{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return t, nil
}

// export failures never fail the run; the run stays retrievable.
func (s *SimulationService) export(ctx context.Context, run *pipeline.Run) {
	if len(s.sinks) == 0 {
		return
	}

	timeout := s.opts.ExportTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	bundle := export.Bundle{Run: run, Catalog: s.catalog, Thresholds: run.Thresholds}
	if err := export.All(ctx, s.sinks, bundle); err != nil {
		log.Warn().Err(err).Str("run_id", run.ID).Msg("simulation: export failed")
	}
}

func (s *SimulationService) Get(ctx context.Context, id string) (*pipeline.Run, error) {
	return s.store.Get(ctx, id)
}

func (s *SimulationService) Latest(ctx context.Context) (*pipeline.Run, error) {
	return s.store.Latest(ctx)
}

func (s *SimulationService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Reset forgets every stored run.
func (s *SimulationService) Reset(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Report builds the executive report of a stored run.
func (s *SimulationService) Report(ctx context.Context, id string) (*RunReport, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.BuildReport(run)
}

// LatestReport builds the executive report of the most recent run.
func (s *SimulationService) LatestReport(ctx context.Context) (*RunReport, error) {
	run, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return s.BuildReport(run)
}

// BuildReport renders the summary, text report and recommendations of run.
func (s *SimulationService) BuildReport(run *pipeline.Run) (*RunReport, error) {
	summary := report.Summarize(run.Results, run.Thresholds)

	var text strings.Builder
	if err := report.WriteExecutive(&text, summary, fmt.Sprintf("%d-day", run.Days), time.Now()); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &RunReport{
		RunID:           run.ID,
		Seed:            run.Seed,
		Status:          run.Status,
		Summary:         summary,
		Inventory:       run.Inventory,
		CriticalStock:   pipeline.CriticalStock(run.Inventory, s.catalog.Policy),
		Recommendations: report.Recommendations(run.Alerts),
		Text:            text.String(),
	}, nil
}

// Alerts returns the alerts of a stored run, optionally restricted to one
// severity.
func (s *SimulationService) Alerts(ctx context.Context, id string, severity string) ([]domain.Alert, error) {
	run, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if severity == "" {
		return run.Alerts, nil
	}

	out := make([]domain.Alert, 0, len(run.Alerts))
	for _, a := range run.Alerts {
		if a.Severity.String() == severity {
			out = append(out, a)
		}
	}
	return out, nil
}
