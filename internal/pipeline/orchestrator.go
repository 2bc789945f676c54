package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/andresuchdata/logisim/internal/pipeline"

// NewRand returns a seeded source. A zero seed picks a time-based one; the
// seed actually used is returned so the run can be replayed.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// NewRun creates a pending run context.
func NewRun(days, laborCapacity int, opening domain.Stock, seed int64) *Run {
	return &Run{
		ID:               uuid.NewString(),
		Seed:             seed,
		Days:             days,
		LaborCapacity:    laborCapacity,
		Status:           StatusPending,
		OpeningInventory: opening.Clone(),
		Inventory:        opening.Clone(),
		Results:          make([]domain.DayResult, 0, days),
		Alerts:           make([]domain.Alert, 0),
		StartedAt:        time.Now(),
	}
}

// Orchestrator sequences the five stages of a simulated day and threads the
// closing inventory of each day into the next.
type Orchestrator struct {
	cfg    Config
	rng    Rand
	tracer trace.Tracer

	daysCounter   metric.Int64Counter
	alertsCounter metric.Int64Counter
}

// NewOrchestrator creates a new Orchestrator. All stages draw from rng in a
// fixed call order, so a seeded source makes the run reproducible.
func NewOrchestrator(cfg Config, rng Rand) *Orchestrator {
	meter := otel.Meter(instrumentationName)

	days, err := meter.Int64Counter("logisim.days.simulated",
		metric.WithDescription("Number of simulated days"))
	if err != nil {
		log.Warn().Err(err).Msg("pipeline: days counter unavailable")
		days = noop.Int64Counter{}
	}
	alerts, err := meter.Int64Counter("logisim.alerts.emitted",
		metric.WithDescription("Number of alerts emitted"))
	if err != nil {
		log.Warn().Err(err).Msg("pipeline: alerts counter unavailable")
		alerts = noop.Int64Counter{}
	}

	return &Orchestrator{
		cfg:           cfg,
		rng:           rng,
		tracer:        otel.Tracer(instrumentationName),
		daysCounter:   days,
		alertsCounter: alerts,
	}
}

// RunDay runs the pipeline for one day and returns the day's result together
// with the inventory to open the next day with. opening is not modified.
func (o *Orchestrator) RunDay(ctx context.Context, day int, orders []domain.Order, opening domain.Stock) (domain.DayResult, domain.Stock, error) {
	_, span := o.tracer.Start(ctx, "pipeline.day", trace.WithAttributes(
		attribute.Int("day", day),
		attribute.Int("orders", len(orders)),
	))
	defer span.End()

	// 1. Ledger and 2. picking both observe the same opening snapshot
	movement := ProcessInventory(orders, opening, o.cfg.Policy)
	picking := AllocatePicking(day, orders, o.cfg.LaborCapacity, opening, o.cfg.Picking, o.rng)

	// 3. Transport
	plan, err := PlanRoutes(day, picking.Prepared, o.cfg.Fleet, o.cfg.Clients, o.rng)
	if err != nil {
		span.RecordError(err)
		return domain.DayResult{}, opening, &DayError{Day: day, Err: fmt.Errorf("transport: %w", err)}
	}

	// 4. Indicators
	indicators := ComputeIndicators(IndicatorInput{
		OrdersReceived: len(orders),
		Picking:        picking,
		UnitsRequested: domain.TotalRequested(orders),
		Transport:      &plan.Stats,
		CriticalStock:  CriticalStock(movement.StockAtClose, o.cfg.Policy),
	})

	// 5. Alerts
	alerts := EvaluateAlerts(day, indicators, o.cfg.Thresholds)

	o.daysCounter.Add(ctx, 1)
	o.alertsCounter.Add(ctx, int64(len(alerts)))
	span.SetAttributes(
		attribute.Float64("otif", indicators.OTIF),
		attribute.Int("alerts", len(alerts)),
	)

	result := domain.DayResult{
		Day:        day,
		Orders:     orders,
		Inventory:  movement,
		Picking:    picking,
		Transport:  plan,
		Indicators: indicators,
		Alerts:     alerts,
	}

	return result, movement.StockAtClose.Clone(), nil
}

// Run simulates run.Days consecutive days starting from run.OpeningInventory.
// The first failing day aborts the run; days already simulated are kept and
// run.Inventory holds the closing stock of the last successful day.
func (o *Orchestrator) Run(ctx context.Context, run *Run, source DemandSource) error {
	ctx, span := o.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run_id", run.ID),
		attribute.Int("days", run.Days),
		attribute.Int64("seed", run.Seed),
	))
	defer span.End()

	run.Status = StatusProcessing
	run.Thresholds = o.cfg.Thresholds
	inventory := run.OpeningInventory.Clone()

	for day := 1; day <= run.Days; day++ {
		orders, err := source.Orders(day)
		if err != nil {
			return o.fail(run, span, &DayError{Day: day, Err: fmt.Errorf("demand: %w", err)})
		}

		result, next, err := o.RunDay(ctx, day, orders, inventory)
		if err != nil {
			return o.fail(run, span, err)
		}

		run.Results = append(run.Results, result)
		run.Alerts = append(run.Alerts, result.Alerts...)
		inventory = next
		run.Inventory = inventory.Clone()

		log.Debug().
			Str("run_id", run.ID).
			Int("day", day).
			Int("orders", len(orders)).
			Float64("otif", result.Indicators.OTIF).
			Int("alerts", len(result.Alerts)).
			Msg("day simulated")
	}

	run.Status = StatusCompleted
	now := time.Now()
	run.CompletedAt = &now
	return nil
}

func (o *Orchestrator) fail(run *Run, span trace.Span, err error) error {
	span.RecordError(err)
	run.Status = StatusFailed
	run.ErrorMessage = err.Error()
	now := time.Now()
	run.CompletedAt = &now
	log.Error().Err(err).Str("run_id", run.ID).Msg("simulation run aborted")
	return err
}
