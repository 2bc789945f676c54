package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/andresuchdata/logisim/internal/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS simulation_runs (
	id              TEXT PRIMARY KEY,
	seed            BIGINT NOT NULL,
	days            INTEGER NOT NULL,
	labor_capacity  INTEGER NOT NULL,
	status          TEXT NOT NULL,
	error_message   TEXT NOT NULL DEFAULT '',
	started_at      TIMESTAMPTZ NOT NULL,
	completed_at    TIMESTAMPTZ,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS simulation_day_kpis (
	run_id               TEXT NOT NULL REFERENCES simulation_runs(id) ON DELETE CASCADE,
	day                  INTEGER NOT NULL,
	otif                 DOUBLE PRECISION NOT NULL,
	fill_rate            DOUBLE PRECISION NOT NULL,
	backlog_rate         DOUBLE PRECISION NOT NULL,
	picking_productivity DOUBLE PRECISION NOT NULL,
	fleet_utilization    DOUBLE PRECISION NOT NULL,
	orders_total         INTEGER NOT NULL,
	orders_processed     INTEGER NOT NULL,
	units_requested      INTEGER NOT NULL,
	units_delivered      INTEGER NOT NULL,
	vehicles_used        INTEGER NOT NULL,
	transport_cost       NUMERIC(14, 2) NOT NULL,
	PRIMARY KEY (run_id, day)
);

CREATE TABLE IF NOT EXISTS simulation_alerts (
	id             BIGSERIAL PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES simulation_runs(id) ON DELETE CASCADE,
	day            INTEGER NOT NULL,
	severity       TEXT NOT NULL,
	indicator      TEXT NOT NULL,
	value          DOUBLE PRECISION NOT NULL,
	message        TEXT NOT NULL,
	recommendation TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS simulation_order_lines (
	run_id       TEXT NOT NULL REFERENCES simulation_runs(id) ON DELETE CASCADE,
	day          INTEGER NOT NULL,
	order_id     TEXT NOT NULL,
	client_id    TEXT NOT NULL,
	client_name  TEXT NOT NULL,
	sku          TEXT NOT NULL,
	product_name TEXT NOT NULL,
	quantity     INTEGER NOT NULL,
	zone         TEXT NOT NULL,
	PRIMARY KEY (run_id, day, order_id, sku)
);
`

// RunRecord is one row of simulation_runs.
type RunRecord struct {
	ID            string     `db:"id" json:"id"`
	Seed          int64      `db:"seed" json:"seed"`
	Days          int        `db:"days" json:"days"`
	LaborCapacity int        `db:"labor_capacity" json:"labor_capacity"`
	Status        string     `db:"status" json:"status"`
	ErrorMessage  string     `db:"error_message" json:"error_message,omitempty"`
	StartedAt     time.Time  `db:"started_at" json:"started_at"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// DayKPIRecord is one row of simulation_day_kpis.
type DayKPIRecord struct {
	RunID               string  `db:"run_id" json:"run_id"`
	Day                 int     `db:"day" json:"day"`
	OTIF                float64 `db:"otif" json:"otif"`
	FillRate            float64 `db:"fill_rate" json:"fill_rate"`
	BacklogRate         float64 `db:"backlog_rate" json:"backlog_rate"`
	PickingProductivity float64 `db:"picking_productivity" json:"picking_productivity"`
	FleetUtilization    float64 `db:"fleet_utilization" json:"fleet_utilization"`
	OrdersTotal         int     `db:"orders_total" json:"orders_total"`
	OrdersProcessed     int     `db:"orders_processed" json:"orders_processed"`
	UnitsRequested      int     `db:"units_requested" json:"units_requested"`
	UnitsDelivered      int     `db:"units_delivered" json:"units_delivered"`
	VehiclesUsed        int     `db:"vehicles_used" json:"vehicles_used"`
	TransportCost       string  `db:"transport_cost" json:"transport_cost"`
}

type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the export tables if they are missing.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun writes a run with its daily KPIs, alerts and order lines.
// Saving the same run again replaces its previous rows.
func (r *RunRepository) SaveRun(ctx context.Context, run *pipeline.Run, orders []report.OrderRow) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		// 1. Run header
		_, err := tx.ExecContext(ctx, `
			INSERT INTO simulation_runs (
				id, seed, days, labor_capacity, status, error_message, started_at, completed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id)
			DO UPDATE SET
				status = EXCLUDED.status,
				error_message = EXCLUDED.error_message,
				completed_at = EXCLUDED.completed_at
		`, run.ID, run.Seed, run.Days, run.LaborCapacity, string(run.Status), run.ErrorMessage, run.StartedAt, run.CompletedAt)
		if err != nil {
			return fmt.Errorf("failed to upsert run: %w", err)
		}

		for _, table := range []string{"simulation_day_kpis", "simulation_alerts", "simulation_order_lines"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = $1", run.ID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		// 2. Daily KPIs and alerts
		if err := insertDays(ctx, tx, run); err != nil {
			return err
		}

		// 3. Order lines
		return insertOrderLines(ctx, tx, run.ID, orders)
	})
}

func insertDays(ctx context.Context, tx *sql.Tx, run *pipeline.Run) error {
	kpiStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO simulation_day_kpis (
			run_id, day, otif, fill_rate, backlog_rate, picking_productivity, fleet_utilization,
			orders_total, orders_processed, units_requested, units_delivered, vehicles_used, transport_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer kpiStmt.Close()

	alertStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO simulation_alerts (
			run_id, day, severity, indicator, value, message, recommendation
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer alertStmt.Close()

	for _, res := range run.Results {
		ind := res.Indicators
		_, err := kpiStmt.ExecContext(ctx,
			run.ID,
			res.Day,
			ind.OTIF,
			ind.FillRate,
			ind.BacklogRate,
			ind.PickingProductivity,
			ind.FleetUtilization,
			ind.OrdersTotal,
			ind.OrdersProcessed,
			ind.UnitsRequested,
			ind.UnitsDelivered,
			res.Transport.Stats.VehiclesUsed,
			res.Transport.Stats.TotalCost.StringFixed(2),
		)
		if err != nil {
			return fmt.Errorf("failed to insert day %d: %w", res.Day, err)
		}

		for _, a := range res.Alerts {
			_, err := alertStmt.ExecContext(ctx, run.ID, a.Day, a.Severity.String(), a.Indicator, a.Value, a.Message, a.Recommendation)
			if err != nil {
				return fmt.Errorf("failed to insert alert for day %d: %w", a.Day, err)
			}
		}
	}
	return nil
}

func insertOrderLines(ctx context.Context, tx *sql.Tx, runID string, orders []report.OrderRow) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO simulation_order_lines (
			run_id, day, order_id, client_id, client_name, sku, product_name, quantity, zone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range orders {
		_, err := stmt.ExecContext(ctx, runID, o.Day, o.OrderID, o.ClientID, o.ClientName, o.SKU, o.ProductName, o.Quantity, o.Zone)
		if err != nil {
			return fmt.Errorf("failed to insert order %s line %s: %w", o.OrderID, o.SKU, err)
		}
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []RunRecord
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, seed, days, labor_capacity, status, error_message, started_at, completed_at, created_at
		FROM simulation_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DayKPIs returns the stored scorecards of a run in day order.
func (r *RunRepository) DayKPIs(ctx context.Context, runID string) ([]DayKPIRecord, error) {
	var rows []DayKPIRecord
	err := r.db.SelectContext(ctx, &rows, `
		SELECT run_id, day, otif, fill_rate, backlog_rate, picking_productivity, fleet_utilization,
			orders_total, orders_processed, units_requested, units_delivered, vehicles_used,
			transport_cost::TEXT AS transport_cost
		FROM simulation_day_kpis
		WHERE run_id = $1
		ORDER BY day
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load day kpis for run %s: %w", runID, err)
	}
	return rows, nil
}
