package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/logisim/internal/domain"
)

// Rand is the pseudo-random source every stage draws from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// DemandSource produces the orders of a simulated day.
type DemandSource interface {
	Orders(day int) ([]domain.Order, error)
}

// DemandFunc adapts a function to DemandSource.
type DemandFunc func(day int) ([]domain.Order, error)

func (f DemandFunc) Orders(day int) ([]domain.Order, error) { return f(day) }

// ErrEmptyFleet is returned when routing is attempted without a usable vehicle.
var ErrEmptyFleet = errors.New("vehicle catalog has no vehicle with positive capacity")

// DayError reports the simulated day on which a run aborted.
type DayError struct {
	Day int
	Err error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("day %d: %v", e.Day, e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }

// PickingConfig tunes the picking allocator.
type PickingConfig struct {
	EfficiencyMin float64 // lower bound of the daily labor efficiency factor
	EfficiencyMax float64 // upper bound of the daily labor efficiency factor
	ErrorRate     float64 // probability an admitted order is still diverted to pending
}

// DefaultPickingConfig returns the 90-110% efficiency band and a 2% error rate.
func DefaultPickingConfig() PickingConfig {
	return PickingConfig{
		EfficiencyMin: 0.90,
		EfficiencyMax: 1.10,
		ErrorRate:     0.02,
	}
}

// Config holds everything that stays static for a run.
type Config struct {
	LaborCapacity int
	Policy        domain.ReorderPolicy
	Fleet         []domain.VehicleType
	Clients       map[string]domain.Client
	Thresholds    Thresholds
	Picking       PickingConfig
}

// RunStatus represents the current state of a run
type RunStatus string

const (
	StatusPending    RunStatus = "pending"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Run is the explicit context of one simulation request.
type Run struct {
	ID               string             `json:"id"`
	Seed             int64              `json:"seed"`
	Days             int                `json:"days"`
	LaborCapacity    int                `json:"labor_capacity"`
	Status           RunStatus          `json:"status"`
	Thresholds       Thresholds         `json:"thresholds"`
	OpeningInventory domain.Stock       `json:"opening_inventory"`
	Inventory        domain.Stock       `json:"inventory"`
	Results          []domain.DayResult `json:"results"`
	Alerts           []domain.Alert     `json:"alerts"`
	StartedAt        time.Time          `json:"started_at"`
	CompletedAt      *time.Time         `json:"completed_at,omitempty"`
	ErrorMessage     string             `json:"error_message,omitempty"`
}

// IndicatorHistory returns the day scorecards in day order.
func (r *Run) IndicatorHistory() []domain.Indicators {
	out := make([]domain.Indicators, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, res.Indicators)
	}
	return out
}
