package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/andresuchdata/logisim/internal/domain"
)

// Threshold option names accepted by ParseThresholds.
const (
	ThresholdOTIFMinimum                = "OTIF_minimum"
	ThresholdFillRateMinimum            = "FillRate_minimum"
	ThresholdFleetUtilizationMaximum    = "FleetUtilization_maximum"
	ThresholdBacklogRateMaximum         = "BacklogRate_maximum"
	ThresholdPickingProductivityMinimum = "PickingProductivity_minimum"
)

// ErrInvalidThreshold is returned for unknown threshold options.
var ErrInvalidThreshold = errors.New("invalid threshold")

// Thresholds is the alert threshold table.
type Thresholds struct {
	OTIFMinimum                float64 `json:"OTIF_minimum"`
	FillRateMinimum            float64 `json:"FillRate_minimum"`
	FleetUtilizationMaximum    float64 `json:"FleetUtilization_maximum"`
	BacklogRateMaximum         float64 `json:"BacklogRate_maximum"`
	PickingProductivityMinimum float64 `json:"PickingProductivity_minimum"`
}

// DefaultThresholds returns the stock threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OTIFMinimum:                95.0,
		FillRateMinimum:            98.0,
		FleetUtilizationMaximum:    85.0,
		BacklogRateMaximum:         5.0,
		PickingProductivityMinimum: 150.0,
	}
}

// ParseThresholds overlays the given options on the defaults.
func ParseThresholds(options map[string]float64) (Thresholds, error) {
	t := DefaultThresholds()
	for key, value := range options {
		switch key {
		case ThresholdOTIFMinimum:
			t.OTIFMinimum = value
		case ThresholdFillRateMinimum:
			t.FillRateMinimum = value
		case ThresholdFleetUtilizationMaximum:
			t.FleetUtilizationMaximum = value
		case ThresholdBacklogRateMaximum:
			t.BacklogRateMaximum = value
		case ThresholdPickingProductivityMinimum:
			t.PickingProductivityMinimum = value
		default:
			return Thresholds{}, fmt.Errorf("%w: unknown option %q", ErrInvalidThreshold, key)
		}
	}
	return t, nil
}

// EvaluateAlerts checks the scorecard against the thresholds in a fixed
// order: OTIF, fill rate, fleet utilization, backlog rate, productivity,
// then critical stock. Conditions re-fire every day they hold.
func EvaluateAlerts(day int, ind domain.Indicators, t Thresholds) []domain.Alert {
	alerts := make([]domain.Alert, 0)

	if ind.OTIF < t.OTIFMinimum {
		alerts = append(alerts, domain.Alert{
			Day:            day,
			Severity:       domain.SeverityCritical,
			Indicator:      "OTIF",
			Value:          ind.OTIF,
			Message:        fmt.Sprintf("OTIF below %.1f%%: check preparation and transport lead times", t.OTIFMinimum),
			Recommendation: "Review picking processes and coordination with transport",
		})
	}

	if ind.FillRate < t.FillRateMinimum {
		alerts = append(alerts, domain.Alert{
			Day:            day,
			Severity:       domain.SeverityImportant,
			Indicator:      "Fill Rate",
			Value:          ind.FillRate,
			Message:        fmt.Sprintf("Fill rate below %.1f%%: stock availability problems", t.FillRateMinimum),
			Recommendation: "Check inventory levels and reorder points",
		})
	}

	if ind.FleetUtilization > t.FleetUtilizationMaximum {
		alerts = append(alerts, domain.Alert{
			Day:            day,
			Severity:       domain.SeverityImportant,
			Indicator:      "Fleet Utilization",
			Value:          ind.FleetUtilization,
			Message:        fmt.Sprintf("High fleet utilization (> %.1f%%): saturation risk", t.FleetUtilizationMaximum),
			Recommendation: "Consider adding fleet capacity or optimizing routes",
		})
	}

	if ind.BacklogRate > t.BacklogRateMaximum {
		alerts = append(alerts, domain.Alert{
			Day:            day,
			Severity:       domain.SeverityImportant,
			Indicator:      "Backlog Rate",
			Value:          ind.BacklogRate,
			Message:        fmt.Sprintf("High backlog (> %.1f%%): insufficient capacity", t.BacklogRateMaximum),
			Recommendation: "Increase picking capacity or review planning",
		})
	}

	if ind.PickingProductivity < t.PickingProductivityMinimum {
		alerts = append(alerts, domain.Alert{
			Day:            day,
			Severity:       domain.SeverityInformative,
			Indicator:      "Picking Productivity",
			Value:          ind.PickingProductivity,
			Message:        fmt.Sprintf("Low picking productivity (< %.1f units/h)", t.PickingProductivityMinimum),
			Recommendation: "Train staff or review warehouse layout",
		})
	}

	skus := make([]string, 0, len(ind.CriticalStock))
	for sku := range ind.CriticalStock {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	for _, sku := range skus {
		level := ind.CriticalStock[sku]
		alerts = append(alerts, domain.Alert{
			Day:            day,
			Severity:       domain.SeverityCritical,
			Indicator:      "Critical Stock",
			Value:          float64(level),
			Message:        fmt.Sprintf("Critical stock for %s: %d units", sku, level),
			Recommendation: "Request urgent replenishment",
		})
	}

	return alerts
}
