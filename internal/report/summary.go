package report

import (
	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/shopspring/decimal"
)

// LowFleetUtilization is the average fleet usage under which the report
// suggests consolidating routes.
const LowFleetUtilization = 50.0

// Summary is the cumulative view of a run.
type Summary struct {
	Days           int `json:"days"`
	OrdersTotal    int `json:"orders_total"`
	OrdersPrepared int `json:"orders_prepared"`
	UnitsRequested int `json:"units_requested"`
	UnitsDelivered int `json:"units_delivered"`
	BacklogUnits   int `json:"backlog_units"`

	// BacklogPct is BacklogUnits over UnitsRequested for the whole run.
	BacklogPct float64 `json:"backlog_pct"`

	// Day averages of the daily indicators.
	OTIF                float64 `json:"otif"`
	FillRate            float64 `json:"fill_rate"`
	BacklogRate         float64 `json:"backlog_rate"`
	PickingProductivity float64 `json:"picking_productivity"`
	FleetUtilization    float64 `json:"fleet_utilization"`

	VehiclesUsed  int             `json:"vehicles_used"`
	TransportCost decimal.Decimal `json:"transport_cost"`
	AlertsTotal   int             `json:"alerts_total"`

	ActiveAlerts    []string `json:"active_alerts"`
	Recommendations []string `json:"recommendations"`
}

// Stable reports whether no averaged indicator breaches its threshold.
func (s Summary) Stable() bool {
	return len(s.ActiveAlerts) == 0
}

// Summarize aggregates the day results of a run. Averages are plain means
// over days; BacklogUnits is requested minus delivered, floored at zero.
func Summarize(results []domain.DayResult, t pipeline.Thresholds) Summary {
	s := Summary{Days: len(results), TransportCost: decimal.Zero}

	var otif, fill, backlog, productivity, fleet float64
	for _, r := range results {
		ind := r.Indicators
		s.OrdersTotal += ind.OrdersTotal
		s.OrdersPrepared += ind.OrdersProcessed
		s.UnitsRequested += ind.UnitsRequested
		s.UnitsDelivered += ind.UnitsDelivered
		s.VehiclesUsed += r.Transport.Stats.VehiclesUsed
		s.TransportCost = s.TransportCost.Add(r.Transport.Stats.TotalCost)
		s.AlertsTotal += len(r.Alerts)

		otif += ind.OTIF
		fill += ind.FillRate
		backlog += ind.BacklogRate
		productivity += ind.PickingProductivity
		fleet += ind.FleetUtilization
	}

	if s.Days > 0 {
		n := float64(s.Days)
		s.OTIF = otif / n
		s.FillRate = fill / n
		s.BacklogRate = backlog / n
		s.PickingProductivity = productivity / n
		s.FleetUtilization = fleet / n
	}

	s.BacklogUnits = max(s.UnitsRequested-s.UnitsDelivered, 0)
	if s.UnitsRequested > 0 {
		s.BacklogPct = float64(s.BacklogUnits) / float64(s.UnitsRequested) * 100
	}

	s.ActiveAlerts, s.Recommendations = assess(s, t)
	return s
}

func assess(s Summary, t pipeline.Thresholds) (active, recommendations []string) {
	active = make([]string, 0)
	recommendations = make([]string, 0)

	if s.OTIF < t.OTIFMinimum {
		active = append(active, fmtPct("Low OTIF", s.OTIF))
		recommendations = append(recommendations, "Review preparation times and picking processes.")
	}
	if s.FillRate < t.FillRateMinimum {
		active = append(active, fmtPct("Low fill rate", s.FillRate))
		recommendations = append(recommendations, "Review inventory replenishment and reorder points.")
	}
	if s.FleetUtilization > t.FleetUtilizationMaximum {
		active = append(active, fmtPct("High fleet utilization", s.FleetUtilization))
		recommendations = append(recommendations, "Increase fleet capacity to avoid saturation.")
	}
	if s.Days > 0 && s.FleetUtilization < LowFleetUtilization {
		recommendations = append(recommendations, "Reassign routes to cut transport costs (low vehicle occupancy).")
	}
	if s.BacklogRate > t.BacklogRateMaximum {
		active = append(active, fmtPct("Critical backlog rate", s.BacklogRate))
		recommendations = append(recommendations, "Add picking staff or extra shifts urgently.")
	}

	if len(active) == 0 {
		recommendations = append(recommendations, "Keep current processes and monitor trends.")
	}
	return active, recommendations
}
