package pipeline

import "github.com/andresuchdata/logisim/internal/domain"

// ShiftHours is the fixed picking shift length used for productivity.
const ShiftHours = 8

// IndicatorInput carries the day's figures into ComputeIndicators.
type IndicatorInput struct {
	OrdersReceived int
	Picking        domain.PickingResult
	UnitsRequested int
	Transport      *domain.TransportStats // nil when no routing happened
	CriticalStock  map[string]int
}

// ComputeIndicators builds the day's scorecard. Every ratio is guarded:
// no orders means 100% OTIF, no requested units means 100% fill rate and
// 0% backlog.
func ComputeIndicators(in IndicatorInput) domain.Indicators {
	prepared := len(in.Picking.Prepared)
	ind := domain.Indicators{
		OrdersTotal:     in.OrdersReceived,
		OrdersProcessed: prepared,
		UnitsRequested:  in.UnitsRequested,
		UnitsDelivered:  in.Picking.UnitsPrepared,
		CriticalStock:   in.CriticalStock,
	}

	// 1. OTIF
	ind.OTIF = 100
	if in.OrdersReceived > 0 {
		ind.OTIF = float64(prepared) / float64(in.OrdersReceived) * 100
	}

	// 2. Fill rate and 3. backlog rate share the requested-units denominator
	ind.FillRate = 100
	if in.UnitsRequested > 0 {
		ind.UnitsPending = in.Picking.BacklogUnits
		ind.FillRate = float64(in.Picking.UnitsPrepared) / float64(in.UnitsRequested) * 100
		ind.BacklogRate = float64(in.Picking.BacklogUnits) / float64(in.UnitsRequested) * 100
	}

	// 4. Units per hour over a fixed shift
	ind.PickingProductivity = float64(in.Picking.UnitsPrepared) / ShiftHours

	// 5. Fleet utilization straight from the router
	if in.Transport != nil {
		ind.FleetUtilization = in.Transport.AverageUtilization
	}

	return ind
}
