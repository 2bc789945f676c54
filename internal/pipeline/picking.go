package pipeline

import (
	"github.com/andresuchdata/logisim/internal/domain"
)

// AllocatePicking partitions a day's orders into prepared and pending under
// a labor-capacity budget and the day's opening stock.
//
// The stock snapshot is never mutated: admitted orders draw down a local
// virtual copy that is discarded when the call returns.
func AllocatePicking(day int, orders []domain.Order, capacity int, stock domain.Stock, cfg PickingConfig, rng Rand) domain.PickingResult {
	result := domain.PickingResult{
		Day:             day,
		Prepared:        make([]domain.PickedOrder, 0, len(orders)),
		Pending:         make([]domain.PickedOrder, 0),
		NominalCapacity: capacity,
	}

	// 1. Daily labor variance
	efficiency := cfg.EfficiencyMin + rng.Float64()*(cfg.EfficiencyMax-cfg.EfficiencyMin)
	result.EffectiveCapacity = float64(capacity) * efficiency

	// 2. Randomized presentation order
	queue := make([]domain.Order, len(orders))
	copy(queue, orders)
	rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })

	virtual := stock.Clone()

	for _, order := range queue {
		picked := domain.PickedOrder{Order: order, TotalUnits: order.TotalUnits()}

		// Malformed orders have nothing to prepare
		if len(order.Lines) == 0 {
			result.Pending = append(result.Pending, picked)
			continue
		}

		// 3. Capacity gate
		if float64(result.UnitsPrepared+picked.TotalUnits) > result.EffectiveCapacity {
			result.Pending = append(result.Pending, picked)
			continue
		}

		// 4. Stock gate
		if !hasStock(virtual, order) {
			result.Pending = append(result.Pending, picked)
			continue
		}

		// 5. Admit, then apply the operational error draw
		for sku, qty := range order.Lines {
			if qty > 0 {
				virtual[sku] = virtual.Get(sku) - qty
			}
		}
		if rng.Float64() < cfg.ErrorRate {
			result.Pending = append(result.Pending, picked)
			continue
		}

		result.Prepared = append(result.Prepared, picked)
		result.UnitsPrepared += picked.TotalUnits
	}

	for _, p := range result.Pending {
		result.BacklogUnits += p.TotalUnits
	}

	if capacity > 0 {
		result.CapacityUtilization = float64(result.UnitsPrepared) / float64(capacity) * 100
	}

	return result
}

func hasStock(virtual domain.Stock, order domain.Order) bool {
	for sku, qty := range order.Lines {
		if virtual.Get(sku) < qty {
			return false
		}
	}
	return true
}
