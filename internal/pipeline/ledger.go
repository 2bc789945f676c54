package pipeline

import (
	"sort"

	"github.com/andresuchdata/logisim/internal/domain"
)

// ProcessInventory applies a day's orders to the opening stock in arrival
// order and then runs the replenishment check.
//
// Each line is served min(requested, available); the rest is lost demand.
// After all orders, every SKU with a reorder point whose post-sale stock is
// at or below that point receives exactly one lot.
func ProcessInventory(orders []domain.Order, opening domain.Stock, policy domain.ReorderPolicy) domain.InventoryMovement {
	stock := opening.Clone()
	movement := domain.InventoryMovement{
		StockAtOpen:   opening.Clone(),
		Sales:         make(map[string]int),
		Shortfalls:    make(map[string]int),
		Replenishment: make(map[string]int),
		Orders:        make([]domain.OrderFulfillment, 0, len(orders)),
	}

	for _, order := range orders {
		movement.Orders = append(movement.Orders, reserve(stock, order, &movement))
	}

	replenish(stock, policy, movement.Replenishment)
	movement.StockAtClose = stock

	return movement
}

// reserve serves one order against stock, mutating it.
func reserve(stock domain.Stock, order domain.Order, movement *domain.InventoryMovement) domain.OrderFulfillment {
	result := domain.OrderFulfillment{
		OrderID:  order.ID,
		Complete: len(order.Lines) > 0,
	}

	for _, sku := range order.SKUs() {
		requested := order.Lines[sku]
		if requested <= 0 {
			continue
		}

		available := stock.Get(sku)
		served := min(requested, available)
		if served > 0 {
			stock[sku] = available - served
			movement.Sales[sku] += served
			result.UnitsDispatched += served
		}

		if missing := requested - served; missing > 0 {
			if result.Shortfalls == nil {
				result.Shortfalls = make(map[string]int)
			}
			result.Shortfalls[sku] += missing
			movement.Shortfalls[sku] += missing
			result.Complete = false
		}
	}

	return result
}

// replenish adds one lot per SKU at or below its reorder point.
// SKUs without a reorder point are never replenished.
func replenish(stock domain.Stock, policy domain.ReorderPolicy, out map[string]int) {
	skus := make([]string, 0, len(policy.ReorderPoints))
	for sku := range policy.ReorderPoints {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	for _, sku := range skus {
		point := policy.ReorderPoints[sku]
		if stock.Get(sku) > point {
			continue
		}
		lot := policy.LotSize(sku)
		stock[sku] = stock.Get(sku) + lot
		out[sku] = lot
	}
}

// CriticalStock lists SKUs whose closing stock is still at or below the
// reorder point, i.e. one lot was not enough to clear the threshold.
func CriticalStock(closing domain.Stock, policy domain.ReorderPolicy) map[string]int {
	var out map[string]int
	for sku, point := range policy.ReorderPoints {
		if level := closing.Get(sku); level <= point {
			if out == nil {
				out = make(map[string]int)
			}
			out[sku] = level
		}
	}
	return out
}
