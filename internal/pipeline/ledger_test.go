package pipeline

import (
	"math/rand"
	"testing"

	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInventory_PartialFulfilmentTriggersReplenishment(t *testing.T) {
	opening := domain.Stock{"A": 10}
	policy := domain.ReorderPolicy{
		ReorderPoints: map[string]int{"A": 5},
		LotSizes:      map[string]int{"A": 20},
	}

	movement := ProcessInventory([]domain.Order{order("001", "north", map[string]int{"A": 12})}, opening, policy)

	assert.Equal(t, map[string]int{"A": 10}, movement.Sales)
	assert.Equal(t, map[string]int{"A": 2}, movement.Shortfalls)
	assert.Equal(t, map[string]int{"A": 20}, movement.Replenishment)
	assert.Equal(t, domain.Stock{"A": 20}, movement.StockAtClose)
	assert.Equal(t, domain.Stock{"A": 10}, movement.StockAtOpen)

	require.Len(t, movement.Orders, 1)
	assert.False(t, movement.Orders[0].Complete)
	assert.Equal(t, 10, movement.Orders[0].UnitsDispatched)
	assert.Equal(t, map[string]int{"A": 2}, movement.Orders[0].Shortfalls)
}

func TestProcessInventory_ArrivalOrderWins(t *testing.T) {
	orders := []domain.Order{
		order("001", "north", map[string]int{"A": 8}),
		order("002", "north", map[string]int{"A": 8}),
	}

	movement := ProcessInventory(orders, domain.Stock{"A": 10}, domain.ReorderPolicy{})

	require.Len(t, movement.Orders, 2)
	assert.True(t, movement.Orders[0].Complete)
	assert.Equal(t, 8, movement.Orders[0].UnitsDispatched)
	assert.False(t, movement.Orders[1].Complete)
	assert.Equal(t, 2, movement.Orders[1].UnitsDispatched)
	assert.Equal(t, domain.Stock{"A": 0}, movement.StockAtClose)
}

func TestProcessInventory_EdgeCases(t *testing.T) {
	t.Run("unknown sku is a full shortfall", func(t *testing.T) {
		movement := ProcessInventory([]domain.Order{order("001", "north", map[string]int{"Z": 7})}, domain.Stock{"A": 3}, domain.ReorderPolicy{})

		assert.Equal(t, map[string]int{"Z": 7}, movement.Shortfalls)
		assert.Empty(t, movement.Sales)
		assert.Equal(t, domain.Stock{"A": 3}, movement.StockAtClose)
	})

	t.Run("order without lines is unfulfilled", func(t *testing.T) {
		movement := ProcessInventory([]domain.Order{{ID: "001", Day: 1}}, domain.Stock{"A": 3}, domain.ReorderPolicy{})

		require.Len(t, movement.Orders, 1)
		assert.False(t, movement.Orders[0].Complete)
		assert.Zero(t, movement.Orders[0].UnitsDispatched)
	})

	t.Run("opening stock is not mutated", func(t *testing.T) {
		opening := domain.Stock{"A": 10}
		ProcessInventory([]domain.Order{order("001", "north", map[string]int{"A": 4})}, opening, domain.ReorderPolicy{})

		assert.Equal(t, domain.Stock{"A": 10}, opening)
	})
}

func TestProcessInventory_Replenishment(t *testing.T) {
	testCases := []struct {
		name          string
		opening       domain.Stock
		points        map[string]int
		lots          map[string]int
		demand        int
		expectedRepl  map[string]int
		expectedClose domain.Stock
	}{
		{"at reorder point fires", domain.Stock{"A": 15}, map[string]int{"A": 5}, map[string]int{"A": 20}, 10, map[string]int{"A": 20}, domain.Stock{"A": 25}},
		{"above reorder point does not fire", domain.Stock{"A": 16}, map[string]int{"A": 5}, map[string]int{"A": 20}, 10, map[string]int{}, domain.Stock{"A": 6}},
		{"single lot even if still below", domain.Stock{"A": 5}, map[string]int{"A": 50}, map[string]int{"A": 10}, 5, map[string]int{"A": 10}, domain.Stock{"A": 10}},
		{"default lot size", domain.Stock{"A": 5}, map[string]int{"A": 5}, nil, 5, map[string]int{"A": domain.DefaultLotSize}, domain.Stock{"A": domain.DefaultLotSize}},
		{"no reorder point never fires", domain.Stock{"A": 5}, nil, nil, 5, map[string]int{}, domain.Stock{"A": 0}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			policy := domain.ReorderPolicy{ReorderPoints: tc.points, LotSizes: tc.lots}
			movement := ProcessInventory([]domain.Order{order("001", "north", map[string]int{"A": tc.demand})}, tc.opening, policy)

			assert.Equal(t, tc.expectedRepl, movement.Replenishment)
			assert.Equal(t, tc.expectedClose, movement.StockAtClose)
		})
	}
}

func TestProcessInventory_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	skus := []string{"A", "B", "C", "D"}

	for i := 0; i < 200; i++ {
		opening := domain.Stock{}
		for _, sku := range skus[:3] {
			opening[sku] = rng.Intn(60)
		}
		var orders []domain.Order
		for j := 0; j < 1+rng.Intn(10); j++ {
			lines := map[string]int{}
			for k := 0; k < 1+rng.Intn(3); k++ {
				lines[skus[rng.Intn(len(skus))]] = 1 + rng.Intn(40)
			}
			orders = append(orders, order("o", "north", lines))
		}
		policy := domain.ReorderPolicy{ReorderPoints: map[string]int{"A": 10, "B": 20}}

		movement := ProcessInventory(orders, opening, policy)

		for sku, qty := range movement.StockAtClose {
			assert.GreaterOrEqual(t, qty, 0, "negative stock for %s", sku)
		}
		for sku, sold := range movement.Sales {
			assert.LessOrEqual(t, sold, opening.Get(sku), "sold more %s than available", sku)
			assert.LessOrEqual(t, sold, domain.TotalRequested(orders))
		}
		for sku, lot := range movement.Replenishment {
			assert.Equal(t, domain.DefaultLotSize, lot)
			postSale := opening.Get(sku) - movement.Sales[sku]
			assert.LessOrEqual(t, postSale, policy.ReorderPoints[sku])
			assert.Equal(t, postSale+lot, movement.StockAtClose[sku])
		}
	}
}

func TestCriticalStock(t *testing.T) {
	policy := domain.ReorderPolicy{ReorderPoints: map[string]int{"A": 50, "B": 5}}

	assert.Equal(t, map[string]int{"A": 10}, CriticalStock(domain.Stock{"A": 10, "B": 30}, policy))
	assert.Nil(t, CriticalStock(domain.Stock{"A": 60, "B": 30}, policy))
}
