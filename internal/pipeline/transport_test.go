package pipeline

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRoutes_SplitsOversizedOrder(t *testing.T) {
	fleet := []domain.VehicleType{vehicle(t, "V100", 100, "4.5"), vehicle(t, "V150", 150, "5.0")}

	testCases := []struct {
		name          string
		draws         []int
		expectedUnits []int
	}{
		{"small vehicle then large", []int{0, 1}, []int{100, 150}},
		{"small vehicle every leg", []int{0, 0, 0}, []int{100, 100, 50}},
		{"large vehicle then small", []int{1, 0}, []int{150, 100}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			plan, err := PlanRoutes(1, []domain.PickedOrder{picked("001", "north", 250)}, fleet, nil, &scriptedRand{ints: tc.draws})
			require.NoError(t, err)

			require.Len(t, plan.Routes, len(tc.expectedUnits))
			total := 0
			for i, r := range plan.Routes {
				assert.Equal(t, tc.expectedUnits[i], r.Units)
				assert.LessOrEqual(t, r.Units, r.Capacity)
				assert.True(t, r.Partial)
				assert.Equal(t, []string{"001"}, r.OrderIDs)
				total += r.Units
			}
			assert.Equal(t, 250, total)
			assert.Equal(t, 250, plan.Stats.UnitsTransported)
			assert.Equal(t, len(tc.expectedUnits), plan.Stats.VehiclesUsed)
		})
	}
}

func TestPlanRoutes_FirstFit(t *testing.T) {
	fleet := []domain.VehicleType{vehicle(t, "V01", 100, "4.5")}
	prepared := []domain.PickedOrder{
		picked("001", "north", 60),
		picked("002", "north", 50),
		picked("003", "north", 40),
	}

	plan, err := PlanRoutes(1, prepared, fleet, nil, &scriptedRand{})
	require.NoError(t, err)

	require.Len(t, plan.Routes, 2)
	assert.Equal(t, []string{"001", "003"}, plan.Routes[0].OrderIDs)
	assert.Equal(t, 100, plan.Routes[0].Units)
	assert.InDelta(t, 100.0, plan.Routes[0].Utilization, 1e-9)
	assert.Equal(t, []string{"002"}, plan.Routes[1].OrderIDs)
	assert.InDelta(t, 50.0, plan.Routes[1].Utilization, 1e-9)

	assert.Equal(t, 2, plan.Stats.VehiclesUsed)
	assert.InDelta(t, 75.0, plan.Stats.AverageUtilization, 1e-9)
	assert.True(t, decimal.RequireFromString("675").Equal(plan.Stats.TotalCost), "got %s", plan.Stats.TotalCost)
}

func TestPlanRoutes_Zones(t *testing.T) {
	fleet := []domain.VehicleType{vehicle(t, "V01", 100, "1")}
	clients := map[string]domain.Client{
		"C-north": {ID: "C-north", Name: "North Shop", Zone: "east"},
	}
	prepared := []domain.PickedOrder{
		picked("001", "south", 10),
		picked("002", "north", 10),
		picked("003", "south", 10),
		{Order: domain.Order{ID: "004", ClientID: "ghost", Lines: map[string]int{"A": 5}}, TotalUnits: 5},
	}

	plan, err := PlanRoutes(1, prepared, fleet, clients, &scriptedRand{})
	require.NoError(t, err)

	require.Len(t, plan.Routes, 3)
	assert.Equal(t, "south", plan.Routes[0].Zone)
	assert.Equal(t, []string{"001", "003"}, plan.Routes[0].OrderIDs)
	assert.Equal(t, "east", plan.Routes[1].Zone, "client catalog zone wins")
	assert.Equal(t, UnassignedZone, plan.Routes[2].Zone)
}

func TestPlanRoutes_EdgeCases(t *testing.T) {
	t.Run("no prepared orders", func(t *testing.T) {
		plan, err := PlanRoutes(1, nil, nil, nil, &scriptedRand{})
		require.NoError(t, err)

		assert.Empty(t, plan.Routes)
		assert.Zero(t, plan.Stats.VehiclesUsed)
		assert.Zero(t, plan.Stats.AverageUtilization)
		assert.True(t, plan.Stats.TotalCost.IsZero())
	})

	t.Run("empty fleet", func(t *testing.T) {
		_, err := PlanRoutes(1, []domain.PickedOrder{picked("001", "north", 10)}, nil, nil, &scriptedRand{})
		assert.ErrorIs(t, err, ErrEmptyFleet)
	})

	t.Run("fleet without capacity", func(t *testing.T) {
		fleet := []domain.VehicleType{{ID: "V00", Capacity: 0, CostPerUnit: decimal.NewFromInt(1)}}
		_, err := PlanRoutes(1, []domain.PickedOrder{picked("001", "north", 10)}, fleet, nil, &scriptedRand{})
		assert.ErrorIs(t, err, ErrEmptyFleet)
	})
}

func TestPlanRoutes_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fleet := []domain.VehicleType{
		vehicle(t, "V01", 100, "4.5"),
		vehicle(t, "V02", 120, "5.0"),
		vehicle(t, "V03", 80, "3.8"),
	}
	zones := []string{"north", "south", "east"}

	for i := 0; i < 100; i++ {
		var prepared []domain.PickedOrder
		requested := 0
		for j := 0; j < 1+rng.Intn(15); j++ {
			units := 5 + rng.Intn(200)
			requested += units
			prepared = append(prepared, picked(fmt.Sprintf("%03d", j), zones[rng.Intn(len(zones))], units))
		}

		plan, err := PlanRoutes(1, prepared, fleet, nil, rng)
		require.NoError(t, err)

		zoneOf := map[string]string{}
		for _, p := range prepared {
			zoneOf[p.ID] = p.Zone
		}

		moved := 0
		for _, r := range plan.Routes {
			assert.LessOrEqual(t, r.Units, r.Capacity)
			assert.GreaterOrEqual(t, r.Utilization, 0.0)
			assert.LessOrEqual(t, r.Utilization, 100.0)
			for _, id := range r.OrderIDs {
				assert.Equal(t, r.Zone, zoneOf[id], "route mixes zones")
			}
			moved += r.Units
		}
		assert.Equal(t, requested, moved)
		assert.Equal(t, requested, plan.Stats.UnitsTransported)
	}
}
