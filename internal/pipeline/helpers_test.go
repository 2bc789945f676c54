package pipeline

import (
	"testing"

	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed draws. Once a script runs out, Float64 returns
// 0.5 (efficiency 1.0, no operational error) and Intn returns 0. Shuffle
// keeps the original order.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0] % n
	r.ints = r.ints[1:]
	return v
}

func (r *scriptedRand) Shuffle(n int, swap func(i, j int)) {}

func order(id, zone string, lines map[string]int) domain.Order {
	return domain.Order{ID: id, ClientID: "C-" + zone, Day: 1, Zone: zone, Lines: lines}
}

func picked(id, zone string, units int) domain.PickedOrder {
	return domain.PickedOrder{Order: order(id, zone, map[string]int{"A": units}), TotalUnits: units}
}

func vehicle(t *testing.T, id string, capacity int, rate string) domain.VehicleType {
	t.Helper()
	v, err := domain.NewVehicleType(id, capacity, decimal.RequireFromString(rate), "truck")
	require.NoError(t, err)
	return v
}
