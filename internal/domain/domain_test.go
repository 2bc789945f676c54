package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	client := Client{ID: "C01", Name: "AVON", Zone: "East"}

	t.Run("copies lines and zone", func(t *testing.T) {
		lines := map[string]int{"P001": 5, "P002": 7}
		o, err := NewOrder(" 001 ", client, 2, lines)
		require.NoError(t, err)

		lines["P001"] = 99
		assert.Equal(t, "001", o.ID)
		assert.Equal(t, "East", o.Zone)
		assert.Equal(t, 5, o.Lines["P001"])
		assert.Equal(t, 12, o.TotalUnits())
		assert.Equal(t, []string{"P001", "P002"}, o.SKUs())
	})

	testCases := []struct {
		name   string
		id     string
		day    int
		lines  map[string]int
		errMsg string
	}{
		{"empty id", "", 1, map[string]int{"P001": 1}, "id cannot be empty"},
		{"day zero", "001", 0, map[string]int{"P001": 1}, "day must be >= 1"},
		{"no lines", "001", 1, nil, "at least one line"},
		{"zero quantity", "001", 1, map[string]int{"P001": 0}, "must be positive"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder(tc.id, client, tc.day, tc.lines)
			assert.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestTotalUnitsIgnoresNonPositive(t *testing.T) {
	o := Order{ID: "x", Lines: map[string]int{"A": 4, "B": -3, "C": 0}}
	assert.Equal(t, 4, o.TotalUnits())
	assert.Equal(t, 9, TotalRequested([]Order{o, {Lines: map[string]int{"A": 5}}}))
}

func TestNewVehicleType(t *testing.T) {
	v, err := NewVehicleType("V01", 100, decimal.RequireFromString("4.5"), " Van ")
	require.NoError(t, err)
	assert.Equal(t, "Van", v.Category)

	_, err = NewVehicleType("V02", 0, decimal.Zero, "")
	assert.ErrorContains(t, err, "capacity must be positive")

	_, err = NewVehicleType("V03", 10, decimal.NewFromInt(-1), "")
	assert.ErrorContains(t, err, "cannot be negative")
}

func TestNewClientAndProduct(t *testing.T) {
	_, err := NewClient("C01", "AVON", "  ")
	assert.ErrorContains(t, err, "zone cannot be empty")

	_, err = NewProduct("", "Lipstick", "boxes")
	assert.ErrorContains(t, err, "id cannot be empty")
}

func TestStock(t *testing.T) {
	s := Stock{"B": 3, "A": 5, "X": -2}

	assert.Equal(t, 5, s.Get("A"))
	assert.Zero(t, s.Get("missing"))
	assert.Zero(t, s.Get("X"))
	assert.Equal(t, []string{"A", "B", "X"}, s.SKUs())

	clone := s.Clone()
	clone["A"] = 0
	assert.Equal(t, 5, s["A"])
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(Alert{Day: 1, Severity: SeverityImportant, Indicator: "Fill Rate"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"important"`)

	var a Alert
	require.NoError(t, json.Unmarshal(data, &a))
	assert.Equal(t, SeverityImportant, a.Severity)

	assert.Error(t, json.Unmarshal([]byte(`{"severity":"urgent"}`), &a))

	s, ok := ParseSeverity(" CRITICAL ")
	assert.True(t, ok)
	assert.Equal(t, SeverityCritical, s)
	assert.Equal(t, "unknown", Severity(42).String())
}
