package domain

import "github.com/shopspring/decimal"

// OrderFulfillment records what the ledger could serve for a single order.
type OrderFulfillment struct {
	OrderID         string         `json:"order_id"`
	Complete        bool           `json:"complete"`
	Shortfalls      map[string]int `json:"shortfalls,omitempty"`
	UnitsDispatched int            `json:"units_dispatched"`
}

// InventoryMovement is the ledger's record of one day.
type InventoryMovement struct {
	StockAtOpen   Stock              `json:"stock_at_open"`
	Sales         map[string]int     `json:"sales"`
	Shortfalls    map[string]int     `json:"shortfalls"`
	Replenishment map[string]int     `json:"replenishment"`
	StockAtClose  Stock              `json:"stock_at_close"`
	Orders        []OrderFulfillment `json:"orders"`
}

// UnitsSold sums the day's sales over all SKUs.
func (m InventoryMovement) UnitsSold() int {
	total := 0
	for _, qty := range m.Sales {
		total += qty
	}
	return total
}

// PickedOrder is an order annotated with its total requested units.
type PickedOrder struct {
	Order
	TotalUnits int `json:"total_units"`
}

// PickingResult partitions a day's orders into prepared and pending.
type PickingResult struct {
	Day                 int           `json:"day"`
	Prepared            []PickedOrder `json:"prepared"`
	Pending             []PickedOrder `json:"pending"`
	UnitsPrepared       int           `json:"units_prepared"`
	BacklogUnits        int           `json:"backlog_units"`
	NominalCapacity     int           `json:"nominal_capacity"`
	EffectiveCapacity   float64       `json:"effective_capacity"`
	CapacityUtilization float64       `json:"capacity_utilization_pct"`
}

// Route is one vehicle load within a zone.
type Route struct {
	Zone            string          `json:"zone"`
	VehicleID       string          `json:"vehicle_id"`
	VehicleCategory string          `json:"vehicle_category"`
	Units           int             `json:"units"`
	Capacity        int             `json:"capacity"`
	Utilization     float64         `json:"utilization_pct"`
	Cost            decimal.Decimal `json:"cost"`
	OrderIDs        []string        `json:"order_ids"`
	Partial         bool            `json:"partial"`
}

// TransportStats aggregates a day's routes.
type TransportStats struct {
	VehiclesUsed       int             `json:"vehicles_used"`
	UnitsTransported   int             `json:"units_transported"`
	AverageUtilization float64         `json:"average_utilization_pct"`
	TotalCost          decimal.Decimal `json:"total_cost"`
}

// TransportPlan is the router's output for one day.
type TransportPlan struct {
	Day    int            `json:"day"`
	Routes []Route        `json:"routes"`
	Stats  TransportStats `json:"statistics"`
}

// Indicators is the day's KPI scorecard.
type Indicators struct {
	OTIF                float64 `json:"otif"`
	FillRate            float64 `json:"fill_rate"`
	BacklogRate         float64 `json:"backlog_rate"`
	PickingProductivity float64 `json:"picking_productivity"`
	FleetUtilization    float64 `json:"fleet_utilization"`

	OrdersTotal     int `json:"orders_total"`
	OrdersProcessed int `json:"orders_processed"`
	UnitsRequested  int `json:"units_requested"`
	UnitsDelivered  int `json:"units_delivered"`
	UnitsPending    int `json:"units_pending"`

	// CriticalStock lists SKUs still at or below their reorder point at close.
	CriticalStock map[string]int `json:"critical_stock,omitempty"`
}

// DayResult is the full accounting of one simulated day.
type DayResult struct {
	Day        int               `json:"day"`
	Orders     []Order           `json:"orders"`
	Inventory  InventoryMovement `json:"inventory"`
	Picking    PickingResult     `json:"picking"`
	Transport  TransportPlan     `json:"transport"`
	Indicators Indicators        `json:"indicators"`
	Alerts     []Alert           `json:"alerts"`
}
