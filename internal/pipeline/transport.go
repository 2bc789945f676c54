package pipeline

import (
	"math"

	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/shopspring/decimal"
)

// UnassignedZone collects orders whose zone cannot be resolved.
const UnassignedZone = "unassigned"

// PlanRoutes bin-packs prepared orders into vehicles, zone by zone.
//
// Each iteration draws a vehicle type uniformly from the fleet and boards
// every queued order that still fits (first-fit in arrival order); orders
// left behind wait for the next vehicle. When a vehicle boards nothing, the
// head order is larger than it and is split into partial legs.
func PlanRoutes(day int, prepared []domain.PickedOrder, fleet []domain.VehicleType, clients map[string]domain.Client, rng Rand) (domain.TransportPlan, error) {
	plan := domain.TransportPlan{
		Day:    day,
		Routes: make([]domain.Route, 0),
		Stats:  domain.TransportStats{TotalCost: decimal.Zero},
	}
	if len(prepared) == 0 {
		return plan, nil
	}

	usable := usableFleet(fleet)
	if len(usable) == 0 {
		return plan, ErrEmptyFleet
	}

	zones, byZone := groupByZone(prepared, clients)
	for _, zone := range zones {
		plan.Routes = append(plan.Routes, routeZone(zone, byZone[zone], usable, rng)...)
	}

	plan.Stats = summarizeRoutes(plan.Routes)
	return plan, nil
}

func usableFleet(fleet []domain.VehicleType) []domain.VehicleType {
	out := make([]domain.VehicleType, 0, len(fleet))
	for _, v := range fleet {
		if v.Capacity > 0 {
			out = append(out, v)
		}
	}
	return out
}

// groupByZone keeps zones in order of first appearance.
func groupByZone(prepared []domain.PickedOrder, clients map[string]domain.Client) ([]string, map[string][]domain.PickedOrder) {
	var zones []string
	byZone := make(map[string][]domain.PickedOrder)

	for _, p := range prepared {
		zone := resolveZone(p.Order, clients)
		if _, seen := byZone[zone]; !seen {
			zones = append(zones, zone)
		}
		byZone[zone] = append(byZone[zone], p)
	}
	return zones, byZone
}

func resolveZone(order domain.Order, clients map[string]domain.Client) string {
	if client, ok := clients[order.ClientID]; ok && client.Zone != "" {
		return client.Zone
	}
	if order.Zone != "" {
		return order.Zone
	}
	return UnassignedZone
}

func routeZone(zone string, queue []domain.PickedOrder, fleet []domain.VehicleType, rng Rand) []domain.Route {
	var routes []domain.Route

	for len(queue) > 0 {
		vehicle := fleet[rng.Intn(len(fleet))]

		load := 0
		var aboard []string
		var leftover []domain.PickedOrder
		for _, p := range queue {
			if load+p.TotalUnits <= vehicle.Capacity {
				load += p.TotalUnits
				aboard = append(aboard, p.ID)
				continue
			}
			leftover = append(leftover, p)
		}

		if len(aboard) > 0 {
			routes = append(routes, newRoute(zone, vehicle, load, aboard, false))
			queue = leftover
			continue
		}

		// Nothing fit: the head order alone exceeds this vehicle.
		routes = append(routes, splitOrder(zone, queue[0], vehicle, fleet, rng)...)
		queue = queue[1:]
	}

	return routes
}

// splitOrder moves one oversized order in partial legs. The first leg uses
// the vehicle already drawn, every later leg draws a new one.
func splitOrder(zone string, order domain.PickedOrder, first domain.VehicleType, fleet []domain.VehicleType, rng Rand) []domain.Route {
	var legs []domain.Route
	remaining := order.TotalUnits
	vehicle := first

	for remaining > 0 {
		units := min(remaining, vehicle.Capacity)
		legs = append(legs, newRoute(zone, vehicle, units, []string{order.ID}, true))
		remaining -= units
		if remaining > 0 {
			vehicle = fleet[rng.Intn(len(fleet))]
		}
	}
	return legs
}

func newRoute(zone string, vehicle domain.VehicleType, units int, orderIDs []string, partial bool) domain.Route {
	utilization := math.Min(100, float64(units)/float64(vehicle.Capacity)*100)
	return domain.Route{
		Zone:            zone,
		VehicleID:       vehicle.ID,
		VehicleCategory: vehicle.Category,
		Units:           units,
		Capacity:        vehicle.Capacity,
		Utilization:     utilization,
		Cost:            vehicle.CostPerUnit.Mul(decimal.NewFromInt(int64(units))),
		OrderIDs:        orderIDs,
		Partial:         partial,
	}
}

func summarizeRoutes(routes []domain.Route) domain.TransportStats {
	stats := domain.TransportStats{TotalCost: decimal.Zero}
	var utilization float64

	for _, r := range routes {
		stats.VehiclesUsed++
		stats.UnitsTransported += r.Units
		stats.TotalCost = stats.TotalCost.Add(r.Cost)
		utilization += r.Utilization
	}

	if len(routes) > 0 {
		stats.AverageUtilization = utilization / float64(len(routes))
	}
	return stats
}
