package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/logisim/internal/domain"
)

// OrderRow is one order line in the flat orders table.
type OrderRow struct {
	Day         int    `json:"day" db:"day"`
	OrderID     string `json:"order_id" db:"order_id"`
	ClientID    string `json:"client_id" db:"client_id"`
	ClientName  string `json:"client_name" db:"client_name"`
	SKU         string `json:"sku" db:"sku"`
	ProductName string `json:"product_name" db:"product_name"`
	Quantity    int    `json:"quantity" db:"quantity"`
	Zone        string `json:"zone" db:"zone"`
}

// OrderTable flattens the orders of every day into one row per line, in
// arrival order and SKU order within an order. Unknown ids keep an empty name.
func OrderTable(results []domain.DayResult, clients map[string]domain.Client, products map[string]domain.Product) []OrderRow {
	rows := make([]OrderRow, 0)
	for _, r := range results {
		for _, o := range r.Orders {
			for _, sku := range o.SKUs() {
				rows = append(rows, OrderRow{
					Day:         o.Day,
					OrderID:     o.ID,
					ClientID:    o.ClientID,
					ClientName:  clients[o.ClientID].Name,
					SKU:         sku,
					ProductName: products[sku].Name,
					Quantity:    o.Lines[sku],
					Zone:        o.Zone,
				})
			}
		}
	}
	return rows
}

// RouteRow is one vehicle load of a day.
type RouteRow struct {
	Day int `json:"day"`
	domain.Route
}

// RouteTable flattens the routes of every day.
func RouteTable(results []domain.DayResult) []RouteRow {
	rows := make([]RouteRow, 0)
	for _, r := range results {
		for _, route := range r.Transport.Routes {
			rows = append(rows, RouteRow{Day: r.Day, Route: route})
		}
	}
	return rows
}

// Table names, also used as CSV file stems by exporters.
const (
	TableOrders     = "orders"
	TableIndicators = "indicators"
	TableRoutes     = "routes"
	TableAlerts     = "alerts"
)

// Tables lists every table in export order.
var Tables = []string{TableOrders, TableIndicators, TableRoutes, TableAlerts}

// WriteTable writes the named table as CSV.
func WriteTable(w io.Writer, table string, results []domain.DayResult, clients map[string]domain.Client, products map[string]domain.Product) error {
	switch table {
	case TableOrders:
		return WriteOrders(w, OrderTable(results, clients, products))
	case TableIndicators:
		return WriteIndicators(w, results)
	case TableRoutes:
		return WriteRoutes(w, RouteTable(results))
	case TableAlerts:
		return WriteAlerts(w, results)
	default:
		return fmt.Errorf("unknown table %q", table)
	}
}

// WriteOrders writes the orders table as CSV.
func WriteOrders(w io.Writer, rows []OrderRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "order_id", "client_id", "client_name", "sku", "product_name", "quantity", "zone"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Day),
			r.OrderID,
			r.ClientID,
			r.ClientName,
			r.SKU,
			r.ProductName,
			strconv.Itoa(r.Quantity),
			r.Zone,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIndicators writes one scorecard row per day.
func WriteIndicators(w io.Writer, results []domain.DayResult) error {
	cw := csv.NewWriter(w)
	headers := []string{
		"day",
		"otif",
		"fill_rate",
		"backlog_rate",
		"picking_productivity",
		"fleet_utilization",
		"orders_total",
		"orders_processed",
		"units_requested",
		"units_delivered",
		"units_pending",
		"vehicles_used",
		"transport_cost",
		"alerts",
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, r := range results {
		ind := r.Indicators
		rec := []string{
			strconv.Itoa(r.Day),
			formatFloat(ind.OTIF),
			formatFloat(ind.FillRate),
			formatFloat(ind.BacklogRate),
			formatFloat(ind.PickingProductivity),
			formatFloat(ind.FleetUtilization),
			strconv.Itoa(ind.OrdersTotal),
			strconv.Itoa(ind.OrdersProcessed),
			strconv.Itoa(ind.UnitsRequested),
			strconv.Itoa(ind.UnitsDelivered),
			strconv.Itoa(ind.UnitsPending),
			strconv.Itoa(r.Transport.Stats.VehiclesUsed),
			r.Transport.Stats.TotalCost.StringFixed(2),
			strconv.Itoa(len(r.Alerts)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRoutes writes the routes table as CSV.
func WriteRoutes(w io.Writer, rows []RouteRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "zone", "vehicle_id", "vehicle_category", "units", "capacity", "utilization_pct", "cost", "order_ids", "partial"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Day),
			r.Zone,
			r.VehicleID,
			r.VehicleCategory,
			strconv.Itoa(r.Units),
			strconv.Itoa(r.Capacity),
			formatFloat(r.Utilization),
			r.Cost.StringFixed(2),
			strings.Join(r.OrderIDs, ";"),
			strconv.FormatBool(r.Partial),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAlerts writes every alert of the run as CSV.
func WriteAlerts(w io.Writer, results []domain.DayResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"day", "severity", "indicator", "value", "message", "recommendation"}); err != nil {
		return err
	}
	for _, r := range results {
		for _, a := range r.Alerts {
			rec := []string{
				strconv.Itoa(a.Day),
				a.Severity.String(),
				a.Indicator,
				formatFloat(a.Value),
				a.Message,
				a.Recommendation,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
