package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Order is one customer request for one simulated day.
// Lines maps SKU -> requested quantity and is never mutated after creation.
type Order struct {
	ID       string         `json:"id"`
	ClientID string         `json:"client_id"`
	Day      int            `json:"day"`
	Zone     string         `json:"zone"`
	Lines    map[string]int `json:"lines"`
}

// NewOrder creates a validated Order. The zone is copied from the client.
func NewOrder(id string, client Client, day int, lines map[string]int) (Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Order{}, fmt.Errorf("order id cannot be empty")
	}
	if day < 1 {
		return Order{}, fmt.Errorf("order %s: day must be >= 1, got %d", id, day)
	}
	if len(lines) == 0 {
		return Order{}, fmt.Errorf("order %s: at least one line is required", id)
	}

	copied := make(map[string]int, len(lines))
	for sku, qty := range lines {
		if qty <= 0 {
			return Order{}, fmt.Errorf("order %s: quantity for %s must be positive, got %d", id, sku, qty)
		}
		copied[sku] = qty
	}

	return Order{
		ID:       id,
		ClientID: client.ID,
		Day:      day,
		Zone:     client.Zone,
		Lines:    copied,
	}, nil
}

// TotalUnits returns the sum of requested quantities. Non-positive quantities
// on hand-built orders count as zero.
func (o Order) TotalUnits() int {
	total := 0
	for _, qty := range o.Lines {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// SKUs returns the order's SKUs in lexical order.
func (o Order) SKUs() []string {
	skus := make([]string, 0, len(o.Lines))
	for sku := range o.Lines {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

// TotalRequested sums TotalUnits over a day's orders.
func TotalRequested(orders []Order) int {
	total := 0
	for _, o := range orders {
		total += o.TotalUnits()
	}
	return total
}
