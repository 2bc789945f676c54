package domain

import "sort"

// DefaultLotSize is used when a SKU has a reorder point but no lot size.
const DefaultLotSize = 100

// Stock maps SKU -> quantity on hand. Quantities are never negative.
type Stock map[string]int

// Clone returns an independent copy.
func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	for sku, qty := range s {
		out[sku] = qty
	}
	return out
}

// Get returns the quantity on hand; absent SKUs have zero stock.
func (s Stock) Get(sku string) int {
	if qty, ok := s[sku]; ok && qty > 0 {
		return qty
	}
	return 0
}

// Total returns the number of units on hand across all SKUs.
func (s Stock) Total() int {
	total := 0
	for _, qty := range s {
		total += qty
	}
	return total
}

// SKUs returns the stocked SKUs in lexical order.
func (s Stock) SKUs() []string {
	skus := make([]string, 0, len(s))
	for sku := range s {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

// ReorderPolicy holds the replenishment trigger per SKU.
type ReorderPolicy struct {
	ReorderPoints map[string]int `json:"reorder_points"`
	LotSizes      map[string]int `json:"lot_sizes"`
}

// LotSize returns the configured lot for sku, or DefaultLotSize.
func (p ReorderPolicy) LotSize(sku string) int {
	if lot, ok := p.LotSizes[sku]; ok && lot > 0 {
		return lot
	}
	return DefaultLotSize
}

// ReorderPoint returns the threshold for sku and whether one is configured.
func (p ReorderPolicy) ReorderPoint(sku string) (int, bool) {
	point, ok := p.ReorderPoints[sku]
	return point, ok
}
