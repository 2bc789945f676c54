package catalog

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog is the static master data of a simulation: what is stocked, who
// orders it and which vehicles move it.
type Catalog struct {
	Products         []domain.Product     `json:"products"`
	Clients          []domain.Client      `json:"clients"`
	Vehicles         []domain.VehicleType `json:"vehicles"`
	InitialInventory domain.Stock         `json:"initial_inventory"`
	Policy           domain.ReorderPolicy `json:"policy"`
}

// Default returns the built-in cosmetics distribution catalog.
func Default() *Catalog {
	c := &Catalog{
		Products: []domain.Product{
			{ID: "P001", Name: "Lipstick", Unit: "boxes"},
			{ID: "P002", Name: "Foundation", Unit: "boxes"},
			{ID: "P003", Name: "Blush", Unit: "boxes"},
			{ID: "P004", Name: "Mascara", Unit: "boxes"},
			{ID: "P005", Name: "Eyeshadow", Unit: "boxes"},
		},
		Clients: []domain.Client{
			{ID: "C01", Name: "AVON", Zone: "East"},
			{ID: "C02", Name: "ESIKA", Zone: "North"},
			{ID: "C03", Name: "ARUMA", Zone: "South"},
			{ID: "F01", Name: "FALABELLA", Zone: "North"},
			{ID: "F02", Name: "FALABELLA", Zone: "South"},
			{ID: "F03", Name: "FALABELLA", Zone: "East"},
			{ID: "F04", Name: "FALABELLA", Zone: "West"},
			{ID: "F05", Name: "FALABELLA", Zone: "Center"},
			{ID: "I01", Name: "INKAFARMA", Zone: "North"},
			{ID: "I02", Name: "INKAFARMA", Zone: "South"},
			{ID: "I03", Name: "INKAFARMA", Zone: "East"},
			{ID: "I04", Name: "INKAFARMA", Zone: "West"},
			{ID: "I05", Name: "INKAFARMA", Zone: "Center"},
		},
		Vehicles: []domain.VehicleType{
			{ID: "V01", Capacity: 100, CostPerUnit: decimal.RequireFromString("4.5"), Category: "Van"},
			{ID: "V02", Capacity: 120, CostPerUnit: decimal.RequireFromString("5.0"), Category: "Truck"},
			{ID: "V03", Capacity: 80, CostPerUnit: decimal.RequireFromString("3.8"), Category: "Panel Van"},
			{ID: "V04", Capacity: 150, CostPerUnit: decimal.RequireFromString("6.2"), Category: "Large Truck"},
			{ID: "V05", Capacity: 90, CostPerUnit: decimal.RequireFromString("4.0"), Category: "Van"},
		},
		InitialInventory: domain.Stock{
			"P001": 60, "P002": 80, "P003": 100, "P004": 50, "P005": 70,
		},
		Policy: domain.ReorderPolicy{
			ReorderPoints: map[string]int{"P001": 20, "P002": 30, "P003": 35, "P004": 25, "P005": 28},
			LotSizes:      map[string]int{"P001": 100, "P002": 150, "P003": 120, "P004": 80, "P005": 90},
		},
	}
	return c
}

// ClientIndex maps client id to client.
func (c *Catalog) ClientIndex() map[string]domain.Client {
	out := make(map[string]domain.Client, len(c.Clients))
	for _, cl := range c.Clients {
		out[cl.ID] = cl
	}
	return out
}

// ProductIndex maps SKU to product.
func (c *Catalog) ProductIndex() map[string]domain.Product {
	out := make(map[string]domain.Product, len(c.Products))
	for _, p := range c.Products {
		out[p.ID] = p
	}
	return out
}

// SKUs returns the product ids in catalog order.
func (c *Catalog) SKUs() []string {
	out := make([]string, 0, len(c.Products))
	for _, p := range c.Products {
		out = append(out, p.ID)
	}
	return out
}

// Validate checks referential consistency: unique ids, a non-empty fleet,
// and inventory or policy entries only for known SKUs.
func (c *Catalog) Validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("catalog has no products")
	}
	if len(c.Clients) == 0 {
		return fmt.Errorf("catalog has no clients")
	}
	if len(c.Vehicles) == 0 {
		return fmt.Errorf("catalog has no vehicles")
	}

	skus := make(map[string]struct{}, len(c.Products))
	for _, p := range c.Products {
		if _, dup := skus[p.ID]; dup {
			return fmt.Errorf("duplicate product %s", p.ID)
		}
		skus[p.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(c.Clients))
	for _, cl := range c.Clients {
		if _, dup := seen[cl.ID]; dup {
			return fmt.Errorf("duplicate client %s", cl.ID)
		}
		seen[cl.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(c.Vehicles))
	for _, v := range c.Vehicles {
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("duplicate vehicle %s", v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	for _, refs := range []map[string]int{c.InitialInventory, c.Policy.ReorderPoints, c.Policy.LotSizes} {
		for sku, qty := range refs {
			if _, ok := skus[sku]; !ok {
				return fmt.Errorf("unknown sku %s", sku)
			}
			if qty < 0 {
				return fmt.Errorf("sku %s: negative quantity %d", sku, qty)
			}
		}
	}

	return nil
}

func sortByID[T any](items []T, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
