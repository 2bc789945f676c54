// internal/domain/models.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product represents a stocked SKU
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Client represents a delivery destination
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Zone string `json:"zone"`
}

// VehicleType represents a transport capacity class
type VehicleType struct {
	ID          string          `json:"id"`
	Capacity    int             `json:"capacity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Category    string          `json:"category"`
}

// NewProduct creates a validated Product
func NewProduct(id, name, unit string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, fmt.Errorf("product id cannot be empty")
	}
	return Product{ID: id, Name: strings.TrimSpace(name), Unit: strings.TrimSpace(unit)}, nil
}

// NewClient creates a validated Client
func NewClient(id, name, zone string) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, fmt.Errorf("client id cannot be empty")
	}
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return Client{}, fmt.Errorf("client %s: zone cannot be empty", id)
	}
	return Client{ID: id, Name: strings.TrimSpace(name), Zone: zone}, nil
}

// NewVehicleType creates a validated VehicleType
func NewVehicleType(id string, capacity int, costPerUnit decimal.Decimal, category string) (VehicleType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return VehicleType{}, fmt.Errorf("vehicle id cannot be empty")
	}
	if capacity <= 0 {
		return VehicleType{}, fmt.Errorf("vehicle %s: capacity must be positive, got %d", id, capacity)
	}
	if costPerUnit.IsNegative() {
		return VehicleType{}, fmt.Errorf("vehicle %s: cost per unit cannot be negative, got %s", id, costPerUnit)
	}
	return VehicleType{
		ID:          id,
		Capacity:    capacity,
		CostPerUnit: costPerUnit,
		Category:    strings.TrimSpace(category),
	}, nil
}
