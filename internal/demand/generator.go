package demand

import (
	"fmt"

	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/andresuchdata/logisim/internal/pipeline"
)

// Config bounds the random demand of a day. All ranges are inclusive.
type Config struct {
	MinOrders int
	MaxOrders int
	MinLines  int
	MaxLines  int
	MinQty    int
	MaxQty    int
	// IDStride spaces order ids between days: the i-th order of day d gets
	// id (d-1)*IDStride+i+1.
	IDStride int
}

// DefaultConfig returns 12-20 orders of 1-3 lines with 5-40 units each.
func DefaultConfig() Config {
	return Config{
		MinOrders: 12,
		MaxOrders: 20,
		MinLines:  1,
		MaxLines:  3,
		MinQty:    5,
		MaxQty:    40,
		IDStride:  20,
	}
}

func (c Config) validate() error {
	switch {
	case c.MinOrders < 0 || c.MaxOrders < c.MinOrders:
		return fmt.Errorf("invalid order range [%d, %d]", c.MinOrders, c.MaxOrders)
	case c.MinLines < 1 || c.MaxLines < c.MinLines:
		return fmt.Errorf("invalid line range [%d, %d]", c.MinLines, c.MaxLines)
	case c.MinQty < 1 || c.MaxQty < c.MinQty:
		return fmt.Errorf("invalid quantity range [%d, %d]", c.MinQty, c.MaxQty)
	case c.IDStride < 1:
		return fmt.Errorf("id stride must be positive, got %d", c.IDStride)
	}
	return nil
}

// Generator draws daily orders from a catalog. It implements
// pipeline.DemandSource.
type Generator struct {
	cfg     Config
	clients []domain.Client
	skus    []string
	rng     pipeline.Rand
}

// NewGenerator creates a new Generator. Draws come from rng, which is
// normally the same source the pipeline uses.
func NewGenerator(cat *catalog.Catalog, cfg Config, rng pipeline.Rand) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(cat.Clients) == 0 {
		return nil, fmt.Errorf("demand generator needs at least one client")
	}
	if len(cat.Products) == 0 {
		return nil, fmt.Errorf("demand generator needs at least one product")
	}

	return &Generator{
		cfg:     cfg,
		clients: append([]domain.Client(nil), cat.Clients...),
		skus:    cat.SKUs(),
		rng:     rng,
	}, nil
}

// Orders returns the orders arriving on day, in arrival order. A SKU drawn
// twice for the same order keeps the last quantity drawn.
func (g *Generator) Orders(day int) ([]domain.Order, error) {
	n := g.between(g.cfg.MinOrders, g.cfg.MaxOrders)
	orders := make([]domain.Order, 0, n)

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%03d", (day-1)*g.cfg.IDStride+i+1)
		client := g.clients[g.rng.Intn(len(g.clients))]

		lines := make(map[string]int)
		for l := g.between(g.cfg.MinLines, g.cfg.MaxLines); l > 0; l-- {
			sku := g.skus[g.rng.Intn(len(g.skus))]
			lines[sku] = g.between(g.cfg.MinQty, g.cfg.MaxQty)
		}

		order, err := domain.NewOrder(id, client, day, lines)
		if err != nil {
			return nil, fmt.Errorf("failed to build order %s: %w", id, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}
