package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// File names looked up by LoadDir.
const (
	ProductsFile  = "products.csv"
	ClientsFile   = "clients.csv"
	VehiclesFile  = "vehicles.csv"
	InventoryFile = "inventory.csv"
)

// Files lists every catalog file in load order.
var Files = []string{ProductsFile, ClientsFile, VehiclesFile, InventoryFile}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", "-", "", ".", "")

func normalizeColumnName(name string) string {
	return columnNameSanitizer.Replace(strings.TrimSpace(strings.ToLower(name)))
}

// LoadDir builds a catalog from the CSV files in dir. A missing file keeps
// the matching section of the default catalog.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog dir %s is not a directory", dir)
	}

	c := Default()

	loaders := map[string]func(*csvTable) error{
		ProductsFile:  c.loadProducts,
		ClientsFile:   c.loadClients,
		VehiclesFile:  c.loadVehicles,
		InventoryFile: c.loadInventory,
	}

	for _, name := range Files {
		path := filepath.Join(dir, name)
		table, err := readTable(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("file", path).Msg("catalog file not found, using defaults")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := loaders[name](table); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}

	sortByID(c.Products, func(p domain.Product) string { return p.ID })
	sortByID(c.Clients, func(cl domain.Client) string { return cl.ID })
	sortByID(c.Vehicles, func(v domain.VehicleType) string { return v.ID })

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog in %s: %w", dir, err)
	}
	return c, nil
}

// csvTable is a header-indexed CSV file.
type csvTable struct {
	header  []string
	records [][]string
}

func readTable(path string) (*csvTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseTable(file)
}

func parseTable(r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	t := &csvTable{header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		t.records = append(t.records, record)
	}
	return t, nil
}

// colIndex returns the position of the first header matching any of names.
func (t *csvTable) colIndex(names ...string) int {
	for _, name := range names {
		target := normalizeColumnName(name)
		for i, h := range t.header {
			if normalizeColumnName(h) == target {
				return i
			}
		}
	}
	return -1
}

func (t *csvTable) require(names ...string) (int, error) {
	idx := t.colIndex(names...)
	if idx < 0 {
		return -1, fmt.Errorf("missing column %q", names[0])
	}
	return idx, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func intField(record []string, idx int, line int) (int, error) {
	v := field(record, idx)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid integer %q", line, v)
	}
	return n, nil
}

func (c *Catalog) loadProducts(t *csvTable) error {
	idxID, err := t.require("id", "sku")
	if err != nil {
		return err
	}
	idxName := t.colIndex("name", "product name")
	idxUnit := t.colIndex("unit")

	products := make([]domain.Product, 0, len(t.records))
	for i, record := range t.records {
		p, err := domain.NewProduct(field(record, idxID), field(record, idxName), field(record, idxUnit))
		if err != nil {
			return fmt.Errorf("line %d: %w", i+2, err)
		}
		products = append(products, p)
	}
	c.Products = products
	return nil
}

func (c *Catalog) loadClients(t *csvTable) error {
	idxID, err := t.require("id", "client id")
	if err != nil {
		return err
	}
	idxZone, err := t.require("zone")
	if err != nil {
		return err
	}
	idxName := t.colIndex("name", "client name")

	clients := make([]domain.Client, 0, len(t.records))
	for i, record := range t.records {
		cl, err := domain.NewClient(field(record, idxID), field(record, idxName), field(record, idxZone))
		if err != nil {
			return fmt.Errorf("line %d: %w", i+2, err)
		}
		clients = append(clients, cl)
	}
	c.Clients = clients
	return nil
}

func (c *Catalog) loadVehicles(t *csvTable) error {
	idxID, err := t.require("id", "vehicle id")
	if err != nil {
		return err
	}
	idxCap, err := t.require("capacity")
	if err != nil {
		return err
	}
	idxCost, err := t.require("cost_per_unit", "cost")
	if err != nil {
		return err
	}
	idxCategory := t.colIndex("category", "type")

	vehicles := make([]domain.VehicleType, 0, len(t.records))
	for i, record := range t.records {
		line := i + 2
		capacity, err := intField(record, idxCap, line)
		if err != nil {
			return err
		}
		cost, err := decimal.NewFromString(field(record, idxCost))
		if err != nil {
			return fmt.Errorf("line %d: invalid cost %q", line, field(record, idxCost))
		}
		v, err := domain.NewVehicleType(field(record, idxID), capacity, cost, field(record, idxCategory))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		vehicles = append(vehicles, v)
	}
	c.Vehicles = vehicles
	return nil
}

func (c *Catalog) loadInventory(t *csvTable) error {
	idxSKU, err := t.require("sku")
	if err != nil {
		return err
	}
	idxStock, err := t.require("initial_stock", "stock")
	if err != nil {
		return err
	}
	idxPoint := t.colIndex("reorder_point")
	idxLot := t.colIndex("lot_size")

	stock := make(domain.Stock, len(t.records))
	policy := domain.ReorderPolicy{
		ReorderPoints: make(map[string]int),
		LotSizes:      make(map[string]int),
	}

	for i, record := range t.records {
		line := i + 2
		sku := field(record, idxSKU)
		if sku == "" {
			return fmt.Errorf("line %d: sku cannot be empty", line)
		}

		qty, err := intField(record, idxStock, line)
		if err != nil {
			return err
		}
		stock[sku] = qty

		if field(record, idxPoint) != "" {
			point, err := intField(record, idxPoint, line)
			if err != nil {
				return err
			}
			policy.ReorderPoints[sku] = point
		}
		if field(record, idxLot) != "" {
			lot, err := intField(record, idxLot, line)
			if err != nil {
				return err
			}
			policy.LotSizes[sku] = lot
		}
	}

	c.InitialInventory = stock
	c.Policy = policy
	return nil
}
