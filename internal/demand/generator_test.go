package demand

import (
	"math/rand"
	"testing"

	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_OrdersWithinBounds(t *testing.T) {
	cat := catalog.Default()
	gen, err := NewGenerator(cat, DefaultConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	clients := cat.ClientIndex()
	products := cat.ProductIndex()

	for day := 1; day <= 30; day++ {
		orders, err := gen.Orders(day)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, len(orders), 12)
		assert.LessOrEqual(t, len(orders), 20)

		for _, o := range orders {
			assert.Equal(t, day, o.Day)
			client, ok := clients[o.ClientID]
			require.True(t, ok, "unknown client %s", o.ClientID)
			assert.Equal(t, client.Zone, o.Zone)

			assert.GreaterOrEqual(t, len(o.Lines), 1)
			assert.LessOrEqual(t, len(o.Lines), 3)
			for sku, qty := range o.Lines {
				assert.Contains(t, products, sku)
				assert.GreaterOrEqual(t, qty, 5)
				assert.LessOrEqual(t, qty, 40)
			}
		}
	}
}

func TestGenerator_OrderIDs(t *testing.T) {
	gen, err := NewGenerator(catalog.Default(), DefaultConfig(), rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	day1, err := gen.Orders(1)
	require.NoError(t, err)
	day3, err := gen.Orders(3)
	require.NoError(t, err)

	assert.Equal(t, "001", day1[0].ID)
	assert.Equal(t, "002", day1[1].ID)
	assert.Equal(t, "041", day3[0].ID)
}

func TestGenerator_SameSeedSameDemand(t *testing.T) {
	generate := func() [][]string {
		gen, err := NewGenerator(catalog.Default(), DefaultConfig(), rand.New(rand.NewSource(99)))
		require.NoError(t, err)

		var ids [][]string
		for day := 1; day <= 5; day++ {
			orders, err := gen.Orders(day)
			require.NoError(t, err)
			var dayIDs []string
			for _, o := range orders {
				dayIDs = append(dayIDs, o.ID+"/"+o.ClientID)
			}
			ids = append(ids, dayIDs)
		}
		return ids
	}

	assert.Equal(t, generate(), generate())
}

func TestNewGenerator_Validation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	bad := DefaultConfig()
	bad.MaxQty = 1
	_, err := NewGenerator(catalog.Default(), bad, rng)
	assert.ErrorContains(t, err, "quantity range")

	empty := catalog.Default()
	empty.Clients = nil
	_, err = NewGenerator(empty, DefaultConfig(), rng)
	assert.ErrorContains(t, err, "client")
}
