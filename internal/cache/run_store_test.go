package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/andresuchdata/logisim/internal/config"
	"github.com/andresuchdata/logisim/internal/domain"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRunStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRunStore(2)

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, ErrRunNotFound)

	a := &pipeline.Run{ID: "a"}
	b := &pipeline.Run{ID: "b"}
	c := &pipeline.Run{ID: "c"}
	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, a, got)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)

	t.Run("evicts oldest", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, c))
		_, err := store.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("delete latest falls back", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "c"))
		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b", latest.ID)
		assert.ErrorIs(t, store.Delete(ctx, "c"), ErrRunNotFound)
	})

	t.Run("resave moves to latest", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, c))
		require.NoError(t, store.Save(ctx, b))
		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "b", latest.ID)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		_, err := store.Latest(ctx)
		assert.ErrorIs(t, err, ErrRunNotFound)
	})
}

func TestNewRunStore_DisabledUsesMemory(t *testing.T) {
	store, err := NewRunStore(config.CacheConfig{})
	require.NoError(t, err)
	assert.IsType(t, &memoryRunStore{}, store)
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisPassword: "secret", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://cache:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 1, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}

// Runs are cached as JSON, so a run must survive the round trip intact.
func TestRunJSONRoundTrip(t *testing.T) {
	run := &pipeline.Run{
		ID:     "r1",
		Seed:   42,
		Days:   1,
		Status: pipeline.StatusCompleted,
		Results: []domain.DayResult{{
			Day: 1,
			Transport: domain.TransportPlan{
				Stats: domain.TransportStats{VehiclesUsed: 1, TotalCost: decimal.RequireFromString("12.5")},
			},
			Alerts: []domain.Alert{{Day: 1, Severity: domain.SeverityCritical, Indicator: "OTIF"}},
		}},
		Inventory: domain.Stock{"P001": 5},
	}

	payload, err := json.Marshal(run)
	require.NoError(t, err)

	var decoded pipeline.Run
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, run.Inventory, decoded.Inventory)
	assert.Equal(t, domain.SeverityCritical, decoded.Results[0].Alerts[0].Severity)
	assert.True(t, decimal.RequireFromString("12.5").Equal(decoded.Results[0].Transport.Stats.TotalCost))
}
