package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/config"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/andresuchdata/logisim/internal/service"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	return config.FromViper(v)
}

func TestServiceOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Simulation.DefaultDays = 10
	cfg.Simulation.Seed = 99
	cfg.Alerts.OTIFMinimum = 80
	cfg.Export.TimeoutSeconds = 5

	opts := ServiceOptions(cfg)

	assert.Equal(t, 10, opts.DefaultDays)
	assert.Equal(t, int64(99), opts.Seed)
	assert.Equal(t, 80.0, opts.Thresholds[pipeline.ThresholdOTIFMinimum])
	assert.Equal(t, pipeline.DefaultPickingConfig(), opts.Picking)
	assert.Equal(t, 5*time.Second, opts.ExportTimeout)
}

func TestNew_DefaultsAndCSVSink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export.CSVEnabled = true
	cfg.Export.Dir = t.TempDir()

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, catalog.Default(), a.Catalog)
	require.Len(t, a.Sinks, 1)
	assert.Equal(t, "csv", a.Sinks[0].Name())
	assert.Nil(t, a.Runs)

	run, err := a.Service().Simulate(context.Background(), service.SimulationRequest{Days: 2, Seed: 4})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.Export.Dir, run.ID, "report.txt"))
	assert.NoError(t, err)
}

func TestLoadCatalog_MissingDir(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestNew_StorageNeedsCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Enabled = true

	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "object storage")
}
