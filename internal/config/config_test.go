package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := FromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 1500, cfg.Simulation.PickingCapacity)
	assert.Equal(t, 7, cfg.Simulation.DefaultDays)
	assert.InDelta(t, 0.02, cfg.Simulation.ErrorRate, 1e-12)
	assert.Equal(t, 95.0, cfg.Alerts.OTIFMinimum)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 86400, cfg.Cache.RunTTLSeconds)
	assert.Equal(t, "logisim", cfg.Storage.Bucket)
	assert.Equal(t, "logisim", cfg.Telemetry.ServiceName)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("SIM_PICKING_CAPACITY", "900")
	t.Setenv("SIM_SEED", "1234")
	t.Setenv("ALERT_FILL_RATE_MINIMUM", "90.5")
	t.Setenv("CACHE_ENABLED", "true")

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := FromViper(v)

	assert.Equal(t, 900, cfg.Simulation.PickingCapacity)
	assert.Equal(t, int64(1234), cfg.Simulation.Seed)
	assert.Equal(t, 90.5, cfg.Alerts.FillRateMinimum)
	assert.True(t, cfg.Cache.Enabled)
}

func TestAlertsConfig_Thresholds(t *testing.T) {
	a := AlertsConfig{OTIFMinimum: 90, FillRateMinimum: 97, FleetUtilizationMaximum: 80, BacklogRateMaximum: 4, PickingProductivityMinimum: 120}

	th := a.Thresholds()

	assert.Len(t, th, 5)
	assert.Equal(t, 90.0, th["OTIF_minimum"])
	assert.Equal(t, 120.0, th["PickingProductivity_minimum"])
}
