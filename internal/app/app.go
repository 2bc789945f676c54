// Package app wires configuration into the simulation service and its
// optional backends.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/logisim/internal/cache"
	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/config"
	"github.com/andresuchdata/logisim/internal/demand"
	"github.com/andresuchdata/logisim/internal/export"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/andresuchdata/logisim/internal/repository/postgres"
	"github.com/andresuchdata/logisim/internal/service"
	"github.com/andresuchdata/logisim/internal/storage"
	"github.com/rs/zerolog/log"
)

// App holds the process-wide dependencies.
type App struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Store   cache.RunStore
	Sinks   []export.Sink
	Runs    *postgres.RunRepository

	closers []func() error
}

// New builds the catalog, run store and export sinks enabled in cfg.
// Backends that are switched off are skipped; a switched-on backend that
// cannot be reached is an error.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	cat, err := LoadCatalog(cfg.Simulation.CatalogDir)
	if err != nil {
		return nil, err
	}
	a.Catalog = cat

	store, err := cache.NewRunStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create run store: %w", err)
	}
	a.Store = store

	if err := a.wireSinks(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	return a, nil
}

// LoadCatalog reads catalog CSV files from dir, or returns the built-in
// catalog when dir is empty.
func LoadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", dir, err)
	}
	log.Info().Str("dir", dir).
		Int("products", len(cat.Products)).
		Int("clients", len(cat.Clients)).
		Int("vehicles", len(cat.Vehicles)).
		Msg("catalog loaded")
	return cat, nil
}

func (a *App) wireSinks(ctx context.Context) error {
	cfg := a.Config

	if cfg.Export.CSVEnabled {
		a.Sinks = append(a.Sinks, &export.CSVSink{Dir: cfg.Export.Dir})
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to create object storage client: %w", err)
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to prepare bucket: %w", err)
		}
		a.Sinks = append(a.Sinks, &export.ObjectSink{Store: client, Prefix: cfg.Storage.Prefix})
	}

	if cfg.Database.Enabled {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)

		repo := postgres.NewRunRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
		a.Runs = repo
		a.Sinks = append(a.Sinks, &export.DatabaseSink{Repo: repo})
	}

	names := make([]string, 0, len(a.Sinks))
	for _, s := range a.Sinks {
		names = append(names, s.Name())
	}
	log.Info().Strs("sinks", names).Msg("export sinks configured")
	return nil
}

// Service returns a simulation service bound to the app dependencies.
func (a *App) Service() *service.SimulationService {
	return service.NewSimulationService(a.Catalog, a.Store, a.Sinks, ServiceOptions(a.Config))
}

// ServiceOptions maps configuration onto service defaults.
func ServiceOptions(cfg *config.Config) service.Options {
	opts := service.DefaultOptions()
	sim := cfg.Simulation

	if sim.DefaultDays > 0 {
		opts.DefaultDays = sim.DefaultDays
	}
	if sim.MaxDays > 0 {
		opts.MaxDays = sim.MaxDays
	}
	if sim.PickingCapacity > 0 {
		opts.PickingCapacity = sim.PickingCapacity
	}
	opts.Seed = sim.Seed
	opts.Thresholds = cfg.Alerts.Thresholds()
	opts.Picking = pipeline.PickingConfig{
		EfficiencyMin: sim.EfficiencyMin,
		EfficiencyMax: sim.EfficiencyMax,
		ErrorRate:     sim.ErrorRate,
	}
	opts.Demand = demand.DefaultConfig()
	if cfg.Export.TimeoutSeconds > 0 {
		opts.ExportTimeout = time.Duration(cfg.Export.TimeoutSeconds) * time.Second
	}
	return opts
}

// Close releases every opened backend.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
