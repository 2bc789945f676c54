package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/logisim/internal/app"
	"github.com/andresuchdata/logisim/internal/config"
	"github.com/andresuchdata/logisim/internal/report"
	"github.com/andresuchdata/logisim/internal/service"
	"github.com/urfave/cli/v2"
)

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Run a simulation and print the executive report",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "days",
				Usage:   "Number of days to simulate",
				EnvVars: []string{"SIM_DEFAULT_DAYS"},
			},
			&cli.IntFlag{
				Name:  "capacity",
				Usage: "Daily picking capacity in units",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Random seed; 0 picks a time based seed",
			},
			&cli.StringSliceFlag{
				Name:  "threshold",
				Usage: "Alert threshold override as key=value, e.g. OTIF_minimum=90",
			},
			&cli.StringFlag{
				Name:    "catalog-dir",
				Usage:   "Directory with catalog CSV files",
				EnvVars: []string{"SIM_CATALOG_DIR"},
			},
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "Write CSV exports and the text report under this directory",
			},
			&cli.BoolFlag{
				Name:  "upload",
				Usage: "Upload exports to the configured object storage bucket",
			},
			newDBURLFlag(false),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the report as JSON",
			},
		},
		Action: runSimulate,
	}
}

func runSimulate(c *cli.Context) error {
	cfg := config.Load()
	if dir := c.String("catalog-dir"); dir != "" {
		cfg.Simulation.CatalogDir = dir
	}
	if dir := c.String("export-dir"); dir != "" {
		cfg.Export.CSVEnabled = true
		cfg.Export.Dir = dir
	}
	if c.Bool("upload") {
		cfg.Storage.Enabled = true
	}
	if url := c.String("db-url"); url != "" {
		cfg.Database.Enabled = true
		cfg.Database.URL = url
	}

	thresholds, err := parseThresholdFlags(c.StringSlice("threshold"))
	if err != nil {
		return err
	}

	application, err := app.New(c.Context, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	svc := application.Service()
	run, runErr := svc.Simulate(c.Context, service.SimulationRequest{
		Days:            c.Int("days"),
		PickingCapacity: c.Int("capacity"),
		Seed:            c.Int64("seed"),
		Thresholds:      thresholds,
	})
	if run == nil {
		return runErr
	}

	rep, err := svc.BuildReport(run)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Run %s (seed %d, status %s)\n\n", run.ID, run.Seed, run.Status)
		fmt.Fprintln(out, rep.Text)
		fmt.Fprintln(out, report.RenderAlerts(run.Alerts))
		for _, line := range rep.Recommendations {
			fmt.Fprintln(out, line)
		}
	}

	if runErr != nil {
		return cli.Exit(fmt.Sprintf("simulation failed: %v", runErr), 1)
	}
	return nil
}

// parseThresholdFlags turns key=value pairs into threshold options.
func parseThresholdFlags(values []string) (map[string]float64, error) {
	if len(values) == 0 {
		return nil, nil
	}

	out := make(map[string]float64, len(values))
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("threshold %q must be key=value", raw)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("threshold %q: %w", raw, err)
		}
		out[strings.TrimSpace(key)] = f
	}
	return out, nil
}
