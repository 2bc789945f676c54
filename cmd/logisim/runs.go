package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/andresuchdata/logisim/internal/config"
	"github.com/andresuchdata/logisim/internal/repository/postgres"
	"github.com/urfave/cli/v2"
)

func runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect runs stored in Postgres",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the most recent runs",
				Flags: []cli.Flag{
					newDBURLFlag(true),
					&cli.IntFlag{Name: "limit", Value: 20},
				},
				Action: runRunsList,
			},
			{
				Name:      "show",
				Usage:     "Print the daily KPIs of a run",
				ArgsUsage: "<run id>",
				Flags:     []cli.Flag{newDBURLFlag(true)},
				Action:    runRunsShow,
			},
		},
	}
}

func openRuns(c *cli.Context) (*postgres.RunRepository, func() error, error) {
	db, err := postgres.NewDB(c.Context, config.DatabaseConfig{URL: c.String("db-url"), MaxConcurrentTx: 1})
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewRunRepository(db), db.Close, nil
}

func runRunsList(c *cli.Context) error {
	repo, closeDB, err := openRuns(c)
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := repo.ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDAYS\tSEED\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Status, r.Days, r.Seed, r.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runRunsShow(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("run id argument is required")
	}

	repo, closeDB, err := openRuns(c)
	if err != nil {
		return err
	}
	defer closeDB()

	days, err := repo.DayKPIs(c.Context, id)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return fmt.Errorf("no stored KPIs for run %s", id)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tOTIF\tFILL\tBACKLOG\tPROD\tFLEET\tORDERS\tVEHICLES\tCOST")
	for _, d := range days {
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%d/%d\t%d\t%s\n",
			d.Day, d.OTIF, d.FillRate, d.BacklogRate, d.PickingProductivity, d.FleetUtilization,
			d.OrdersProcessed, d.OrdersTotal, d.VehiclesUsed, d.TransportCost)
	}
	return w.Flush()
}
