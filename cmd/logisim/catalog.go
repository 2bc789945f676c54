package main

import (
	"fmt"
	"os"
	"path"
	"slices"

	"github.com/andresuchdata/logisim/internal/app"
	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/config"
	"github.com/andresuchdata/logisim/internal/drive"
	"github.com/andresuchdata/logisim/internal/storage"
	"github.com/urfave/cli/v2"
)

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Fetch and check catalog CSV files",
		Subcommands: []*cli.Command{
			{
				Name:  "pull",
				Usage: "Download catalog files from a Google Drive folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "credentials",
						Usage:   "Service account JSON key file",
						EnvVars: []string{"DRIVE_CREDENTIALS_FILE"},
					},
					&cli.StringFlag{
						Name:    "folder-id",
						Usage:   "Drive folder id",
						EnvVars: []string{"DRIVE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:    "folder-path",
						Usage:   "Drive folder path, used when no folder id is given",
						EnvVars: []string{"DRIVE_FOLDER_PATH"},
					},
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Local download directory",
						Value:   "./data/catalog",
						EnvVars: []string{"DRIVE_DOWNLOAD_DIR"},
					},
				},
				Action: runCatalogPull,
			},
			{
				Name:  "fetch",
				Usage: "Download catalog files from the object storage bucket",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix holding the catalog files",
						Value: "catalog",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Local download directory",
						Value: "./data/catalog",
					},
				},
				Action: runCatalogFetch,
			},
			{
				Name:      "check",
				Usage:     "Load and validate a catalog directory",
				ArgsUsage: "<dir>",
				Action:    runCatalogCheck,
			},
		},
	}
}

func runCatalogPull(c *cli.Context) error {
	credentialsFile := c.String("credentials")
	if credentialsFile == "" {
		return fmt.Errorf("a service account credentials file is required")
	}
	credentials, err := os.ReadFile(credentialsFile)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	svc, err := drive.NewService(c.Context, credentials)
	if err != nil {
		return err
	}

	paths, err := drive.NewCatalogPuller(svc).Pull(c.Context, drive.PullOptions{
		FolderID:    c.String("folder-id"),
		FolderPath:  c.String("folder-path"),
		DownloadDir: c.String("dir"),
	})
	if err != nil {
		return err
	}

	return printCatalog(c, c.String("dir"), paths)
}

func runCatalogFetch(c *cli.Context) error {
	cfg := config.Load().Storage
	client, err := storage.NewMinioClient(storage.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return err
	}

	paths, err := storage.DownloadPrefix(c.Context, client, c.String("prefix"), c.String("dir"), func(key string) bool {
		return slices.Contains(catalog.Files, path.Base(key))
	})
	if err != nil {
		return err
	}

	return printCatalog(c, c.String("dir"), paths)
}

func runCatalogCheck(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("catalog directory argument is required")
	}
	return printCatalog(c, dir, nil)
}

func printCatalog(c *cli.Context, dir string, downloaded []string) error {
	for _, p := range downloaded {
		fmt.Fprintf(c.App.Writer, "downloaded %s\n", p)
	}

	cat, err := app.LoadCatalog(dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "catalog ok: %d products, %d clients, %d vehicle types, %d SKUs with reorder points\n",
		len(cat.Products), len(cat.Clients), len(cat.Vehicles), len(cat.Policy.ReorderPoints))
	return nil
}
