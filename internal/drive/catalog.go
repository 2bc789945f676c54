package drive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/rs/zerolog/log"
)

// Source is the part of Service the catalog puller needs.
type Source interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

// PullOptions selects the Drive folder holding the catalog CSV files. The
// folder is resolved from FolderPath when FolderID is empty.
type PullOptions struct {
	FolderID    string
	FolderPath  string
	DownloadDir string
}

// CatalogPuller downloads catalog CSV files from a Drive folder.
type CatalogPuller struct {
	source Source
}

func NewCatalogPuller(source Source) *CatalogPuller {
	return &CatalogPuller{source: source}
}

// Pull downloads every known catalog file found in the folder into
// DownloadDir and returns the local paths. Other files are ignored.
func (p *CatalogPuller) Pull(ctx context.Context, opts PullOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	folderID := opts.FolderID
	if folderID == "" && opts.FolderPath != "" {
		id, err := p.source.FindFolderByPath(ctx, opts.FolderPath)
		if err != nil {
			return nil, err
		}
		folderID = id
	}

	files, err := p.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !slices.Contains(catalog.Files, f.Name) {
			log.Debug().Str("file", f.Name).Msg("drive: skipping non-catalog file")
			continue
		}

		localPath := filepath.Join(opts.DownloadDir, f.Name)
		if err := p.download(ctx, f, localPath); err != nil {
			return nil, err
		}
		log.Info().Str("file", f.Name).Str("path", localPath).Msg("drive: catalog file downloaded")
		localPaths = append(localPaths, localPath)
	}

	return localPaths, nil
}

func (p *CatalogPuller) download(ctx context.Context, f *File, localPath string) error {
	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}
	defer out.Close()

	if err := p.source.DownloadFile(ctx, f.ID, out); err != nil {
		return fmt.Errorf("failed to download %s: %w", f.Name, err)
	}
	return nil
}
