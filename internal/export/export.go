package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/andresuchdata/logisim/internal/report"
	"github.com/andresuchdata/logisim/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ReportFile is the name of the rendered executive report.
const ReportFile = "report.txt"

// Bundle is everything an exporter needs about a finished run.
type Bundle struct {
	Run        *pipeline.Run
	Catalog    *catalog.Catalog
	Thresholds pipeline.Thresholds
}

// Sink receives a finished run.
type Sink interface {
	Name() string
	Export(ctx context.Context, b Bundle) error
}

// Render produces every export file keyed by file name.
func Render(b Bundle) (map[string][]byte, error) {
	clients := b.Catalog.ClientIndex()
	products := b.Catalog.ProductIndex()

	files := make(map[string][]byte, len(report.Tables)+1)
	for _, table := range report.Tables {
		var buf bytes.Buffer
		if err := report.WriteTable(&buf, table, b.Run.Results, clients, products); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", table, err)
		}
		files[table+".csv"] = buf.Bytes()
	}

	var buf bytes.Buffer
	summary := report.Summarize(b.Run.Results, b.Thresholds)
	if err := report.WriteExecutive(&buf, summary, fmt.Sprintf("%d-day", b.Run.Days), time.Now()); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	files[ReportFile] = buf.Bytes()

	return files, nil
}

// FileNames lists the rendered files in a stable order.
func FileNames() []string {
	names := make([]string, 0, len(report.Tables)+1)
	for _, table := range report.Tables {
		names = append(names, table+".csv")
	}
	return append(names, ReportFile)
}

// All runs every sink concurrently and returns the first error. Each
// failing sink is logged.
func All(ctx context.Context, sinks []Sink, b Bundle) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range sinks {
		sink := sink
		g.Go(func() error {
			start := time.Now()
			if err := sink.Export(ctx, b); err != nil {
				log.Error().Err(err).Str("sink", sink.Name()).Str("run_id", b.Run.ID).Msg("export failed")
				return fmt.Errorf("%s export: %w", sink.Name(), err)
			}
			log.Info().Str("sink", sink.Name()).Str("run_id", b.Run.ID).Dur("took", time.Since(start)).Msg("run exported")
			return nil
		})
	}
	return g.Wait()
}

// CSVSink writes export files under Dir/<run id>/.
type CSVSink struct {
	Dir string
}

func (s *CSVSink) Name() string { return "csv" }

func (s *CSVSink) Export(_ context.Context, b Bundle) error {
	files, err := Render(b)
	if err != nil {
		return err
	}

	dir := filepath.Join(s.Dir, b.Run.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	for _, name := range FileNames() {
		if err := os.WriteFile(filepath.Join(dir, name), files[name], 0o644); err != nil {
			return fmt.Errorf("failed writing %s: %w", name, err)
		}
	}
	return nil
}

// ObjectSink uploads export files to <Prefix>/<run id>/ in object storage.
type ObjectSink struct {
	Store  storage.ObjectStorage
	Prefix string
}

func (s *ObjectSink) Name() string { return "object-storage" }

func (s *ObjectSink) Export(ctx context.Context, b Bundle) error {
	files, err := Render(b)
	if err != nil {
		return err
	}

	for _, name := range FileNames() {
		key := path.Join(s.Prefix, b.Run.ID, name)
		if err := s.Store.UploadObject(ctx, key, files[name]); err != nil {
			return err
		}
	}
	return nil
}

// RunSaver persists a run into a relational store.
type RunSaver interface {
	SaveRun(ctx context.Context, run *pipeline.Run, orders []report.OrderRow) error
}

// DatabaseSink writes the run and its tables through a RunSaver.
type DatabaseSink struct {
	Repo RunSaver
}

func (s *DatabaseSink) Name() string { return "postgres" }

func (s *DatabaseSink) Export(ctx context.Context, b Bundle) error {
	orders := report.OrderTable(b.Run.Results, b.Catalog.ClientIndex(), b.Catalog.ProductIndex())
	return s.Repo.SaveRun(ctx, b.Run, orders)
}
