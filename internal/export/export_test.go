package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/andresuchdata/logisim/internal/catalog"
	"github.com/andresuchdata/logisim/internal/demand"
	"github.com/andresuchdata/logisim/internal/pipeline"
	"github.com/andresuchdata/logisim/internal/report"
	"github.com/andresuchdata/logisim/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (m *memoryStore) ListObjects(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.ObjectInfo
	for k, v := range m.objects {
		out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
	}
	return out, nil
}

func (m *memoryStore) DownloadObject(context.Context, string, string) error { return nil }

func (m *memoryStore) UploadObject(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = data
	return nil
}

type recordingSaver struct {
	run    *pipeline.Run
	orders []report.OrderRow
}

func (r *recordingSaver) SaveRun(_ context.Context, run *pipeline.Run, orders []report.OrderRow) error {
	r.run, r.orders = run, orders
	return nil
}

func simulatedBundle(t *testing.T) Bundle {
	t.Helper()
	cat := catalog.Default()
	rng, seed := pipeline.NewRand(5)

	gen, err := demand.NewGenerator(cat, demand.DefaultConfig(), rng)
	require.NoError(t, err)

	cfg := pipeline.Config{
		LaborCapacity: 1500,
		Policy:        cat.Policy,
		Fleet:         cat.Vehicles,
		Clients:       cat.ClientIndex(),
		Thresholds:    pipeline.DefaultThresholds(),
		Picking:       pipeline.DefaultPickingConfig(),
	}
	run := pipeline.NewRun(3, 1500, cat.InitialInventory, seed)
	require.NoError(t, pipeline.NewOrchestrator(cfg, rng).Run(context.Background(), run, gen))

	return Bundle{Run: run, Catalog: cat, Thresholds: cfg.Thresholds}
}

func TestRender(t *testing.T) {
	files, err := Render(simulatedBundle(t))
	require.NoError(t, err)

	assert.Len(t, files, len(FileNames()))
	assert.Contains(t, string(files["orders.csv"]), "day,order_id,client_id,client_name,sku,product_name,quantity,zone")
	assert.Contains(t, string(files[ReportFile]), "3-DAY LOGISTICS REPORT")
}

func TestCSVSink(t *testing.T) {
	b := simulatedBundle(t)
	dir := t.TempDir()

	require.NoError(t, (&CSVSink{Dir: dir}).Export(context.Background(), b))

	for _, name := range FileNames() {
		_, err := os.Stat(filepath.Join(dir, b.Run.ID, name))
		assert.NoError(t, err, name)
	}
}

func TestAll(t *testing.T) {
	b := simulatedBundle(t)
	store := &memoryStore{}
	saver := &recordingSaver{}

	err := All(context.Background(), []Sink{
		&ObjectSink{Store: store, Prefix: "runs"},
		&DatabaseSink{Repo: saver},
	}, b)
	require.NoError(t, err)

	assert.Len(t, store.objects, len(FileNames()))
	assert.Contains(t, store.objects, "runs/"+b.Run.ID+"/indicators.csv")
	assert.Same(t, b.Run, saver.run)
	assert.NotEmpty(t, saver.orders)
}

func TestAll_ReportsSinkFailure(t *testing.T) {
	boom := errors.New("bucket unavailable")
	err := All(context.Background(), []Sink{&ObjectSink{Store: &memoryStore{err: boom}}}, simulatedBundle(t))

	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "object-storage export")
}
