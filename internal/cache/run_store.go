package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/andresuchdata/logisim/internal/config"
	"github.com/andresuchdata/logisim/internal/pipeline"
)

// ErrRunNotFound is returned when a run id is unknown or expired.
var ErrRunNotFound = errors.New("simulation run not found")

// RunStore keeps finished runs for later retrieval. It is a process-level
// convenience, not durable storage.
type RunStore interface {
	Save(ctx context.Context, run *pipeline.Run) error
	Get(ctx context.Context, id string) (*pipeline.Run, error)
	Latest(ctx context.Context) (*pipeline.Run, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// NewRunStore returns a Redis-backed store when caching is enabled and an
// in-memory one otherwise.
func NewRunStore(cfg config.CacheConfig) (RunStore, error) {
	if !cfg.Enabled {
		return NewMemoryRunStore(DefaultMemoryRuns), nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisRunStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// DefaultMemoryRuns is the number of runs the memory store keeps.
const DefaultMemoryRuns = 50

type memoryRunStore struct {
	mu    sync.RWMutex
	limit int
	runs  map[string]*pipeline.Run
	order []string // oldest first
}

// NewMemoryRunStore creates a store holding at most limit runs; the oldest
// run is evicted first.
func NewMemoryRunStore(limit int) RunStore {
	if limit <= 0 {
		limit = DefaultMemoryRuns
	}
	return &memoryRunStore{
		limit: limit,
		runs:  make(map[string]*pipeline.Run),
	}
}

func (s *memoryRunStore) Save(_ context.Context, run *pipeline.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; exists {
		s.removeFromOrder(run.ID)
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)

	for len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
	}
	return nil
}

func (s *memoryRunStore) Get(_ context.Context, id string) (*pipeline.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

func (s *memoryRunStore) Latest(_ context.Context) (*pipeline.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil, ErrRunNotFound
	}
	return s.runs[s.order[len(s.order)-1]], nil
}

func (s *memoryRunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return ErrRunNotFound
	}
	delete(s.runs, id)
	s.removeFromOrder(id)
	return nil
}

func (s *memoryRunStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]*pipeline.Run)
	s.order = nil
	return nil
}

func (s *memoryRunStore) removeFromOrder(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
