package archive

import (
	"context"
	"slices"
	"sync"
)

// DefaultMemoryCapacity is the number of runs a MemoryStore keeps.
const DefaultMemoryCapacity = 1000

// MemoryStore keeps the most recent runs in memory. When full, the oldest
// run is evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	order    []string // oldest first
	runs     map[string]*Run
}

// NewMemoryStore creates a store holding at most capacity runs
// (DefaultMemoryCapacity if capacity <= 0).
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{capacity: capacity, runs: make(map[string]*Run)}
}

func (s *MemoryStore) Save(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == run.ID })
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)

	for len(s.order) > s.capacity {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, notFound(id)
	}
	return run, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = min(listLimit(limit), len(s.order))
	out := make([]*Run, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[s.order[i]])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
