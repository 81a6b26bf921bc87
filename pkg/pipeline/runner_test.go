package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/boxtower/pkg/archive"
	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/observability"
)

// memCache is an in-memory cache.Cache that counts operations.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// flakyStore fails with a retryable error a fixed number of times.
type flakyStore struct {
	*archive.MemoryStore
	failures int
	calls    int
}

func (s *flakyStore) Save(ctx context.Context, run *archive.Run) error {
	s.calls++
	if s.calls <= s.failures {
		return cache.Retryable(cache.ErrBackend)
	}
	return s.MemoryStore.Save(ctx, run)
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	searches, hits, misses int
}

func (h *recordingHooks) OnSearchStart(context.Context, int, uint64) { h.searches++ }
func (h *recordingHooks) OnCacheHit(context.Context, string)         { h.hits++ }
func (h *recordingHooks) OnCacheMiss(context.Context, string)        { h.misses++ }

var scenarioC = []box.Box{box.New(6, 2, 1), box.New(2, 6, 3)}

func TestExecute(t *testing.T) {
	store := archive.NewMemoryStore(0)
	r := NewRunner(newMemCache(), nil, store, nil)

	res, err := r.Execute(context.Background(), scenarioC, Options{Formats: []string{FormatSVG, FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Solution.Height != 12 || res.Solution.Len() != 2 {
		t.Errorf("solution = height %v, %d boxes; want 12, 2", res.Solution.Height, res.Solution.Len())
	}
	if res.CacheHit {
		t.Error("first run should not hit the cache")
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), "Total Height: 12") {
		t.Error("svg artifact missing caption")
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact missing")
	}
	var decoded map[string]any
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &decoded); err != nil {
		t.Errorf("json artifact: %v", err)
	}

	run, err := store.Get(context.Background(), res.RunID)
	if err != nil {
		t.Fatalf("archived run: %v", err)
	}
	if run.Source != DefaultSource || len(run.Boxes) != 2 || run.Solution.Height != 12 {
		t.Errorf("archived run = %+v", run)
	}
}

func TestExecuteCachesSolution(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c := newMemCache()
	r := NewRunner(c, nil, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, scenarioC, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Execute(ctx, scenarioC, Options{Workers: 3})
	if err != nil {
		t.Fatal(err)
	}

	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if second.Solution.Height != first.Solution.Height {
		t.Errorf("cached height = %v, want %v", second.Solution.Height, first.Solution.Height)
	}
	if hooks.searches != 1 || hooks.hits != 1 || hooks.misses != 1 {
		t.Errorf("hooks: searches=%d hits=%d misses=%d, want 1/1/1", hooks.searches, hooks.hits, hooks.misses)
	}

	third, err := r.Execute(ctx, scenarioC, Options{MaxCorrections: 1})
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("different MaxCorrections should miss")
	}

	refreshed, err := r.Execute(ctx, scenarioC, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteIgnoresCorruptCacheEntry(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil, nil)
	key := r.Keyer.SolutionKey(scenarioC, cache.SolutionKeyOpts{})
	_ = c.Set(context.Background(), key, []byte("{garbage"), 0)

	res, err := r.Execute(context.Background(), scenarioC, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || res.Solution.Height != 12 {
		t.Errorf("corrupt entry: hit=%v height=%v", res.CacheHit, res.Solution.Height)
	}
}

func TestExecuteResourceLimit(t *testing.T) {
	boxes := make([]box.Box, 6)
	for i := range boxes {
		boxes[i] = box.New(1, 2, 3)
	}
	r := NewRunner(nil, nil, nil, nil)

	_, err := r.Execute(context.Background(), boxes, Options{MaxBoxes: 5})
	if !errors.Is(err, errors.ErrCodeResourceLimit) {
		t.Errorf("err = %v, want RESOURCE_LIMIT", err)
	}
}

func TestExecuteEmpty(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), nil, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Solution.Height != 0 || res.Solution.Len() != 0 {
		t.Errorf("empty input = %+v", res.Solution)
	}
	if res.RunID != "" {
		t.Error("no archive configured, RunID should be empty")
	}
}

func TestArchiveRetries(t *testing.T) {
	store := &flakyStore{MemoryStore: archive.NewMemoryStore(0), failures: 2}
	r := NewRunner(nil, nil, store, nil)
	r.Backoff = cache.Backoff{Attempts: 3, Delay: time.Millisecond}

	res, err := r.Execute(context.Background(), scenarioC, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.RunID == "" || store.calls != 3 {
		t.Errorf("RunID=%q calls=%d, want saved after 3 attempts", res.RunID, store.calls)
	}
}

func TestArchiveFailureIsNotFatal(t *testing.T) {
	store := &flakyStore{MemoryStore: archive.NewMemoryStore(0), failures: 10}
	r := NewRunner(nil, nil, store, nil)
	r.Backoff = cache.Backoff{Attempts: 2, Delay: time.Millisecond}

	res, err := r.Execute(context.Background(), scenarioC, Options{})
	if err != nil {
		t.Fatalf("archive failure should not fail the run: %v", err)
	}
	if res.RunID != "" {
		t.Errorf("RunID = %q, want empty after failed save", res.RunID)
	}
}

func TestExecuteNoArchive(t *testing.T) {
	store := archive.NewMemoryStore(0)
	r := NewRunner(nil, nil, store, nil)
	res, err := r.Execute(context.Background(), scenarioC, Options{NoArchive: true})
	if err != nil {
		t.Fatal(err)
	}
	runs, _ := store.List(context.Background(), 0)
	if res.RunID != "" || len(runs) != 0 {
		t.Error("NoArchive should skip the archive")
	}
}

func TestRenderDiagramDOTOnly(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	sol, err := r.Solve(context.Background(), scenarioC, Options{})
	if err != nil {
		t.Fatal(err)
	}
	artifacts, err := r.Render(context.Background(), sol, Options{Viz: VizDiagram, Formats: []string{FormatDOT}, Detailed: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "box #2") {
		t.Error("detailed diagram should name input boxes")
	}
}
