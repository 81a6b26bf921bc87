package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	starts    int
	completes int
	lastErr   error
}

func (r *recordingPipelineHooks) OnSearchStart(context.Context, int, uint64) { r.starts++ }
func (r *recordingPipelineHooks) OnSearchComplete(_ context.Context, _ int, _ float64, _ time.Duration, err error) {
	r.completes++
	r.lastErr = err
}

// allHooks implements every interface.
type allHooks struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks
}

type cacheOnly struct{ NoopCacheHooks }

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	ctx := context.Background()
	Pipeline().OnRenderStart(ctx, []string{"svg"})
	Pipeline().OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
	Cache().OnCacheSet(ctx, "solution", 1024)
	HTTP().OnResponse(ctx, "POST", "/v1/solve", 200, time.Second)
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	SetPipelineHooks(nil)

	ctx := context.Background()
	Pipeline().OnSearchStart(ctx, 2, 4)
	Pipeline().OnSearchComplete(ctx, 2, 4, time.Millisecond, nil)

	if rec.starts != 1 || rec.completes != 1 {
		t.Errorf("starts=%d completes=%d, want 1 and 1", rec.starts, rec.completes)
	}
	if rec.lastErr != nil {
		t.Errorf("lastErr = %v, want nil", rec.lastErr)
	}
}

func TestRegister(t *testing.T) {
	t.Cleanup(Reset)

	tests := []struct {
		name                string
		v                   any
		want                bool
		pipeline, cache, hh bool
	}{
		{"all interfaces", &allHooks{}, true, true, true, true},
		{"cache only", &cacheOnly{}, true, false, true, false},
		{"nothing", struct{}{}, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			if got := Register(tt.v); got != tt.want {
				t.Errorf("Register() = %v, want %v", got, tt.want)
			}
			_, noopP := Pipeline().(NoopPipelineHooks)
			_, noopC := Cache().(NoopCacheHooks)
			_, noopH := HTTP().(NoopHTTPHooks)
			if noopP == tt.pipeline || noopC == tt.cache || noopH == tt.hh {
				t.Errorf("installed pipeline=%v cache=%v http=%v, want %v %v %v",
					!noopP, !noopC, !noopH, tt.pipeline, tt.cache, tt.hh)
			}
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if i%2 == 0 {
					SetCacheHooks(&cacheOnly{})
					Reset()
				} else {
					Cache().OnCacheHit(context.Background(), "solution")
				}
			}
		}()
	}
	wg.Wait()

	if Cache() == nil || Pipeline() == nil || HTTP() == nil {
		t.Error("accessors must never return nil")
	}
}
