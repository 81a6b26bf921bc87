// Package observability lets the search pipeline, the caches and the HTTP API
// report events without depending on a metrics backend.
//
// Libraries emit events through the accessors:
//
//	observability.Pipeline().OnSearchStart(ctx, len(boxes), combo.Count(len(boxes)))
//	// ... run the search ...
//	observability.Pipeline().OnSearchComplete(ctx, len(boxes), height, elapsed, err)
//
// Every accessor returns a no-op implementation until a binary installs its
// own. The HTTP server registers a Prometheus-backed value with [Register];
// the CLI keeps the no-op defaults.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the solve pipeline.
type PipelineHooks interface {
	OnSearchStart(ctx context.Context, boxes int, combinations uint64)
	OnSearchComplete(ctx context.Context, boxes int, height float64, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from solution cache lookups and writes.
// keyType names the kind of entry, e.g. "solution".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events for requests served by the HTTP API. route is the
// matched route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSearchStart(context.Context, int, uint64) {}
func (NoopPipelineHooks) OnSearchComplete(context.Context, int, float64, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// hookSet is swapped as a whole so readers never see a half-updated registry.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var defaults = hookSet{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

var current atomic.Pointer[hookSet]

func init() { Reset() }

// update applies fn to a copy of the current set and publishes it.
func update(fn func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h for pipeline events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	update(func(s *hookSet) { s.pipeline = h })
}

// SetCacheHooks installs h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	update(func(s *hookSet) { s.cache = h })
}

// SetHTTPHooks installs h for HTTP events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	update(func(s *hookSet) { s.http = h })
}

// Register installs v for every hook interface it implements and reports
// whether it implemented any.
func Register(v any) bool {
	p, okP := v.(PipelineHooks)
	c, okC := v.(CacheHooks)
	h, okH := v.(HTTPHooks)
	if !okP && !okC && !okH {
		return false
	}
	update(func(s *hookSet) {
		if okP {
			s.pipeline = p
		}
		if okC {
			s.cache = c
		}
		if okH {
			s.http = h
		}
	})
	return true
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op defaults.
func Reset() {
	s := defaults
	current.Store(&s)
}
