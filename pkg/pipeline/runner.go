package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/archive"
	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/combo"
	bio "github.com/matzehuels/boxtower/pkg/io"
	"github.com/matzehuels/boxtower/pkg/observability"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// Runner encapsulates pipeline execution with caching and archiving.
// Both CLI and API use this to avoid duplicating that logic.
//
// The Runner is stateless except for its backends and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive archive.Store // nil disables archiving
	Logger  *log.Logger

	// SolutionTTL overrides cache.TTLSolution when positive.
	SolutionTTL time.Duration

	// Backoff governs archive save retries.
	Backoff cache.Backoff
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If store is nil, runs are not archived.
func NewRunner(c cache.Cache, keyer cache.Keyer, store archive.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Archive: store,
		Logger:  logger,
		Backoff: cache.DefaultBackoff,
	}
}

// Execute runs the complete solve → archive → render pipeline.
func (r *Runner) Execute(ctx context.Context, boxes []box.Box, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Stats: Stats{Boxes: len(boxes)}}

	// Stage 1: Solve
	solveStart := time.Now()
	sol, hit, err := r.SolveWithCacheInfo(ctx, boxes, opts)
	if err != nil {
		return nil, err
	}
	result.Solution = sol
	result.CacheHit = hit
	result.Stats.SolveTime = time.Since(solveStart)

	r.Logger.Info("solved stack",
		"boxes", len(boxes),
		"stacked", sol.Len(),
		"height", sol.Height,
		"cached", hit,
		"duration", result.Stats.SolveTime)

	// Stage 2: Archive
	if !opts.NoArchive {
		result.RunID = r.archive(ctx, boxes, sol, opts)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, sol, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo runs the search with caching and returns cache hit info.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, boxes []box.Box, opts Options) (*stack.Solution, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}

	// Reject oversized input before touching the cache.
	if err := combo.Check(len(boxes), opts.MaxBoxes); err != nil {
		return nil, false, err
	}

	key := r.Keyer.SolutionKey(boxes, opts.SolutionKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case hit:
			sol, err := bio.ReadSolutionJSON(bytes.NewReader(data))
			if err == nil {
				hooks.OnCacheHit(ctx, "solution")
				return sol, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "err", err)
		}
		hooks.OnCacheMiss(ctx, "solution")
	}

	sol, err := r.Solve(ctx, boxes, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := bio.WriteSolutionJSON(sol, &buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), r.solutionTTL()); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "solution", buf.Len())
		}
	}
	return sol, false, nil
}

// Solve runs the search without consulting the cache.
func (r *Runner) Solve(ctx context.Context, boxes []box.Box, opts Options) (*stack.Solution, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnSearchStart(ctx, len(boxes), combo.Count(len(boxes)))
	start := time.Now()

	sol, err := stack.New(opts.StackOptions()).Evaluate(ctx, boxes)

	var height float64
	if sol != nil {
		height = sol.Height
	}
	hooks.OnSearchComplete(ctx, len(boxes), height, time.Since(start), err)
	return sol, err
}

// Render generates artifacts for sol. PNG and PDF outputs are cached since
// they shell out to an external converter.
func (r *Runner) Render(ctx context.Context, sol *stack.Solution, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := r.renderWithCache(ctx, sol, opts)

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func (r *Runner) renderWithCache(ctx context.Context, sol *stack.Solution, opts Options) (map[string][]byte, error) {
	var buf bytes.Buffer
	if err := bio.WriteSolutionJSON(sol, &buf); err != nil {
		return nil, fmt.Errorf("serialize solution for cache key: %w", err)
	}
	base := cache.Hash(buf.Bytes()) + "|" + opts.renderKey()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var pending []string
	for _, format := range opts.Formats {
		if isRaster(format) {
			if data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(base, format)); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		pending = append(pending, format)
	}
	if len(pending) == 0 {
		return artifacts, nil
	}

	sub := opts
	sub.Formats = pending
	rendered, err := Render(ctx, sol, sub)
	if err != nil {
		return nil, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if isRaster(format) {
			_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(base, format), data, cache.TTLArtifact)
		}
	}
	return artifacts, nil
}

// archive saves the run, retrying transient failures. Archive errors are
// logged, not returned: a solved stack is still useful without a record.
func (r *Runner) archive(ctx context.Context, boxes []box.Box, sol *stack.Solution, opts Options) string {
	if r.Archive == nil {
		return ""
	}
	run := archive.NewRun(opts.Source, boxes, opts.MaxCorrections, sol)
	err := r.Backoff.Retry(ctx, func() error {
		return r.Archive.Save(ctx, run)
	})
	if err != nil {
		r.Logger.Warn("archive save failed", "err", err)
		return ""
	}
	r.Logger.Debug("archived run", "id", run.ID)
	return run.ID
}

func (r *Runner) solutionTTL() time.Duration {
	if r.SolutionTTL > 0 {
		return r.SolutionTTL
	}
	return cache.TTLSolution
}

// Close releases resources held by the runner's backends.
func (r *Runner) Close() error {
	var first error
	if r.Cache != nil {
		first = r.Cache.Close()
	}
	if r.Archive != nil {
		if err := r.Archive.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
