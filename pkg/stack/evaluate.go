package stack

import (
	"context"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/combo"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/hierarchy"
	"github.com/matzehuels/boxtower/pkg/progress"
)

const (
	// minChunk is the smallest number of subsets handed to a worker at once.
	minChunk = 256

	// chunksPerWorker controls how finely the subset space is split.
	chunksPerWorker = 8
)

// Options configures an Evaluator.
type Options struct {
	// MaxBoxes bounds the input size (the search visits 2^n subsets).
	// Zero selects combo.DefaultLimit; values above combo.HardLimit are clamped.
	MaxBoxes int

	// Workers is the number of concurrent evaluators. Zero selects GOMAXPROCS.
	Workers int

	// MaxCorrections bounds quarter turns per candidate; zero allows one per
	// failing pair.
	MaxCorrections int

	// Progress receives throttled updates for the combinations phase, then the
	// evaluation phase.
	Progress progress.Func

	// Logger receives debug output. Nil discards.
	Logger *log.Logger
}

// Evaluator runs the tallest-stack search. It holds no per-search state and
// is safe for concurrent use.
type Evaluator struct {
	opts Options
}

// New creates an Evaluator.
func New(opts Options) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Evaluator{opts: opts}
}

// Evaluate runs the search with default options.
func Evaluate(ctx context.Context, boxes []box.Box) (*Solution, error) {
	return New(Options{}).Evaluate(ctx, boxes)
}

// best is a worker's running result.
type best struct {
	mask       combo.Mask
	height     float64
	corrected  bool
	placements []Placement
	accepted   uint64
	rejected   uint64
	turned     uint64
}

// beats reports whether (h, m) should replace b: strictly taller, or equally
// tall and enumerated earlier. Zero height never wins.
func (b *best) beats(h float64, m combo.Mask) bool {
	if h <= 0 {
		return false
	}
	return h > b.height || (h == b.height && m < b.mask)
}

type span struct{ lo, hi uint64 }

// Evaluate searches every subset of boxes and returns the tallest accepted
// stack. boxes is not modified. An empty collection yields an empty solution
// of height zero. Inputs larger than Options.MaxBoxes fail with a
// resource-limit error before any work starts.
func (e *Evaluator) Evaluate(ctx context.Context, boxes []box.Box) (*Solution, error) {
	start := time.Now()
	logger := e.opts.Logger

	if err := combo.Check(len(boxes), e.opts.MaxBoxes); err != nil {
		return nil, err
	}

	h := hierarchy.Build(boxes)
	total := combo.Count(len(boxes))
	workers := e.workerCount(total)
	chunk := chunkSize(total, workers)

	logger.Debug("search started", "boxes", len(boxes), "bases", h.Len(), "combinations", total, "workers", workers)

	spans, err := e.partition(ctx, total, chunk)
	if err != nil {
		return nil, err
	}

	tracker := progress.NewTracker(progress.PhaseEvaluation, total, e.opts.Progress)
	results := make([]best, workers)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan span, workers*2)

	g.Go(func() error {
		defer close(jobs)
		for _, s := range spans {
			select {
			case jobs <- s:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			r := &results[w]
			buf := make([]Placement, 0, len(boxes))
			for s := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				for m := s.lo; m < s.hi; m++ {
					mask := combo.Mask(m)
					buf = build(h, mask, buf)
					ok, corrected := CheckOrder(buf, e.opts.MaxCorrections)
					if !ok {
						r.rejected++
						continue
					}
					r.accepted++
					if corrected {
						r.turned++
					}
					if height := sum(buf); r.beats(height, mask) {
						r.mask, r.height, r.corrected = mask, height, corrected
						r.placements = append(r.placements[:0], buf...)
					}
				}
				tracker.Add(s.hi - s.lo)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	tracker.Finish()

	var win best
	stats := Stats{
		Boxes:        len(boxes),
		Bases:        h.Len(),
		Combinations: total,
		Workers:      workers,
	}
	for i := range results {
		r := &results[i]
		stats.Accepted += r.accepted
		stats.Rejected += r.rejected
		stats.Corrected += r.turned
		if win.beats(r.height, r.mask) {
			win = *r
		}
	}

	sol, err := finalize(boxes, win)
	if err != nil {
		return nil, err
	}
	stats.Duration = time.Since(start)
	sol.Stats = stats

	logger.Debug("search complete", "height", sol.Height, "stacked", sol.Len(),
		"accepted", stats.Accepted, "rejected", stats.Rejected, "elapsed", stats.Duration)
	return sol, nil
}

// partition splits the subset space into spans of chunk masks. It is the
// combinations phase: every subset is assigned before evaluation starts, so
// the two phases report in order.
func (e *Evaluator) partition(ctx context.Context, total, chunk uint64) ([]span, error) {
	tracker := progress.NewTracker(progress.PhaseCombinations, total, e.opts.Progress)
	spans := make([]span, 0, (total+chunk-1)/chunk)
	for lo := uint64(0); lo < total; lo += chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := min(lo+chunk, total)
		spans = append(spans, span{lo: lo, hi: hi})
		tracker.Add(hi - lo)
	}
	tracker.Finish()
	return spans, nil
}

// finalize applies the winning bases to copies of the winning boxes.
func finalize(boxes []box.Box, win best) (*Solution, error) {
	sol := &Solution{
		Placements: slices.Clone(win.placements),
		Boxes:      make([]box.Box, 0, len(win.placements)),
		Height:     win.height,
		Mask:       win.mask,
		Corrected:  win.corrected,
	}
	if sol.Placements == nil {
		sol.Placements = []Placement{}
	}
	for _, p := range sol.Placements {
		b := boxes[p.Box]
		if err := b.SetOrientation(p.Base); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "orient box %d", p.Box)
		}
		sol.Boxes = append(sol.Boxes, b)
	}
	return sol, nil
}

func (e *Evaluator) workerCount(total uint64) int {
	w := e.opts.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if maxUseful := (total + minChunk - 1) / minChunk; uint64(w) > maxUseful {
		w = int(maxUseful)
	}
	return max(w, 1)
}

func chunkSize(total uint64, workers int) uint64 {
	c := total / uint64(workers*chunksPerWorker)
	return max(c, minChunk)
}
