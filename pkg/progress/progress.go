// Package progress provides an injectable, rate-limited progress sink for the
// long-running phases of the stacking search.
//
// The search core never prints anything. It creates a [Tracker] per phase with
// the known amount of work and calls [Tracker.Add] as units complete. The
// tracker forwards updates to a caller-supplied [Func] only when the completed
// percentage crosses a step boundary (every 5% by default), so reporting never
// dominates the cost of the search.
//
//	t := progress.NewTracker(progress.PhaseEvaluation, total, func(p progress.Phase, done, total uint64) {
//	    fmt.Printf("%s: %d/%d\n", p, done, total)
//	})
//	for ... {
//	    t.Incr()
//	}
//	t.Finish()
package progress

import (
	"math"
	"sync"
	"sync/atomic"
)

// Phase names an enumerable stage of the search.
type Phase string

// Phases reported by the search core.
const (
	PhaseCombinations Phase = "combinations"
	PhaseEvaluation   Phase = "evaluation"
)

// DefaultStep is the reporting granularity in percent.
const DefaultStep = 5

// Func receives progress updates. done is monotonically non-decreasing for a
// given phase and never exceeds total.
type Func func(phase Phase, done, total uint64)

// Multi returns a Func that forwards to every non-nil fn in order.
func Multi(fns ...Func) Func {
	var live []Func
	for _, fn := range fns {
		if fn != nil {
			live = append(live, fn)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return func(phase Phase, done, total uint64) {
		for _, fn := range live {
			fn(phase, done, total)
		}
	}
}

// Tracker counts completed work for one phase. It is safe for concurrent use.
type Tracker struct {
	phase Phase
	total uint64
	step  uint64
	fn    Func

	count atomic.Uint64

	mu         sync.Mutex
	lastDone   uint64
	lastBucket uint64
	finished   bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithStep sets the reporting granularity in percent (1-100).
func WithStep(percent int) Option {
	return func(t *Tracker) {
		if percent >= 1 && percent <= 100 {
			t.step = uint64(percent)
		}
	}
}

// NewTracker creates a tracker for total units of work and immediately
// reports the 0% state. A nil fn produces a tracker that only counts.
func NewTracker(phase Phase, total uint64, fn Func, opts ...Option) *Tracker {
	t := &Tracker{phase: phase, total: total, step: DefaultStep, fn: fn}
	for _, opt := range opts {
		opt(t)
	}
	if fn != nil {
		fn(phase, 0, total)
	}
	return t
}

// Incr records one completed unit.
func (t *Tracker) Incr() { t.Add(1) }

// Add records n completed units.
func (t *Tracker) Add(n uint64) {
	if n == 0 {
		return
	}
	done := t.count.Add(n)
	if t.fn == nil || t.total == 0 {
		return
	}
	if done > t.total {
		done = t.total
	}
	var pct uint64
	if done <= math.MaxUint64/100 {
		pct = done * 100 / t.total
	} else {
		pct = done / (t.total / 100)
	}
	bucket := pct / t.step
	if done == t.total {
		bucket = 100/t.step + 1
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if bucket <= t.lastBucket || done <= t.lastDone {
		return
	}
	t.lastBucket = bucket
	t.lastDone = done
	if done == t.total {
		t.finished = true
	}
	t.fn(t.phase, done, t.total)
}

// Finish reports completion if it has not been reported yet. Work not
// recorded through Add is credited as done.
func (t *Tracker) Finish() {
	if t.fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.finished = true
	t.lastDone = t.total
	t.fn(t.phase, t.total, t.total)
}

// Done returns the number of units recorded so far.
func (t *Tracker) Done() uint64 { return t.count.Load() }

// Total returns the amount of work the tracker was created with.
func (t *Tracker) Total() uint64 { return t.total }

// Phase returns the tracked phase.
func (t *Tracker) Phase() Phase { return t.phase }
