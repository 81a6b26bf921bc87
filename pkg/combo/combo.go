// Package combo enumerates every subset of a collection.
//
// Subsets are represented as bit masks over the input positions: item i is a
// member of [Mask] m when bit i is set. Enumerating the masks 0 .. 2^n-1 in
// counting order visits each subset exactly once, the empty subset first.
//
// The combination space grows as 2^n and nothing is pruned, so callers must
// bound n with [Check] before enumerating. [Generate] and the search core do
// this for you and fail with a resource-limit error instead of silently
// truncating.
package combo

import (
	"iter"
	"math/bits"

	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/progress"
)

const (
	// DefaultLimit is the default maximum collection size (about a million subsets).
	DefaultLimit = 20

	// HardLimit is the largest collection size a Mask can index, whatever the
	// configured limit.
	HardLimit = 62
)

// Mask is a subset of positions 0..63.
type Mask uint64

// Has reports whether position i is in the subset.
func (m Mask) Has(i int) bool { return m&(1<<uint(i)) != 0 }

// Len returns the number of members.
func (m Mask) Len() int { return bits.OnesCount64(uint64(m)) }

// Members returns the member positions below n in ascending order.
func (m Mask) Members(n int) []int {
	out := make([]int, 0, m.Len())
	for i := 0; i < n; i++ {
		if m.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// Count returns the number of subsets of an n-element collection (2^n).
// It returns 0 when the count does not fit in a uint64.
func Count(n int) uint64 {
	if n < 0 || n > 63 {
		return 0
	}
	return 1 << uint(n)
}

// EffectiveLimit resolves a configured limit: values <= 0 select
// DefaultLimit and values above HardLimit are clamped.
func EffectiveLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > HardLimit:
		return HardLimit
	}
	return limit
}

// Check fails with a *errors.ResourceLimitError when n exceeds the effective
// limit.
func Check(n, limit int) error {
	limit = EffectiveLimit(limit)
	if n > limit {
		return &errors.ResourceLimitError{Count: n, Limit: limit, Space: Count(n)}
	}
	return nil
}

// Masks yields every subset mask of an n-element collection in counting
// order. n must not exceed HardLimit; larger values yield nothing.
func Masks(n int) iter.Seq[Mask] {
	return func(yield func(Mask) bool) {
		if n < 0 || n > HardLimit {
			return
		}
		total := Count(n)
		for m := uint64(0); m < total; m++ {
			if !yield(Mask(m)) {
				return
			}
		}
	}
}

// Select returns the members of items selected by m, in input order.
func Select[T any](items []T, m Mask) []T {
	out := make([]T, 0, m.Len())
	for i := range items {
		if m.Has(i) {
			out = append(out, items[i])
		}
	}
	return out
}

// All lazily yields every subset of items, the empty subset first.
// Each yielded slice is freshly allocated. Callers should [Check] the size
// first; collections larger than HardLimit yield nothing.
func All[T any](items []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for m := range Masks(len(items)) {
			if !yield(Select(items, m)) {
				return
			}
		}
	}
}

// Generate materializes every subset of items after checking the size
// against limit. fn, if non-nil, receives throttled progress for the
// combinations phase.
func Generate[T any](items []T, limit int, fn progress.Func) ([][]T, error) {
	if err := Check(len(items), limit); err != nil {
		return nil, err
	}
	total := Count(len(items))
	tracker := progress.NewTracker(progress.PhaseCombinations, total, fn)

	out := make([][]T, 0, total)
	for subset := range All(items) {
		out = append(out, subset)
		tracker.Incr()
	}
	tracker.Finish()
	return out, nil
}
