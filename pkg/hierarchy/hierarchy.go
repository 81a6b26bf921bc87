// Package hierarchy derives the global set of footprints ("bases") available
// across a box collection and, for every base, which boxes can present it and
// at what height.
//
// # Ordering
//
// Bases are collected from every box's orientations in input order (first
// box first, orientations in the fixed (L,W), (L,H), (W,H) order) and
// deduplicated by value set, so 6x2 and 2x6 are one base. The surviving base
// keeps the component order in which it was first seen. Levels are then
// sorted by ascending area; equal areas keep first-seen order.
//
// # Heights
//
// Heights are computed from each box's dimension multiset ([box.Box.HeightFor]),
// never from a box's current slot labels, so building a hierarchy cannot
// observe or disturb orientation state elsewhere. A box may appear under
// several bases with different heights. Entries within a level follow input
// order; the stack evaluator relies on this for its tie-break.
package hierarchy

import (
	"cmp"
	"slices"

	"github.com/matzehuels/boxtower/pkg/box"
)

// Entry records that box Box (an index into the input) presents a level's
// base with the given Height.
type Entry struct {
	Box    int
	Height float64
}

// Level is one distinct base with the boxes that can present it.
type Level struct {
	Base    box.Base
	Entries []Entry
}

// Hierarchy is the immutable base hierarchy for a box collection.
type Hierarchy struct {
	levels []Level
	boxes  int
}

// Build derives the hierarchy for boxes. It never modifies boxes.
func Build(boxes []box.Box) *Hierarchy {
	var bases []box.Base
	for _, b := range boxes {
		for o := range b.Orientations() {
			if !slices.ContainsFunc(bases, o.Base.Same) {
				bases = append(bases, o.Base)
			}
		}
	}

	slices.SortStableFunc(bases, func(a, b box.Base) int {
		return cmp.Compare(a.Area(), b.Area())
	})

	levels := make([]Level, len(bases))
	for i, base := range bases {
		lvl := Level{Base: base}
		for j, b := range boxes {
			if h, ok := b.HeightFor(base); ok {
				lvl.Entries = append(lvl.Entries, Entry{Box: j, Height: h})
			}
		}
		levels[i] = lvl
	}
	return &Hierarchy{levels: levels, boxes: len(boxes)}
}

// Levels returns the levels in ascending-area order. The returned slice must
// not be modified.
func (h *Hierarchy) Levels() []Level { return h.levels }

// Len returns the number of distinct bases.
func (h *Hierarchy) Len() int { return len(h.levels) }

// Boxes returns the size of the collection the hierarchy was built from.
func (h *Hierarchy) Boxes() int { return h.boxes }

// Bases returns the distinct bases in ascending-area order.
func (h *Hierarchy) Bases() []box.Base {
	out := make([]box.Base, len(h.levels))
	for i, l := range h.levels {
		out[i] = l.Base
	}
	return out
}

// Height returns the height box i has on the base at level index lvl.
func (h *Hierarchy) Height(lvl, i int) (float64, bool) {
	if lvl < 0 || lvl >= len(h.levels) {
		return 0, false
	}
	for _, e := range h.levels[lvl].Entries {
		if e.Box == i {
			return e.Height, true
		}
	}
	return 0, false
}
