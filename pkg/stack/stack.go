package stack

import (
	"slices"
	"time"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/combo"
	"github.com/matzehuels/boxtower/pkg/hierarchy"
)

// Placement is one layer of a stack: which input box, the base it rests on
// and the height it contributes.
type Placement struct {
	Box       int      `json:"box"`
	Base      box.Base `json:"base"`
	Height    float64  `json:"height"`
	Corrected bool     `json:"corrected,omitempty"`
}

// Candidate is the single stack built for one subset.
type Candidate struct {
	Mask       combo.Mask  `json:"mask"`
	Placements []Placement `json:"placements"` // bottom to top
	Height     float64     `json:"height"`
	Accepted   bool        `json:"accepted"`
	Corrected  bool        `json:"corrected,omitempty"`
}

// Stats summarizes a search.
type Stats struct {
	Boxes        int           `json:"boxes"`
	Bases        int           `json:"bases"`
	Combinations uint64        `json:"combinations"`
	Accepted     uint64        `json:"accepted"`
	Rejected     uint64        `json:"rejected"`
	Corrected    uint64        `json:"corrected"`
	Workers      int           `json:"workers"`
	Duration     time.Duration `json:"duration"`
}

// Solution is the tallest accepted stack.
type Solution struct {
	// Placements lists the winning layers bottom to top.
	Placements []Placement `json:"placements"`

	// Boxes holds copies of the winning input boxes, bottom to top, each
	// relabelled so that L and W are its assigned base and H its height.
	Boxes []box.Box `json:"boxes"`

	// Height is the total stack height.
	Height float64 `json:"height"`

	// Mask identifies the winning subset of the input.
	Mask combo.Mask `json:"mask"`

	// Corrected reports whether any layer was turned by the ordering check.
	Corrected bool `json:"corrected,omitempty"`

	Stats Stats `json:"stats"`
}

// Len returns the number of boxes in the stack.
func (s *Solution) Len() int { return len(s.Placements) }

// Indices returns the input indices of the stacked boxes, bottom to top.
func (s *Solution) Indices() []int {
	out := make([]int, len(s.Placements))
	for i, p := range s.Placements {
		out[i] = p.Box
	}
	return out
}

// build appends the greedy picks for subset m to buf (bottom to top) and
// returns it.
func build(h *hierarchy.Hierarchy, m combo.Mask, buf []Placement) []Placement {
	buf = buf[:0]
	pool := m
	for _, lvl := range h.Levels() {
		if pool == 0 {
			break
		}
		choice, best := -1, 0.0
		for _, e := range lvl.Entries {
			if pool.Has(e.Box) && e.Height > best {
				choice, best = e.Box, e.Height
			}
		}
		if choice >= 0 {
			pool &^= 1 << uint(choice)
			buf = append(buf, Placement{Box: choice, Base: lvl.Base, Height: best})
		}
	}
	slices.Reverse(buf)
	return buf
}

// CheckOrder applies the ordering rule to ps (bottom to top) in place,
// turning upper bases where a single quarter turn fixes a failing pair.
// maxCorrections bounds the number of turns across the whole stack; zero
// means one turn per failing pair. It reports whether the stack is accepted
// and whether any base was turned. On rejection ps may be partially modified.
func CheckOrder(ps []Placement, maxCorrections int) (ok, corrected bool) {
	turns := 0
	for i := 0; i+1 < len(ps); i++ {
		lower, upper := ps[i].Base, ps[i+1].Base
		if lower.Supports(upper) {
			continue
		}
		if maxCorrections > 0 && turns >= maxCorrections {
			return false, turns > 0
		}
		turned := upper.Rotated()
		if !lower.Supports(turned) {
			return false, turns > 0
		}
		ps[i+1].Base = turned
		ps[i+1].Corrected = true
		turns++
	}
	return true, turns > 0
}

// sum adds heights bottom to top.
func sum(ps []Placement) float64 {
	var total float64
	for _, p := range ps {
		total += p.Height
	}
	return total
}

// EvaluateCombination builds, checks and scores the candidate for subset m.
func EvaluateCombination(h *hierarchy.Hierarchy, m combo.Mask, maxCorrections int) Candidate {
	ps := build(h, m, nil)
	ok, corrected := CheckOrder(ps, maxCorrections)
	c := Candidate{Mask: m, Placements: ps, Accepted: ok, Corrected: corrected}
	if ok {
		c.Height = sum(ps)
	}
	return c
}
