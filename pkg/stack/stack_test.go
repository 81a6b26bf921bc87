package stack

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/combo"
	"github.com/matzehuels/boxtower/pkg/hierarchy"
)

func evaluate(t *testing.T, boxes []box.Box, opts Options) *Solution {
	t.Helper()
	sol, err := New(opts).Evaluate(context.Background(), boxes)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	return sol
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name          string
		boxes         []box.Box
		wantHeight    float64
		wantIndices   []int
		wantBoxes     []box.Box
		wantCorrected bool
	}{
		{
			// The greedy pass assigns the 4x4x2 box to its smallest base (4x2,
			// height 4) before the 3x3 cube is considered, and 3x3 cannot carry
			// a 4x2 base in either turn, so the pair is rejected and the box on
			// its side wins alone.
			name:        "cube and slab",
			boxes:       []box.Box{box.New(4, 4, 2), box.New(3, 3, 3)},
			wantHeight:  4,
			wantIndices: []int{0},
			wantBoxes:   []box.Box{{L: 4, W: 2, H: 4}},
		},
		{
			// Identical footprints can never rest on each other (5 > 5 fails);
			// a single box standing on its 5x1 side is tallest and the first
			// input box wins the tie.
			name:        "identical boxes",
			boxes:       []box.Box{box.New(5, 5, 1), box.New(5, 5, 1)},
			wantHeight:  5,
			wantIndices: []int{0},
			wantBoxes:   []box.Box{{L: 5, W: 1, H: 5}},
		},
		{
			// 6x2 and 2x6 are one base. The pair ends up as 2x3 under 2x1;
			// the upper base is turned to 1x2 to satisfy the rule.
			name:          "shared base in different order",
			boxes:         []box.Box{box.New(6, 2, 1), box.New(2, 6, 3)},
			wantHeight:    12,
			wantIndices:   []int{1, 0},
			wantBoxes:     []box.Box{{L: 2, W: 3, H: 6}, {L: 1, W: 2, H: 6}},
			wantCorrected: true,
		},
		{
			name:        "empty input",
			boxes:       nil,
			wantHeight:  0,
			wantIndices: []int{},
			wantBoxes:   []box.Box{},
		},
		{
			name:        "single box",
			boxes:       []box.Box{box.New(7, 5, 9)},
			wantHeight:  9,
			wantIndices: []int{0},
			wantBoxes:   []box.Box{{L: 7, W: 5, H: 9}},
		},
		{
			name:        "nested cubes",
			boxes:       []box.Box{box.New(1, 1, 1), box.New(3, 3, 3), box.New(2, 2, 2)},
			wantHeight:  6,
			wantIndices: []int{1, 2, 0},
			wantBoxes:   []box.Box{{L: 3, W: 3, H: 3}, {L: 2, W: 2, H: 2}, {L: 1, W: 1, H: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol := evaluate(t, tt.boxes, Options{})
			if sol.Height != tt.wantHeight {
				t.Errorf("Height = %v, want %v", sol.Height, tt.wantHeight)
			}
			if got := sol.Indices(); !slices.Equal(got, tt.wantIndices) {
				t.Errorf("Indices() = %v, want %v", got, tt.wantIndices)
			}
			if !slices.Equal(sol.Boxes, tt.wantBoxes) {
				t.Errorf("Boxes = %v, want %v", sol.Boxes, tt.wantBoxes)
			}
			if sol.Corrected != tt.wantCorrected {
				t.Errorf("Corrected = %v, want %v", sol.Corrected, tt.wantCorrected)
			}
		})
	}
}

func TestEvaluateStackIsValid(t *testing.T) {
	boxes := []box.Box{
		box.New(10, 9, 1), box.New(8, 7, 2), box.New(6, 5, 3),
		box.New(4, 3, 4), box.New(2, 1, 5),
	}
	sol := evaluate(t, boxes, Options{})
	for i := 0; i+1 < len(sol.Boxes); i++ {
		lower, upper := sol.Boxes[i].Footprint(), sol.Boxes[i+1].Footprint()
		if !lower.Supports(upper) {
			t.Errorf("layer %d %v does not support layer %d %v", i, lower, i+1, upper)
		}
	}
	var total float64
	for _, b := range sol.Boxes {
		total += b.H
	}
	if total != sol.Height {
		t.Errorf("sum of box heights = %v, Height = %v", total, sol.Height)
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	boxes := []box.Box{box.New(6, 2, 1), box.New(2, 6, 3), box.New(4, 4, 2)}
	before := slices.Clone(boxes)
	evaluate(t, boxes, Options{})
	if !slices.Equal(boxes, before) {
		t.Errorf("input modified: %v, want %v", boxes, before)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	boxes := []box.Box{box.New(6, 2, 1), box.New(2, 6, 3), box.New(4, 4, 2), box.New(3, 5, 7)}
	a := evaluate(t, boxes, Options{})
	b := evaluate(t, boxes, Options{})
	if a.Height != b.Height || a.Mask != b.Mask || !slices.Equal(a.Boxes, b.Boxes) {
		t.Errorf("second run differs: %+v vs %+v", a, b)
	}
}

func TestCheckOrder(t *testing.T) {
	bases := func(bs ...box.Base) []Placement {
		ps := make([]Placement, len(bs))
		for i, b := range bs {
			ps[i] = Placement{Box: i, Base: b, Height: 1}
		}
		return ps
	}

	tests := []struct {
		name           string
		in             []Placement
		maxCorrections int
		wantOK         bool
		wantCorrected  bool
		wantBases      []box.Base
	}{
		{"empty", nil, 0, true, false, nil},
		{"single", bases(box.Base{1, 9}), 0, true, false, []box.Base{{1, 9}}},
		{"already ordered", bases(box.Base{5, 4}, box.Base{3, 2}), 0, true, false, []box.Base{{5, 4}, {3, 2}}},
		{"equal fails", bases(box.Base{5, 5}, box.Base{5, 1}), 0, false, false, nil},
		{"one turn", bases(box.Base{6, 5}, box.Base{4, 5}), 0, true, true, []box.Base{{6, 5}, {5, 4}}},
		{"area is not enough", bases(box.Base{3, 3}, box.Base{4, 2}), 0, false, false, nil},
		{
			"turned base carries to next pair",
			bases(box.Base{6, 5}, box.Base{4, 5}, box.Base{3, 4}),
			0, true, true,
			[]box.Base{{6, 5}, {5, 4}, {4, 3}},
		},
		{
			"single turn budget",
			bases(box.Base{6, 5}, box.Base{4, 5}, box.Base{3, 4}),
			1, false, true, nil,
		},
		{
			"single turn budget enough",
			bases(box.Base{6, 5}, box.Base{4, 5}, box.Base{3, 2}),
			1, true, true,
			[]box.Base{{6, 5}, {5, 4}, {3, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, corrected := CheckOrder(tt.in, tt.maxCorrections)
			if ok != tt.wantOK {
				t.Fatalf("CheckOrder ok = %v, want %v", ok, tt.wantOK)
			}
			if corrected != tt.wantCorrected {
				t.Errorf("CheckOrder corrected = %v, want %v", corrected, tt.wantCorrected)
			}
			if !ok {
				return
			}
			for i, want := range tt.wantBases {
				if tt.in[i].Base != want {
					t.Errorf("layer %d base = %v, want %v", i, tt.in[i].Base, want)
				}
			}
		})
	}
}

func TestEvaluateCombination(t *testing.T) {
	boxes := []box.Box{box.New(4, 4, 2), box.New(3, 3, 3)}
	h := hierarchy.Build(boxes)

	both := EvaluateCombination(h, combo.Mask(0b11), 0)
	if both.Accepted {
		t.Errorf("4x4x2 + 3x3x3 candidate accepted: %+v", both)
	}

	cube := EvaluateCombination(h, combo.Mask(0b10), 0)
	if !cube.Accepted || cube.Height != 3 {
		t.Errorf("cube candidate = %+v, want accepted height 3", cube)
	}

	empty := EvaluateCombination(h, 0, 0)
	if !empty.Accepted || empty.Height != 0 || len(empty.Placements) != 0 {
		t.Errorf("empty candidate = %+v", empty)
	}
}

func TestGreedyTieKeepsFirstBox(t *testing.T) {
	// Both boxes present 5x1 at height 5; the first input box is picked for
	// the smallest base and the second falls through to 5x5.
	boxes := []box.Box{box.New(5, 5, 1), box.New(5, 5, 1)}
	h := hierarchy.Build(boxes)
	c := EvaluateCombination(h, combo.Mask(0b11), 0)
	if len(c.Placements) != 2 {
		t.Fatalf("placements = %v", c.Placements)
	}
	top := c.Placements[len(c.Placements)-1]
	if top.Box != 0 || top.Base != (box.Base{5, 1}) {
		t.Errorf("top placement = %+v, want box 0 on 5x1", top)
	}
}

func TestSolutionJSONShape(t *testing.T) {
	sol := evaluate(t, nil, Options{})
	if sol.Placements == nil || sol.Boxes == nil {
		t.Error("empty solution should carry empty, non-nil slices")
	}
	if sol.Stats.Combinations != 1 {
		t.Errorf("Stats.Combinations = %d, want 1", sol.Stats.Combinations)
	}
}
