package box

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/matzehuels/boxtower/pkg/errors"
)

// Base is an ordered pair of dimensions forming a box's contact area.
type Base [2]float64

// Area returns the footprint area of the base.
func (b Base) Area() float64 { return b[0] * b[1] }

// Rotated returns the base turned a quarter horizontally (components swapped).
func (b Base) Rotated() Base { return Base{b[1], b[0]} }

// Same reports whether b and o describe the same physical base, ignoring
// component order.
func (b Base) Same(o Base) bool {
	return b == o || b == o.Rotated()
}

// Supports reports whether b strictly exceeds upper in both positions, i.e.
// whether a box presenting upper may rest on a box presenting b without
// rotating either.
func (b Base) Supports(upper Base) bool {
	return b[0] > upper[0] && b[1] > upper[1]
}

// String formats the base as "AxB".
func (b Base) String() string {
	return formatDim(b[0]) + "x" + formatDim(b[1])
}

// Orientation is one way to stand a box: the footprint it rests on and the
// height that results.
type Orientation struct {
	Base   Base    `json:"base"`
	Height float64 `json:"height"`
}

// Box is a rectangular box with three dimension slots.
// The zero value is not a valid box; use [New].
type Box struct {
	L float64 `json:"l" toml:"l" yaml:"l"`
	W float64 `json:"w" toml:"w" yaml:"w"`
	H float64 `json:"h" toml:"h" yaml:"h"`
}

// New creates a box from three dimensions, assigned to L, W and H in order.
// Dimensions are not validated here; input collection rejects non-positive
// values before boxes are built.
func New(d1, d2, d3 float64) Box {
	return Box{L: d1, W: d2, H: d3}
}

// Dims returns the dimensions in slot order.
func (b Box) Dims() [3]float64 {
	return [3]float64{b.L, b.W, b.H}
}

// Volume returns L*W*H.
func (b Box) Volume() float64 {
	return b.L * b.W * b.H
}

// Bases returns the three footprints in the fixed enumeration order
// (L,W), (L,H), (W,H).
func (b Box) Bases() [3]Base {
	return [3]Base{{b.L, b.W}, {b.L, b.H}, {b.W, b.H}}
}

// Orientations yields the box's three orientations in the fixed enumeration
// order. The sequence is derived from the dimensions alone and can be
// iterated any number of times.
func (b Box) Orientations() iter.Seq[Orientation] {
	return func(yield func(Orientation) bool) {
		heights := [3]float64{b.H, b.W, b.L}
		for i, base := range b.Bases() {
			if !yield(Orientation{Base: base, Height: heights[i]}) {
				return
			}
		}
	}
}

// HeightFor returns the height the box has when resting on base, matching
// the base's values against the dimension multiset. ok is false when the box
// cannot present base.
func (b Box) HeightFor(base Base) (height float64, ok bool) {
	dims := b.Dims()
	used := [3]bool{}
	for _, v := range base {
		found := false
		for i, d := range dims {
			if !used[i] && d == v {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	for i, d := range dims {
		if !used[i] {
			return d, true
		}
	}
	return 0, false
}

// Presents reports whether the box can rest on base in either component order.
func (b Box) Presents(base Base) bool {
	_, ok := b.HeightFor(base)
	return ok
}

// Oriented returns a copy of the box relabelled so that base becomes its
// footprint in the given order and the remaining dimension becomes H.
// It fails with ErrCodeInvalidBase when base's values are not both dimensions
// of the box.
func (b Box) Oriented(base Base) (Box, error) {
	h, ok := b.HeightFor(base)
	if !ok {
		return b, errors.New(errors.ErrCodeInvalidBase, "base %s is not a footprint of box %s", base, b)
	}
	return Box{L: base[0], W: base[1], H: h}, nil
}

// SetOrientation relabels the box in place; see [Box.Oriented].
// On error the box is left unchanged.
func (b *Box) SetOrientation(base Base) error {
	o, err := b.Oriented(base)
	if err != nil {
		return err
	}
	*b = o
	return nil
}

// Footprint returns the current (L, W) footprint.
func (b Box) Footprint() Base {
	return Base{b.L, b.W}
}

// String formats the box as "(L:4,W:4,H:2)".
func (b Box) String() string {
	return fmt.Sprintf("(L:%s,W:%s,H:%s)", formatDim(b.L), formatDim(b.W), formatDim(b.H))
}

func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
