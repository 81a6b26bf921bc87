package isometric

import (
	"math"
	"strconv"

	"github.com/matzehuels/boxtower/pkg/box"
)

// Canvas geometry.
const (
	Angle  = 0.4   // projection angle in radians
	Width  = 800.0 // canvas width
	Height = 600.0 // canvas height

	drawHeight = 500.0 // vertical budget for the projected stack
	baseline   = 550.0 // y of the lowest point of the bottom box
	captionY   = 585.0
)

// Point is a canvas coordinate (y grows downward).
type Point struct{ X, Y float64 }

func (p Point) add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Line is a straight edge.
type Line struct{ From, To Point }

// Anchor is the horizontal text alignment.
type Anchor string

const (
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Label is a piece of text on the canvas.
type Label struct {
	At     Point
	Text   string
	Anchor Anchor
	Size   float64
	Below  bool // shift one line down, clear of the edge it labels
}

// Scene is the projected drawing.
type Scene struct {
	Lines  []Line
	Labels []Label
	Scale  float64
}

// Project lays out boxes (bottom to top, already oriented) on the canvas.
func Project(boxes []box.Box) Scene {
	center := (Width - 1) / 2
	var total float64
	for _, b := range boxes {
		total += b.H
	}

	var sc Scene
	if len(boxes) > 0 {
		sin := math.Sin(Angle)
		bottom := (boxes[0].L + boxes[0].W) * sin
		sc.Scale = drawHeight / (bottom + total)
		y := baseline - bottom*sc.Scale
		for _, b := range boxes {
			y = sc.addBox(b, Point{center, y})
		}
	}

	sc.Labels = append(sc.Labels, Label{
		At:     Point{center, captionY},
		Text:   "Total Height: " + formatDim(total),
		Anchor: AnchorMiddle,
		Size:   16,
	})
	return sc
}

// addBox draws one box whose rear lower corner sits at origin and returns the
// y of its rear upper corner, where the next box starts.
func (sc *Scene) addBox(b box.Box, origin Point) float64 {
	cos, sin := math.Cos(Angle), math.Sin(Angle)
	s := sc.Scale
	length := Point{b.L * s * cos, b.L * s * sin}
	width := Point{-b.W * s * cos, b.W * s * sin}
	up := Point{0, -b.H * s}
	down := Point{0, b.H * s}

	// Lower front edges.
	p := origin.add(length)
	q := p.add(width)
	sc.line(p, q)
	sc.label(mid(p, q), b.W, AnchorMiddle, true)

	p = origin.add(width)
	q = p.add(length)
	sc.line(p, q)
	sc.label(mid(p, q), b.L, AnchorMiddle, true)
	sc.label(Point{p.X - 5, p.Y - b.H*s/2}, b.H, AnchorEnd, false)

	// Top face and the three visible verticals.
	top := origin.add(up)
	right := top.add(length)
	front := right.add(width)
	left := front.add(Point{-length.X, -length.Y})
	sc.line(top, right)
	sc.line(right, front)
	sc.line(front, left)
	sc.line(left, top)
	for _, c := range []Point{right, front, left} {
		sc.line(c, c.add(down))
	}
	return top.Y
}

func (sc *Scene) line(from, to Point) {
	sc.Lines = append(sc.Lines, Line{from, to})
}

func (sc *Scene) label(at Point, v float64, anchor Anchor, below bool) {
	sc.Labels = append(sc.Labels, Label{At: at, Text: formatDim(v), Anchor: anchor, Size: 12, Below: below})
}

func mid(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

func formatDim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
