package isometric

import (
	"context"
	"encoding/xml"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/stack"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestProjectSingleBox(t *testing.T) {
	b := box.New(5, 7, 9)
	sc := Project([]box.Box{b})

	bottom := (5 + 7) * math.Sin(Angle)
	wantScale := drawHeight / (bottom + 9)
	if !near(sc.Scale, wantScale) {
		t.Errorf("Scale = %v, want %v", sc.Scale, wantScale)
	}
	if len(sc.Lines) != 9 {
		t.Errorf("got %d lines, want 9", len(sc.Lines))
	}
	if len(sc.Labels) != 4 {
		t.Fatalf("got %d labels, want 4", len(sc.Labels))
	}

	caption := sc.Labels[len(sc.Labels)-1]
	if caption.Text != "Total Height: 9" {
		t.Errorf("caption = %q", caption.Text)
	}
}

func TestProjectFitsCanvas(t *testing.T) {
	boxes := []box.Box{box.New(10, 8, 3), box.New(6, 5, 4), box.New(2, 1, 7)}
	sc := Project(boxes)

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, l := range sc.Lines {
		for _, p := range []Point{l.From, l.To} {
			minY = min(minY, p.Y)
			maxY = max(maxY, p.Y)
			if p.X < 0 || p.X > Width {
				t.Errorf("point %v outside canvas", p)
			}
		}
	}
	// The drawing spans exactly the vertical budget, ending at the baseline.
	if !near(maxY, baseline) {
		t.Errorf("lowest point = %v, want %v", maxY, baseline)
	}
	if !near(maxY-minY, drawHeight) {
		t.Errorf("drawing height = %v, want %v", maxY-minY, drawHeight)
	}
}

func TestProjectStacksUpward(t *testing.T) {
	sc := Project([]box.Box{box.New(4, 4, 2), box.New(3, 3, 3)})
	if len(sc.Lines) != 18 {
		t.Fatalf("got %d lines, want 18", len(sc.Lines))
	}
	// Line 2 of each box is the rear top edge; the second box's starts at the
	// first box's top.
	firstTop := sc.Lines[2].From.Y
	secondBottomRear := sc.Lines[9].From
	if secondBottomRear.Y <= firstTop {
		t.Errorf("second box lower edge y=%v should lie below first top y=%v", secondBottomRear.Y, firstTop)
	}
	if sc.Lines[11].From.Y >= firstTop {
		t.Errorf("second box top y=%v should be above first top y=%v", sc.Lines[11].From.Y, firstTop)
	}
}

func TestProjectEmpty(t *testing.T) {
	sc := Project(nil)
	if len(sc.Lines) != 0 {
		t.Errorf("empty stack drew %d lines", len(sc.Lines))
	}
	if len(sc.Labels) != 1 || sc.Labels[0].Text != "Total Height: 0" {
		t.Errorf("labels = %+v", sc.Labels)
	}
}

func TestProjectFractionalCaption(t *testing.T) {
	sc := Project([]box.Box{box.New(2, 2, 1.5)})
	if got := sc.Labels[len(sc.Labels)-1].Text; got != "Total Height: 1.5" {
		t.Errorf("caption = %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	sol, err := stack.Evaluate(context.Background(), []box.Box{box.New(6, 2, 1), box.New(2, 6, 3)})
	if err != nil {
		t.Fatal(err)
	}
	svg := RenderSVG(sol, WithStyle(render.Paper), WithTitle("a < b"))

	if err := xml.Unmarshal(svg, new(struct{})); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	s := string(svg)
	for _, want := range []string{
		`viewBox="0 0 800 600"`,
		render.Paper.Background,
		"Total Height: 12",
		"<title>a &lt; b</title>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(s, "<line "); got != 18 {
		t.Errorf("SVG has %d lines, want 18", got)
	}
}
