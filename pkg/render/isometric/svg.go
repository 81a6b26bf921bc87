package isometric

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style render.Style
	title string
}

// WithStyle selects the colour palette.
func WithStyle(s render.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithTitle sets the SVG <title>.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG draws sol's oriented boxes.
func RenderSVG(sol *stack.Solution, opts ...SVGOption) []byte {
	r := svgRenderer{style: render.Classic, title: "Boxtower"}
	for _, opt := range opts {
		opt(&r)
	}
	return r.render(Project(sol.Boxes))
}

func (r svgRenderer) render(sc Scene) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		Width, Height, Width, Height)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.style.Background)

	fmt.Fprintf(&buf, `  <g stroke="%s" stroke-width="1" stroke-linecap="round">`+"\n", r.style.Line)
	for _, l := range sc.Lines {
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", l.From.X, l.From.Y, l.To.X, l.To.Y)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf, `  <g fill="%s" font-family="sans-serif">`+"\n", r.style.Text)
	for _, lb := range sc.Labels {
		dy := "0.35em"
		if lb.Below {
			dy = "1.2em"
		}
		fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f" dy="%s" font-size="%.0f" text-anchor="%s">%s</text>`+"\n",
			lb.At.X, lb.At.Y, dy, lb.Size, lb.Anchor, html.EscapeString(lb.Text))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
