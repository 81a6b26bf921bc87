package stackdot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the input position and correction marker to labels.
	Detailed bool

	// Style colours the diagram. The zero value uses render.Classic.
	Style render.Style
}

const (
	minNodeWidth = 0.8 // inches
	maxNodeWidth = 4.0
)

// ToDOT converts a solution to Graphviz DOT.
func ToDOT(sol *stack.Solution, opts Options) string {
	style := opts.Style
	if style.Name == "" {
		style = render.Classic
	}

	var buf bytes.Buffer
	buf.WriteString("digraph stack {\n")
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", style.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"filled\", fillcolor=%q, color=%q, fontcolor=%q, fontsize=14];\n",
		style.Background, style.Line, style.Text)
	fmt.Fprintf(&buf, "  edge [color=%q, fontcolor=%q, fontsize=10];\n", style.Line, style.Text)
	buf.WriteString("  ranksep=0.3;\n\n")

	widest := 0.0
	for _, p := range sol.Placements {
		widest = max(widest, p.Base[0], p.Base[1])
	}

	n := len(sol.Placements)
	for i := n - 1; i >= 0; i-- {
		p := sol.Placements[i]
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(sol, i, opts.Detailed)),
			fmt.Sprintf("width=%.2f", nodeWidth(max(p.Base[0], p.Base[1]), widest)),
		}
		if opts.Detailed && p.Corrected {
			attrs = append(attrs, `style="filled,dashed"`)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := n - 1; i > 0; i-- {
		fmt.Fprintf(&buf, "  %q -> %q [label=\"rests on\"];\n", nodeID(i), nodeID(i-1))
	}

	fmt.Fprintf(&buf, "\n  label=%q;\n  labelloc=b;\n", "Total Height: "+fmtNum(sol.Height))
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(layer int) string { return "layer" + strconv.Itoa(layer) }

func fmtLabel(sol *stack.Solution, i int, detailed bool) string {
	p := sol.Placements[i]
	lines := []string{fmt.Sprintf("%s  h=%s", p.Base, fmtNum(p.Height))}
	if detailed {
		lines = append(lines, fmt.Sprintf("box #%d", p.Box+1))
		if p.Corrected {
			lines = append(lines, "turned")
		}
	}
	return strings.Join(lines, "\n")
}

func nodeWidth(size, widest float64) float64 {
	if widest <= 0 {
		return minNodeWidth
	}
	return minNodeWidth + (maxNodeWidth-minNodeWidth)*size/widest
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based <svg> header with one whose
// viewBox starts at the origin, so the diagram scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
