// Package stackdot renders a solved stack as a Graphviz diagram.
//
// Every layer becomes a node, drawn top of the stack first, with a
// "rests on" edge to the layer beneath it. Node widths are proportional to
// the layer's footprint so the taper of the stack stays visible.
//
//	dot := stackdot.ToDOT(sol, stackdot.Options{Detailed: true})
//	svg, err := stackdot.RenderSVG(ctx, dot)
//
// Rendering runs Graphviz in-process through go-graphviz; no dot binary is
// needed.
package stackdot
