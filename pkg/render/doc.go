// Package render turns a solved stack into pictures.
//
// # Overview
//
// Two renderers live in subpackages:
//
//   - [isometric]: an isometric line drawing of the stack with each box's
//     dimensions labelled and the total height as a caption
//   - [stackdot]: a Graphviz diagram with one node per layer and "rests on"
//     edges, useful when the stack is too tall to read isometrically
//
// This package holds what they share: the colour [Style] palettes and
// conversion of SVG output to PDF or PNG.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg):
//
//	svg := isometric.RenderSVG(sol)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [isometric]: github.com/matzehuels/boxtower/pkg/render/isometric
// [stackdot]: github.com/matzehuels/boxtower/pkg/render/stackdot
package render
