// Package isometric draws a solved stack as an isometric line drawing.
//
// Each box is projected with its length running down-right and its width
// running down-left at [Angle] radians from the horizontal, and its height
// drawn vertically. Boxes are stacked from the bottom of the canvas upward and
// the whole drawing is scaled so the projected stack fills a fixed vertical
// budget, whatever the real dimensions. Visible edges carry the dimension
// they measure, and a caption states the total height.
//
//	svg := isometric.RenderSVG(sol, isometric.WithStyle(render.Paper))
//
// [Project] exposes the computed geometry so callers can draw it on another
// surface.
package isometric
