package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/matzehuels/boxtower/pkg/errors"
	bio "github.com/matzehuels/boxtower/pkg/io"
	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/render/isometric"
	"github.com/matzehuels/boxtower/pkg/render/stackdot"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// Render generates output artifacts in the requested formats.
// opts must have passed ValidateForRender.
func Render(ctx context.Context, sol *stack.Solution, opts Options) (map[string][]byte, error) {
	style, err := render.ParseStyle(opts.Style)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte // shared by svg, png and pdf
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = bio.WriteSolutionJSON(sol, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(stackdot.ToDOT(sol, dotOptions(style, opts)))
		case FormatSVG, FormatPNG, FormatPDF:
			if svg == nil {
				if svg, err = renderSVG(ctx, sol, style, opts); err != nil {
					break
				}
			}
			data, err = rasterize(ctx, svg, format, opts)
		default:
			err = errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderSVG(ctx context.Context, sol *stack.Solution, style render.Style, opts Options) ([]byte, error) {
	if opts.Viz == VizDiagram {
		return stackdot.RenderSVG(ctx, stackdot.ToDOT(sol, dotOptions(style, opts)))
	}
	return isometric.RenderSVG(sol, isometric.WithStyle(style)), nil
}

func rasterize(ctx context.Context, svg []byte, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}

func dotOptions(style render.Style, opts Options) stackdot.Options {
	return stackdot.Options{Detailed: opts.Detailed, Style: style}
}

// isRaster reports whether format needs an external converter, which makes
// it worth caching.
func isRaster(format string) bool {
	return format == FormatPNG || format == FormatPDF
}

func boolString(b bool) string { return strconv.FormatBool(b) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
