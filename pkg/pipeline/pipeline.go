// Package pipeline provides the solve pipeline shared by the CLI and the
// HTTP server.
//
// The pipeline consists of three stages:
//
//  1. Solve: run the tallest-stack search, or fetch a cached solution
//  2. Archive: record the run under a fresh ID
//  3. Render: produce the requested outputs (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, boxes, pipeline.Options{
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/combo"
	"github.com/matzehuels/boxtower/pkg/errors"
	"github.com/matzehuels/boxtower/pkg/progress"
	"github.com/matzehuels/boxtower/pkg/render"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxBoxes bounds the input size. The search is exponential, so
	// this is the main guard against runaway work.
	DefaultMaxBoxes = combo.DefaultLimit

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultViz is the default visualization.
	DefaultViz = VizIsometric

	// DefaultStyle is the default colour palette.
	DefaultStyle = render.DefaultStyle

	// DefaultSource labels archived runs whose origin is not given.
	DefaultSource = "cli"
)

// Visualization types.
const (
	VizIsometric = "isometric"
	VizDiagram   = "diagram"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizIsometric: true,
	VizDiagram:   true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatDOT:  "text/vnd.graphviz",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the solve pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Search options
	MaxBoxes       int  `json:"max_boxes,omitempty"`
	Workers        int  `json:"workers,omitempty"`
	MaxCorrections int  `json:"max_corrections,omitempty"`
	Refresh        bool `json:"refresh,omitempty"` // Ignore cached solutions

	// Render options
	Viz      string   `json:"viz,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Archive options
	Source    string `json:"-"`
	NoArchive bool   `json:"-"`

	// Runtime options (not serialized)
	Logger   *log.Logger   `json:"-"`
	Progress progress.Func `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the archived run; empty when archiving is off or failed.
	RunID string

	// Solution is the tallest stack found.
	Solution *stack.Solution

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheHit reports whether the solution came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Boxes      int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if style == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "style cannot be empty")
	}
	_, err := render.ParseStyle(style)
	return err
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(viz string) error {
	if !ValidVizTypes[viz] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid viz: %q (must be one of: isometric, diagram)", viz)
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates. An empty string yields svg.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{FormatSVG}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Source == "" {
		o.Source = DefaultSource
	}
	o.validated = true
	return nil
}

// SetSolveDefaults sets default values for the search.
func (o *Options) SetSolveDefaults() {
	if o.MaxBoxes == 0 {
		o.MaxBoxes = DefaultMaxBoxes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSolve validates and sets defaults for the search.
func (o *Options) ValidateForSolve() error {
	o.SetSolveDefaults()
	switch {
	case o.MaxBoxes < 0 || o.MaxBoxes > combo.HardLimit:
		return errors.New(errors.ErrCodeInvalidInput, "max_boxes must be between 1 and %d", combo.HardLimit)
	case o.Workers < 0:
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative")
	case o.MaxCorrections < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_corrections cannot be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Viz == "" {
		o.Viz = DefaultViz
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.Viz); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative")
	}
	return ValidateStyle(o.Style)
}

// SolutionKeyOpts returns cache key options for the search.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{MaxCorrections: o.MaxCorrections}
}

// StackOptions returns evaluator options.
func (o *Options) StackOptions() stack.Options {
	return stack.Options{
		MaxBoxes:       o.MaxBoxes,
		Workers:        o.Workers,
		MaxCorrections: o.MaxCorrections,
		Progress:       o.Progress,
		Logger:         o.Logger,
	}
}

// renderKey identifies everything besides the solution that shapes an artifact.
func (o *Options) renderKey() string {
	return strings.Join([]string{o.Viz, o.Style, boolString(o.Detailed), formatFloat(o.Scale)}, "|")
}
