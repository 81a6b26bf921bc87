package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/errors"
	bio "github.com/matzehuels/boxtower/pkg/io"
	"github.com/matzehuels/boxtower/pkg/pipeline"
	"github.com/matzehuels/boxtower/pkg/stack"
)

// defaultOutputBase names output files when nothing else suggests a name.
const defaultOutputBase = "boxtower"

// renderFlags holds the output flags shared by solve and render.
type renderFlags struct {
	output   string // output file (single format) or base path (multiple)
	formats  string // comma-separated output formats
	viz      string // isometric or diagram
	style    string // colour palette
	detailed bool   // show indices and turn markers in diagrams
	scale    float64
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "F", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&f.viz, "viz", pipeline.DefaultViz, "visualization: isometric, diagram")
	cmd.Flags().StringVar(&f.style, "style", pipeline.DefaultStyle, "colour style: classic, paper, blueprint")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show input indices and turned layers (diagram)")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	registerRenderCompletions(cmd)
}

// apply copies the flags into opts.
func (f *renderFlags) apply(opts *pipeline.Options) {
	opts.Formats = pipeline.ParseFormats(f.formats)
	opts.Viz = f.viz
	opts.Style = f.style
	opts.Detailed = f.detailed
	opts.Scale = f.scale
}

// renderCommand creates the render command for redrawing saved solutions.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   renderFlags
		runID   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [solution.json]",
		Short: "Render a saved solution or an archived run",
		Long: `Render draws a solution exported with "solve --format json", or a run from the
archive when --run is given, without searching again.`,
		Example: `  boxtower render stack.json --viz diagram --format svg,png
  boxtower render --run 6f1c2a4e-... -o tower.pdf --format pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (runID != "") {
				return errors.New(errors.ErrCodeInvalidInput, "give either a solution file or --run")
			}
			var opts pipeline.Options
			flags.apply(&opts)
			if err := opts.ValidateForRender(); err != nil {
				return err
			}

			ctx := withLogger(cmd.Context(), c.Logger)
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			sol, err := c.loadSolution(ctx, runner, input, runID)
			if err != nil {
				return err
			}
			return c.runRender(ctx, runner, sol, input, flags.output, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&runID, "run", "", "render an archived run by ID")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// loadSolution reads a solution from a JSON file or the run archive.
func (c *CLI) loadSolution(ctx context.Context, runner *pipeline.Runner, path, runID string) (*stack.Solution, error) {
	logger := loggerFromContext(ctx)
	if path != "" {
		if err := errors.ValidateFilePath(path); err != nil {
			return nil, err
		}
		logger.Debugf("Loading solution from %s", path)
		return bio.ImportSolutionJSON(path)
	}
	if runner.Archive == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "run archive is disabled (archive.backend = none)")
	}
	logger.Debugf("Loading run %s", runID)
	run, err := runner.Archive.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.Solution == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "run %s has no solution", runID)
	}
	return run.Solution, nil
}

func (c *CLI) runRender(ctx context.Context, runner *pipeline.Runner, sol *stack.Solution, input, output string, opts pipeline.Options) error {
	sw := startStopwatch(loggerFromContext(ctx))
	artifacts, err := runner.Render(ctx, sol, opts)
	if err != nil {
		return err
	}
	sw.done("Rendered %s", strings.Join(opts.Formats, ", "))

	paths, err := writeArtifacts(artifacts, opts.Formats, output, input)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// =============================================================================
// Output Files
// =============================================================================

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .pdf, etc.), that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return defaultOutputBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single format
// with an explicit output path is written exactly there; otherwise files are
// named base.format. "-" writes a single format to stdout.
func outputPaths(formats []string, output, input string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes every rendered format and returns the written paths
// in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	paths := outputPaths(formats, output, input)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if input != "" && filepath.Clean(path) == filepath.Clean(input) {
			return written, errors.New(errors.ErrCodeInvalidInput, "refusing to overwrite input %s (use --output)", input)
		}
		if err := writeFile(path, artifacts[f]); err != nil {
			return written, err
		}
		if path != "-" {
			written = append(written, path)
		}
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// openOutput opens path for writing; "-" is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
