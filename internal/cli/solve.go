package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
	bio "github.com/matzehuels/boxtower/pkg/io"
	"github.com/matzehuels/boxtower/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	boxes       []string // --box values, "LxWxH"
	file        string   // JSON, TOML or YAML box file
	interactive bool     // ask for the boxes in a terminal form

	maxBoxes    int
	workers     int
	corrections int

	noCache    bool
	refresh    bool
	noArchive  bool
	noProgress bool
	noOutput   bool // print the summary only

	render renderFlags
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the tallest stack for a set of boxes",
		Long: `Solve tries every subset of the given boxes, stacks each subset largest base
first and keeps the tallest stack in which every box rests on a base strictly
longer and wider than its own. The winning stack is printed as a table and drawn to a file.

Boxes come from --box flags, from a JSON, TOML or YAML file, or from an
interactive form.`,
		Example: `  boxtower solve --box 4x4x2 --box 2x2x2 --box 3x1x1
  boxtower solve -f boxes.yaml --format svg,png -o tower
  boxtower solve -i --viz diagram`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runSolve(ctx, &opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.boxes, "box", "b", nil, "box dimensions as LxWxH (repeatable)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read boxes from a JSON, TOML or YAML file")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "enter boxes in an interactive form")
	cmd.Flags().IntVar(&opts.maxBoxes, "max-boxes", 0, "largest accepted collection (default from config, 20)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent evaluators (default GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.corrections, "corrections", 0, "quarter turns allowed per stack (0 = one per failing pair)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the solution cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "search again even if a cached solution exists")
	cmd.Flags().BoolVar(&opts.noArchive, "no-archive", false, "do not record the run")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "hide the progress bars")
	cmd.Flags().BoolVar(&opts.noOutput, "summary-only", false, "print the summary without writing files")
	opts.render.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("box", "file", "interactive")

	return cmd
}

func (c *CLI) runSolve(ctx context.Context, opts *solveOpts) error {
	logger := loggerFromContext(ctx)

	popts := pipeline.Options{
		MaxBoxes:       opts.maxBoxes,
		Workers:        opts.workers,
		MaxCorrections: opts.corrections,
		Refresh:        opts.refresh,
		Source:         "cli",
		NoArchive:      opts.noArchive,
		Logger:         logger,
	}
	c.searchDefaults(&popts)
	opts.render.apply(&popts)
	if opts.noOutput {
		popts.Formats = []string{pipeline.FormatJSON}
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	boxes, err := c.collectBoxes(ctx, opts, popts.MaxBoxes)
	if err != nil {
		return err
	}
	logger.Infof("Searching %d boxes", len(boxes))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if !opts.noProgress {
		bar := newProgressBar(os.Stderr)
		defer bar.Close()
		popts.Progress = bar.Func()
	}

	sw := startStopwatch(logger)
	result, err := runner.Execute(ctx, boxes, popts)
	if err != nil {
		return err
	}
	sw.done("Search finished")

	printSolution(result)

	if !opts.noOutput {
		paths, err := writeArtifacts(result.Artifacts, popts.Formats, opts.render.output, opts.file)
		if err != nil {
			return err
		}
		for _, p := range paths {
			printFile(p)
		}
	}

	if result.RunID != "" {
		printNewline()
		printNextStep("Draw it again", "boxtower render --run "+result.RunID+" --viz diagram")
	}
	return nil
}

// collectBoxes reads the boxes from whichever source the flags name.
func (c *CLI) collectBoxes(ctx context.Context, opts *solveOpts, limit int) ([]box.Box, error) {
	switch {
	case len(opts.boxes) > 0:
		return bio.ParseBoxFlags(opts.boxes)
	case opts.file != "":
		if err := errors.ValidateFilePath(opts.file); err != nil {
			return nil, err
		}
		return bio.ImportBoxes(opts.file)
	case opts.interactive:
		return runBoxForm(ctx, limit)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "no boxes given: use --box, --file or --interactive")
}

// printSolution prints the headline, statistics and stack table.
func printSolution(result *pipeline.Result) {
	sol := result.Solution
	if sol.Len() == 0 {
		printWarning("No box could be stacked")
		printStats(sol, result.CacheHit)
		return
	}
	printSuccess("Tallest stack: %s (%d of %d boxes)",
		StyleNumber.Render(fmtNum(sol.Height)), sol.Len(), result.Stats.Boxes)
	printStats(sol, result.CacheHit)
	printBlock(solutionTable(sol))
	if sol.Corrected {
		printDetail("Some layers were turned a quarter to fit the box below.")
	}
}
