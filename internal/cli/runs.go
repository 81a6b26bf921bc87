package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtower/pkg/archive"
	"github.com/matzehuels/boxtower/pkg/pipeline"
)

// runsCommand creates the runs command for browsing the archive.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List and inspect archived runs",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())

	return cmd
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs recorded yet")
				return nil
			}
			fmt.Fprintln(c.out, runsTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultListLimit, "maximum number of runs")
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openArchive(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}
			printRun(run)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run as JSON")
	return cmd
}

func printRun(run *archive.Run) {
	fmt.Println(StyleTitle.Render("Run " + run.ID))
	printKeyValue("Created", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printKeyValue("Source", run.Source)
	printKeyValue("Boxes", fmt.Sprintf("%d", len(run.Boxes)))
	if run.MaxCorrections > 0 {
		printKeyValue("Corrections", fmt.Sprintf("%d", run.MaxCorrections))
	}
	if run.Solution == nil {
		return
	}
	printKeyValue("Height", fmtNum(run.Solution.Height))
	printNewline()
	printSolution(&pipeline.Result{
		Solution: run.Solution,
		Stats:    pipeline.Stats{Boxes: len(run.Boxes)},
		CacheHit: false,
	})
}
