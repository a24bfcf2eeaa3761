package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/notemd/notemd/internal/config"
	"github.com/notemd/notemd/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists past export runs recorded in the history ledger.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past export runs",
		Long: `History lists export runs recorded in the history ledger.

Each export run is recorded with its root page, timing, and the files it
produced. Use --run to list the documents of a single run.

Examples:
  # List recent runs
  notemd history

  # List all runs
  notemd history --limit 0

  # List the documents of run 3
  notemd history --run 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().Int64P("run", "r", 0,
		"List the documents exported by the given run id")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	// Refuse to create the database here: a missing ledger just means no
	// exports have run yet.
	hdb, err := database.Open(config.XDGDataDir(), database.Options{EnableWAL: true})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No export history yet. Run 'notemd export' first.")
		return nil
	}
	defer hdb.Close()

	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	if runID > 0 {
		return printRunDocuments(cmd, hdb, runID)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return printRuns(cmd, hdb, limit)
}

// printRuns lists recorded runs, newest first.
func printRuns(cmd *cobra.Command, hdb *database.HistoryDB, limit int) error {
	runs, err := hdb.Runs(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No export history yet. Run 'notemd export' first.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tDURATION\tROOT\tEXPORTED\tSKIPPED\tOUTPUT")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
			run.RootID.Short(),
			run.Exported,
			run.Skipped,
			run.OutputDir,
		)
	}
	return w.Flush()
}

// printRunDocuments lists the documents of a single run.
func printRunDocuments(cmd *cobra.Command, hdb *database.HistoryDB, runID int64) error {
	run, err := hdb.Run(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %d not found (use 'notemd history' to see available ids)", runID)
	}

	docs, err := hdb.Documents(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %d: root %s, %d exported, %d skipped, output %s\n\n",
		run.ID, run.RootID.Short(), run.Exported, run.Skipped, run.OutputDir)

	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents recorded for this run.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tTITLE\tFILE")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", doc.PageID.Short(), doc.Title, doc.Filename)
	}
	return w.Flush()
}
