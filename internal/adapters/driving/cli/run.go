package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runDry bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one harvest pass",
	Long: `Lists the configured source, processes files that are new or changed
since the last run, and writes the run's snapshot.

With --dry-run the full pipeline executes, including extraction and
embedding, but nothing is persisted: the corpus database is untouched and
the snapshot goes to the system temp directory.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDry, "dry-run", false, "run the pipeline without persisting anything")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx, runDry)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if runDry {
		cmd.Println("Dry run: nothing was persisted")
	}
	cmd.Printf("Run %s finished in %s\n", report.RunID, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	cmd.Printf("  new: %d, modified: %d, unchanged: %d\n",
		report.Stats.New, report.Stats.Modified, report.Stats.Unchanged)
	cmd.Printf("  files processed: %d, chunks written: %d\n",
		report.FilesProcessed, report.ChunksWritten)
	cmd.Printf("  snapshot: %s\n", report.SnapshotPath)

	if len(report.Warnings) > 0 {
		cmd.Printf("  warnings (%d):\n", len(report.Warnings))
		for _, warning := range report.Warnings {
			cmd.Printf("    %s (%s): %s\n", warning.DocumentName, warning.ContentType, warning.Reason)
		}
	}
	return nil
}
