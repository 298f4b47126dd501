package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/meridian-labs/harvest/internal/adapters/driven/config/file"
	"github.com/meridian-labs/harvest/internal/adapters/driven/storage/sqlite"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent harvest runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := configfile.Load(cfgFile)
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	reports, err := store.RecentRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, report := range reports {
		cmd.Printf("%s  %s  new=%d modified=%d unchanged=%d chunks=%d warnings=%d\n",
			report.StartedAt.Local().Format(time.DateTime),
			report.RunID,
			report.Stats.New,
			report.Stats.Modified,
			report.Stats.Unchanged,
			report.ChunksWritten,
			len(report.Warnings),
		)
	}
	return nil
}
