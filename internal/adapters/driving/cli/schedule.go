package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/meridian-labs/harvest/internal/adapters/driven/config/file"
	"github.com/meridian-labs/harvest/internal/connectors/filesystem"
	"github.com/meridian-labs/harvest/internal/core/services"
)

var (
	scheduleEvery time.Duration
	scheduleCron  string
	scheduleWatch bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run harvest passes on a schedule",
	Long: `Keeps the harvester running and executes a pass on a fixed interval,
a cron expression, or whenever a watched filesystem source changes.
Stops on SIGINT or SIGTERM.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().DurationVar(&scheduleEvery, "every", 0, "run every interval (e.g. 30m)")
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "run on a cron expression (e.g. \"0 6 * * *\")")
	scheduleCmd.Flags().BoolVar(&scheduleWatch, "watch", false, "also run when the filesystem source changes")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduleEvery == 0 && scheduleCron == "" && !scheduleWatch {
		return errors.New("one of --every, --cron or --watch is required")
	}

	ctx := cmd.Context()

	a, err := buildApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	opts := []services.SchedulerOption{}
	if scheduleEvery > 0 {
		opts = append(opts, services.WithInterval(scheduleEvery))
	}
	if scheduleCron != "" {
		opts = append(opts, services.WithCron(scheduleCron))
	}

	var watcher *filesystem.Watcher
	if scheduleWatch {
		if a.cfg.Source.Kind != configfile.SourceFilesystem {
			return fmt.Errorf("--watch requires the filesystem source, not %q", a.cfg.Source.Kind)
		}
		tree, ok := a.tree.(*filesystem.Tree)
		if !ok {
			return errors.New("--watch requires the filesystem source")
		}
		watcher, err = filesystem.NewWatcher(tree.Root())
		if err != nil {
			return err
		}
		defer watcher.Close()
		opts = append(opts, services.WithTriggers(watcher.Triggers()))
	}

	scheduler := services.NewScheduler(a.pipeline, opts...)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	cmd.Println("Stopping.")
	return nil
}
