package driving

import (
	"context"

	"github.com/meridian-labs/harvest/internal/core/domain"
)

// PipelineRunner executes one harvesting run: list, detect changes, extract,
// chunk, embed, persist. Runs are single-writer; a second Run while one is
// executing returns domain.ErrRunInProgress.
type PipelineRunner interface {
	// Run executes one complete pass and returns its report.
	// On failure the durable hash index is left untouched, so a retried run
	// re-derives the same change set.
	Run(ctx context.Context) (*domain.RunReport, error)
}

// Scheduler re-executes the pipeline on a schedule.
type Scheduler interface {
	// Start begins scheduled execution. Returns after scheduling; jobs run
	// in the background until Stop.
	Start() error

	// Stop halts scheduled execution and waits for a running job to finish.
	Stop()
}
