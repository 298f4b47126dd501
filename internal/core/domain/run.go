package domain

import "time"

// ExtractionWarning records a non-fatal per-file extraction problem.
// A corrupt or unsupported file yields empty text and a warning, never an
// aborted run. Warnings are aggregated on the RunReport.
type ExtractionWarning struct {
	// DocumentID is the identity of the affected file.
	DocumentID string

	// DocumentName is the display name of the affected file.
	DocumentName string

	// ContentType is the file's MIME type.
	ContentType string

	// Reason describes what went wrong.
	Reason string
}

// RunReport summarises one pipeline run.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time

	// Stats is the change-detection classification of all listed files.
	Stats ChangeStats

	// FilesProcessed is the number of files extracted and persisted this run.
	FilesProcessed int

	// ChunksWritten is the number of embedded chunks appended to the store.
	ChunksWritten int

	// SnapshotPath is the exported snapshot handed to the downstream importer.
	// Always set on success, including for runs with nothing to process.
	SnapshotPath string

	// Warnings collects per-file extraction diagnostics.
	Warnings []ExtractionWarning
}
