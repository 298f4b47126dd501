package domain

// HashIndexEntry records the processed version of one document.
// The index maps document identity to the hash and mtime of the version
// that was actually persisted, never a stale value.
type HashIndexEntry struct {
	// DocumentID is the document identity.
	DocumentID string

	// ContentHash is the hash of the extracted text of the persisted version.
	ContentHash string

	// ModifiedTime is the source mtime of the persisted version.
	ModifiedTime string
}

// ChangeReason classifies why a file needs processing.
type ChangeReason int

const (
	// ReasonNew indicates the identity is absent from the hash index.
	ReasonNew ChangeReason = iota

	// ReasonModified indicates the content hash differs from the index.
	ReasonModified
)

// String returns the reason name for logging.
func (r ChangeReason) String() string {
	switch r {
	case ReasonNew:
		return "new"
	case ReasonModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Candidate is one file the change detector selected for processing.
// When hash verification already extracted the file's text, the text is
// carried forward so the extraction stage can skip a redundant fetch.
type Candidate struct {
	// File is the descriptor of the file to process.
	File FileDescriptor

	// Reason records why the file was selected.
	Reason ChangeReason

	// Text is the extracted document text from hash verification.
	// Only valid when Extracted is true.
	Text string

	// Extracted reports whether Text was populated during verification.
	Extracted bool
}

// ChangeStats counts the classification of every listed file.
// New + Modified + Unchanged always equals the listed file count.
// Counts are only valid after the full detection pass completes; they are
// not live progress indicators.
type ChangeStats struct {
	New       int
	Modified  int
	Unchanged int
}

// Total returns the number of files the stats cover.
func (s ChangeStats) Total() int {
	return s.New + s.Modified + s.Unchanged
}
