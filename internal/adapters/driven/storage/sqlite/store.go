package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/meridian-labs/harvest/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/meridian-labs/harvest/internal/core/domain"
	"github.com/meridian-labs/harvest/internal/core/ports/driven"
)

// Store is the SQLite-backed persistence layer. It holds the append-only
// chunk corpus, the document identity index, and the run history.
type Store struct {
	db   *sql.DB
	path string
}

var (
	_ driven.HashIndex  = (*Store)(nil)
	_ driven.ChunkStore = (*Store)(nil)
)

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.harvest/data/harvest.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".harvest", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "harvest.db")

	// WAL mode for better concurrency between the writer and readers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Query returns the identity index. An empty database yields an empty
// map, never an error.
func (s *Store) Query(ctx context.Context) (map[string]domain.HashIndexEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, content_hash, modified_time
		FROM documents
	`)
	if err != nil {
		return nil, fmt.Errorf("querying identity index: %w", err)
	}
	defer rows.Close()

	index := make(map[string]domain.HashIndexEntry)
	for rows.Next() {
		var entry domain.HashIndexEntry
		if err := rows.Scan(&entry.DocumentID, &entry.ContentHash, &entry.ModifiedTime); err != nil {
			return nil, fmt.Errorf("scanning identity index row: %w", err)
		}
		index[entry.DocumentID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading identity index: %w", err)
	}

	return index, nil
}

// AppendChunks appends embedded chunk rows in one transaction. Rows are
// never updated or deleted; reprocessed documents add new rows with the
// same deterministic chunk IDs.
func (s *Store) AppendChunks(ctx context.Context, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (
			id, document_id, chunk_index, content, document_name,
			document_type, file_mtime, web_link, document_path,
			content_hash, chunk_size, embedding
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ID,
			chunk.DocumentID,
			chunk.Ordinal,
			chunk.Content,
			chunk.DocumentName,
			chunk.ContentType,
			chunk.DocumentMTime,
			chunk.WebLink,
			chunk.DocumentPath,
			chunk.ContentHash,
			chunk.Length,
			float32SliceToBytes(chunk.Embedding),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// AdvanceIndex upserts the identity index entries for processed documents.
func (s *Store) AdvanceIndex(ctx context.Context, entries []domain.HashIndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (document_id, content_hash, modified_time, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(document_id) DO UPDATE SET
			content_hash = excluded.content_hash,
			modified_time = excluded.modified_time,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing index upsert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx, entry.DocumentID, entry.ContentHash, entry.ModifiedTime); err != nil {
			return fmt.Errorf("upserting index entry %s: %w", entry.DocumentID, err)
		}
	}

	return tx.Commit()
}

// RecordRun stores one run report in the history table.
func (s *Store) RecordRun(ctx context.Context, report *domain.RunReport) error {
	warnings, err := json.Marshal(report.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, started_at, finished_at, files_new, files_modified,
			files_unchanged, files_processed, chunks_written, snapshot_path, warnings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.RunID,
		report.StartedAt.UTC().Format(time.RFC3339),
		report.FinishedAt.UTC().Format(time.RFC3339),
		report.Stats.New,
		report.Stats.Modified,
		report.Stats.Unchanged,
		report.FilesProcessed,
		report.ChunksWritten,
		report.SnapshotPath,
		string(warnings),
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", report.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit run reports, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, finished_at, files_new, files_modified,
		       files_unchanged, files_processed, chunks_written, snapshot_path, warnings
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var reports []domain.RunReport
	for rows.Next() {
		var report domain.RunReport
		var startedAt, finishedAt, warnings string
		err := rows.Scan(
			&report.RunID, &startedAt, &finishedAt,
			&report.Stats.New, &report.Stats.Modified, &report.Stats.Unchanged,
			&report.FilesProcessed, &report.ChunksWritten, &report.SnapshotPath,
			&warnings,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}

		if report.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("parsing run start time: %w", err)
		}
		if report.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, fmt.Errorf("parsing run finish time: %w", err)
		}
		if warnings != "" && warnings != "null" {
			if err := json.Unmarshal([]byte(warnings), &report.Warnings); err != nil {
				return nil, fmt.Errorf("decoding run warnings: %w", err)
			}
		}

		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// DocumentChunks returns every stored chunk row for a document, oldest
// first. Reprocessed documents yield multiple rows per chunk ID.
func (s *Store) DocumentChunks(ctx context.Context, documentID string) ([]domain.EmbeddedChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_index, content, document_name,
		       document_type, file_mtime, web_link, document_path,
		       content_hash, chunk_size, embedding
		FROM chunks
		WHERE document_id = ?
		ORDER BY rowid
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks for %s: %w", documentID, err)
	}
	defer rows.Close()

	var chunks []domain.EmbeddedChunk
	for rows.Next() {
		var chunk domain.EmbeddedChunk
		var embedding []byte
		err := rows.Scan(
			&chunk.ID, &chunk.DocumentID, &chunk.Ordinal, &chunk.Content,
			&chunk.DocumentName, &chunk.ContentType, &chunk.DocumentMTime,
			&chunk.WebLink, &chunk.DocumentPath, &chunk.ContentHash,
			&chunk.Length, &embedding,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embedding)
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// ChunkCount returns the total number of stored chunk rows.
func (s *Store) ChunkCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
