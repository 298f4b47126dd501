// Package sqlite provides the SQLite-backed implementation of the
// persistence ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. A single database
// connection serves three concerns:
//
//   - HashIndex: the document identity index consulted during change detection
//   - ChunkStore: the append-only embedded chunk corpus
//   - run history: one row per completed harvest run
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.harvest/data/harvest.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
