// Package store provides SQLite-backed provenance storage for analysis runs.
//
// The store is an append-only log with:
//   - Runs: one row per analysis run (backend, versions, run digest)
//   - Results: one row per constraint or objective result, payload stored as
//     canonical JSON
//
// # Ordering
//
// Runs list by seq, their insertion order. Results read back with
// ORDER BY ordinal ASC, id ASC COLLATE BINARY, so a run always reads back in
// the order it was analyzed.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Result ids are computed by internal/ir from canonical JSON, so writing the
// same run twice is a no-op.
package store
