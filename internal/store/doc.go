// Package store provides SQLite-backed persistence for workbench sessions.
//
// The rule core itself persists nothing; this package is the persistence
// collaborator the workbench layers on top. It keeps an append-only history
// of validation runs so the editor's history panel can show how a design's
// consistency evolved:
//
//   - Sessions: one row per validation run (design name, content hash of the
//     compiled snapshot, canonical-JSON error report)
//   - Move snapshots: canonical-JSON ValidMoveSet captures tied to a session
//
// Ordering always uses the seq column, never timestamps; reports and
// snapshots are stored as canonical JSON so identical inputs produce
// identical rows, making session diffs meaningful.
//
// The database uses WAL mode with a single writer connection; the workbench
// writes sessions strictly sequentially.
package store
