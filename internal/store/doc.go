// Package store provides persistent storage for the gateway using SQLite.
//
// # Data Models
//
//   - Interview: the configuration record for one conversation (role and
//     seniority, immutable after creation)
//   - Turn: one role-tagged message in a conversation's ordered history
//   - Connection: a live channel connection, created on connect and deleted
//     on disconnect
//
// # Ordering
//
// A conversation's history is totally ordered by Turn.Seq (creation time in
// unix milliseconds), with insertion order breaking ties. GetHistory replays
// turns in exactly the order they were appended.
//
// Appends are all-or-nothing per call but take no per-conversation lock:
// two concurrent appends for the same interview interleave by arrival order.
// A single human drives each conversation in practice, so the store trades
// mutual exclusion for simplicity; callers needing stronger guarantees would
// add a conditional-write scheme at this boundary.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrDuplicateInterview: Interview already exists
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests, or NewSQLiteStore with a path under
// t.TempDir() for integration tests with real SQLite.
package store
