// Package store provides SQLite-backed durable storage for the batch
// quality log.
//
// The store implements an append-only log with:
//   - Runs: one row per batch execution, with totals filled in on finish
//   - Outcomes: one row per synthesized request, flagged when degraded
//
// # Critical Patterns
//
// Content-addressed outcomes:
//   - Outcome IDs come from ir.OutcomeID (SHA-256 over canonical JSON)
//   - ON CONFLICT(id) DO NOTHING makes re-recording the same outcome a no-op
//
// Logical identity and time:
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - started_at is informational only
//
// Deterministic query results:
//   - All queries MUST include: ORDER BY seq ASC, id ASC COLLATE BINARY
//   - Outcome filters are built from Equals/And predicates and compiled
//     to parameterized SQL (see QueryOutcomes)
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
