// Package store provides SQLite-backed persistence for calibration
// libraries.
//
// The store is append-only:
//   - Sessions: one row per synthesis run, identified by a UUIDv7
//   - Calibrations: one row per (gate, qubits) key, with its schedule as
//     canonical JSON, content digest, origin and producing session
//   - Basis gates: the registered basis-gate names per device, in
//     registration order
//
// # Critical Patterns
//
// Key-level idempotency
//   - PRIMARY KEY(gate, qubits) with ON CONFLICT DO NOTHING
//   - Rewriting identical content is a no-op; different content for an
//     existing key is rejected with *calib.DuplicateEntryError
//
// Logical ordering
//   - All ordering uses seq INTEGER (logical clock), never timestamps
//   - Queries include ORDER BY seq ASC with a BINARY tiebreak
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Schedule digests are computed by calib.Digest over RFC 8785 canonical
// JSON, so a schedule read back from the store has the digest it was
// written with.
package store
