package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/pulse"
)

// Origin records how a calibration entry came to exist.
type Origin string

const (
	// OriginCalibrated marks entries loaded from a calibration spec.
	OriginCalibrated Origin = "calibrated"
	// OriginSynthesized marks entries produced by the synthesizers.
	OriginSynthesized Origin = "synthesized"
)

// WriteEntry inserts a calibration entry produced in sessionID.
// Returns whether a new row was inserted.
//
// Uses ON CONFLICT(gate, qubits) DO NOTHING for idempotency. When the key
// already holds a different digest the write fails with
// *calib.DuplicateEntryError.
func (s *Store) WriteEntry(ctx context.Context, sessionID string, origin Origin, key calib.Key, sched pulse.Schedule) (inserted bool, err error) {
	digest, err := calib.Digest(sched)
	if err != nil {
		return false, fmt.Errorf("write entry %s: %w", key, err)
	}
	doc, err := marshalSchedule(sched)
	if err != nil {
		return false, fmt.Errorf("write entry %s: %w", key, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write entry %s: begin tx: %w", key, err)
	}
	defer tx.Rollback() // No-op if committed

	seq, err := nextSeq(ctx, tx, "calibrations")
	if err != nil {
		return false, fmt.Errorf("write entry %s: %w", key, err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO calibrations
		(gate, qubits, digest, schedule, origin, session_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(gate, qubits) DO NOTHING
	`, key.Gate, key.Qubits, digest, doc, string(origin), sessionID, seq)
	if err != nil {
		return false, fmt.Errorf("write entry %s: %w", key, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write entry %s: rows affected: %w", key, err)
	}

	if n == 0 {
		var existing string
		err := tx.QueryRowContext(ctx,
			`SELECT digest FROM calibrations WHERE gate = ? AND qubits = ?`,
			key.Gate, key.Qubits,
		).Scan(&existing)
		if err != nil {
			return false, fmt.Errorf("write entry %s: read existing: %w", key, err)
		}
		if existing != digest {
			return false, &calib.DuplicateEntryError{Key: key, ExistingDigest: existing, NewDigest: digest}
		}
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write entry %s: commit: %w", key, err)
	}
	return true, nil
}

// SaveLibrary writes every entry of lib under sessionID and returns the
// number of newly inserted rows.
func (s *Store) SaveLibrary(ctx context.Context, sessionID string, origin Origin, lib *calib.MemoryLibrary) (int, error) {
	inserted := 0
	for _, e := range lib.Entries() {
		ok, err := s.WriteEntry(ctx, sessionID, origin, e.Key, e.Schedule)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

// WriteBasisGates appends names to the basis-gate list of device, keeping
// the order of first registration. Names already present are skipped.
func (s *Store) WriteBasisGates(ctx context.Context, device string, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write basis gates: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, name := range names {
		seq, err := nextSeq(ctx, tx, "basis_gates")
		if err != nil {
			return fmt.Errorf("write basis gates: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO basis_gates (device, name, seq)
			VALUES (?, ?, ?)
			ON CONFLICT(device, name) DO NOTHING
		`, device, name, seq)
		if err != nil {
			return fmt.Errorf("write basis gate %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write basis gates: commit: %w", err)
	}
	return nil
}

// nextSeq returns the next logical clock value for table.
func nextSeq(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	var seq int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(seq), 0) + 1 FROM %s", table)
	if err := tx.QueryRowContext(ctx, query).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next seq for %s: %w", table, err)
	}
	return seq, nil
}
