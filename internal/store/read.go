package store

import (
	"context"
	"fmt"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/pulse"
)

// Record is one stored calibration entry with provenance.
type Record struct {
	Key       calib.Key
	Digest    string
	Origin    Origin
	SessionID string
	Seq       int64
	Schedule  pulse.Schedule
}

// ReadEntries returns every stored calibration entry.
// Results are ordered deterministically: ORDER BY seq ASC, gate ASC,
// qubits ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ReadEntries(ctx context.Context) ([]Record, error) {
	return s.Query(ctx, nil)
}

// ReadSessionEntries returns the entries written in one session.
func (s *Store) ReadSessionEntries(ctx context.Context, sessionID string) ([]Record, error) {
	return s.Query(ctx, Filter{Session: sessionID}.Predicate())
}

func (s *Store) readEntries(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query calibrations: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r      Record
			doc    string
			origin string
		)
		if err := rows.Scan(&r.Key.Gate, &r.Key.Qubits, &r.Digest, &doc, &origin, &r.SessionID, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan calibration: %w", err)
		}
		if _, err := calib.ParseQubits(r.Key.Qubits); err != nil {
			return nil, fmt.Errorf("calibration %s: %w", r.Key.Gate, err)
		}
		r.Origin = Origin(origin)
		if r.Schedule, err = unmarshalSchedule(doc); err != nil {
			return nil, fmt.Errorf("calibration %s: %w", r.Key, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calibrations: %w", err)
	}
	return records, nil
}

// LoadLibrary reads every stored entry into a new MemoryLibrary.
// A record whose schedule no longer matches its digest is rejected.
func (s *Store) LoadLibrary(ctx context.Context) (*calib.MemoryLibrary, error) {
	records, err := s.ReadEntries(ctx)
	if err != nil {
		return nil, err
	}
	lib := calib.NewMemoryLibrary()
	for _, r := range records {
		digest, err := calib.Digest(r.Schedule)
		if err != nil {
			return nil, err
		}
		if digest != r.Digest {
			return nil, fmt.Errorf("calibration %s: stored digest %.12s does not match content %.12s", r.Key, r.Digest, digest)
		}
		if err := lib.Add(r.Key.Gate, r.Key.QubitList(), r.Schedule); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// ReadBasisGates returns the basis gates of device in registration order.
func (s *Store) ReadBasisGates(ctx context.Context, device string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM basis_gates
		WHERE device = ?
		ORDER BY seq ASC, name COLLATE BINARY ASC
	`, device)
	if err != nil {
		return nil, fmt.Errorf("query basis gates: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan basis gate: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate basis gates: %w", err)
	}
	return names, nil
}
