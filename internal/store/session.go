package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/pulsecal/internal/ir"
)

// SessionGenerator generates unique session ids.
// Implemented by UUIDv7Generator (production) and
// testutil.FixedSessionGenerator (tests).
type SessionGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Session is one synthesis run.
type Session struct {
	ID            string
	Device        string
	Seq           int64
	ToolVersion   string
	FormatVersion string
}

// BeginSession records a new session for device and returns its id.
// Reusing an existing id is a no-op that returns the same id.
func (s *Store) BeginSession(ctx context.Context, gen SessionGenerator, device string) (string, error) {
	id := gen.Generate()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin session: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	seq, err := nextSeq(ctx, tx, "sessions")
	if err != nil {
		return "", fmt.Errorf("begin session: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, device, seq, tool_version, format_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, device, seq, ir.ToolVersion, ir.FormatVersion)
	if err != nil {
		return "", fmt.Errorf("begin session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("begin session: commit: %w", err)
	}
	return id, nil
}

// Sessions returns every session in creation order.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, device, seq, tool_version, format_version
		FROM sessions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var ss Session
		if err := rows.Scan(&ss.ID, &ss.Device, &ss.Seq, &ss.ToolVersion, &ss.FormatVersion); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
