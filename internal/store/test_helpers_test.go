package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/pulsecal/internal/testutil"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession starts a session with a fixed id.
func createTestSession(t *testing.T, s *Store, id string) string {
	t.Helper()
	sid, err := s.BeginSession(context.Background(), testutil.NewFixedSessionGenerator(id), "fake_two_qubit")
	if err != nil {
		t.Fatalf("BeginSession() failed: %v", err)
	}
	return sid
}
