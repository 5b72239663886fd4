package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/pulse"
	"github.com/roach88/pulsecal/internal/testutil"
)

func TestSaveAndLoadLibraryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sid := createTestSession(t, s, "session-1")

	want := testutil.TwoQubitLibrary()
	n, err := s.SaveLibrary(ctx, sid, OriginCalibrated, want)
	if err != nil {
		t.Fatalf("SaveLibrary() failed: %v", err)
	}
	if n != want.Len() {
		t.Errorf("SaveLibrary() inserted %d, want %d", n, want.Len())
	}

	got, err := s.LoadLibrary(ctx)
	if err != nil {
		t.Fatalf("LoadLibrary() failed: %v", err)
	}

	wantEntries := want.Entries()
	gotEntries := got.Entries()
	if len(gotEntries) != len(wantEntries) {
		t.Fatalf("loaded %d entries, want %d", len(gotEntries), len(wantEntries))
	}
	for i := range wantEntries {
		if wantEntries[i].Digest != gotEntries[i].Digest {
			t.Errorf("%s: digest changed across round trip", wantEntries[i].Key)
		}
		if diff := cmp.Diff(wantEntries[i].Schedule, gotEntries[i].Schedule); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", wantEntries[i].Key, diff)
		}
	}
}

func TestWriteEntry_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sid := createTestSession(t, s, "session-1")

	key := calib.NewKey("x", []int{0})
	sched := pulse.NewSchedule("x", testutil.PiInstruction(0, 0))

	inserted, err := s.WriteEntry(ctx, sid, OriginCalibrated, key, sched)
	if err != nil || !inserted {
		t.Fatalf("first WriteEntry() = %v, %v; want true, nil", inserted, err)
	}
	inserted, err = s.WriteEntry(ctx, sid, OriginCalibrated, key, sched)
	if err != nil || inserted {
		t.Fatalf("second WriteEntry() = %v, %v; want false, nil", inserted, err)
	}

	records, err := s.ReadEntries(ctx)
	if err != nil {
		t.Fatalf("ReadEntries() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestWriteEntry_RejectsDifferentContent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sid := createTestSession(t, s, "session-1")

	key := calib.NewKey("x", []int{0})
	if _, err := s.WriteEntry(ctx, sid, OriginCalibrated, key, pulse.NewSchedule("x", testutil.PiInstruction(0, 0))); err != nil {
		t.Fatalf("WriteEntry() failed: %v", err)
	}

	other := pulse.NewSchedule("x", testutil.PiInstruction(0, 16))
	_, err := s.WriteEntry(ctx, sid, OriginSynthesized, key, other)

	var de *calib.DuplicateEntryError
	if !errors.As(err, &de) {
		t.Fatalf("WriteEntry() error = %v, want *calib.DuplicateEntryError", err)
	}
	if de.Key != key {
		t.Errorf("DuplicateEntryError.Key = %v, want %v", de.Key, key)
	}
}

func TestWriteEntry_RequiresSession(t *testing.T) {
	s := createTestStore(t)
	_, err := s.WriteEntry(context.Background(), "no-such-session", OriginCalibrated,
		calib.NewKey("x", []int{0}), pulse.NewSchedule("x", testutil.PiInstruction(0, 0)))
	if err == nil {
		t.Fatal("WriteEntry() with unknown session succeeded, want foreign key error")
	}
}

func TestReadEntries_RejectsMalformedQubits(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	sid := createTestSession(t, s, "session-1")

	if _, err := s.WriteEntry(ctx, sid, OriginCalibrated, calib.NewKey("x", []int{0}),
		pulse.NewSchedule("x", testutil.PiInstruction(0, 0))); err != nil {
		t.Fatalf("WriteEntry() failed: %v", err)
	}
	if _, err := s.db.Exec("UPDATE calibrations SET qubits = '0,x'"); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadEntries(ctx)
	if err == nil || !strings.Contains(err.Error(), "invalid qubit tuple") {
		t.Fatalf("ReadEntries() error = %v, want invalid qubit tuple", err)
	}
}

func TestReadEntries_ProvenanceAndOrder(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	first := createTestSession(t, s, "session-a")
	second := createTestSession(t, s, "session-b")

	writes := []struct {
		session string
		origin  Origin
		key     calib.Key
		qubit   int
	}{
		{first, OriginCalibrated, calib.NewKey("x", []int{1}), 1},
		{second, OriginSynthesized, calib.NewKey("direct_rx_0.5", []int{0}), 0},
		{first, OriginCalibrated, calib.NewKey("x", []int{0}), 0},
	}
	for _, w := range writes {
		sched := pulse.NewSchedule(w.key.Gate, testutil.PiInstruction(w.qubit, 0))
		if _, err := s.WriteEntry(ctx, w.session, w.origin, w.key, sched); err != nil {
			t.Fatalf("WriteEntry(%s) failed: %v", w.key, err)
		}
	}

	records, err := s.ReadEntries(ctx)
	if err != nil {
		t.Fatalf("ReadEntries() failed: %v", err)
	}
	var got []string
	for _, r := range records {
		got = append(got, string(r.Origin)+":"+r.Key.String())
	}
	want := []string{"calibrated:x(1)", "synthesized:direct_rx_0.5(0)", "calibrated:x(0)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadEntries() order mismatch (-want +got):\n%s", diff)
	}

	synth, err := s.ReadSessionEntries(ctx, second)
	if err != nil {
		t.Fatalf("ReadSessionEntries() failed: %v", err)
	}
	if len(synth) != 1 || synth[0].Key.Gate != "direct_rx_0.5" || synth[0].SessionID != "session-b" {
		t.Errorf("ReadSessionEntries() = %+v", synth)
	}
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	createTestSession(t, s, "session-a")
	createTestSession(t, s, "session-b")
	createTestSession(t, s, "session-a")

	sessions, err := s.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != "session-a" || sessions[1].ID != "session-b" {
		t.Errorf("sessions out of order: %+v", sessions)
	}
	if sessions[0].Device != "fake_two_qubit" || sessions[0].ToolVersion == "" {
		t.Errorf("session metadata missing: %+v", sessions[0])
	}
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()
	if len(a) != 36 {
		t.Errorf("Generate() = %q, want 36 characters", a)
	}
	if a == b {
		t.Error("Generate() returned the same id twice")
	}
	if a > b {
		t.Errorf("UUIDv7 ids not time-ordered: %q > %q", a, b)
	}
}

func TestBasisGates(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	if err := s.WriteBasisGates(ctx, "dev", []string{"id", "cx", "direct_rx_0.5"}); err != nil {
		t.Fatalf("WriteBasisGates() failed: %v", err)
	}
	if err := s.WriteBasisGates(ctx, "dev", []string{"cx", "cr_1"}); err != nil {
		t.Fatalf("WriteBasisGates() failed: %v", err)
	}
	if err := s.WriteBasisGates(ctx, "other", []string{"u3"}); err != nil {
		t.Fatalf("WriteBasisGates() failed: %v", err)
	}

	got, err := s.ReadBasisGates(ctx, "dev")
	if err != nil {
		t.Fatalf("ReadBasisGates() failed: %v", err)
	}
	want := []string{"id", "cx", "direct_rx_0.5", "cr_1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadBasisGates() mismatch (-want +got):\n%s", diff)
	}
}
