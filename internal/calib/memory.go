package calib

import (
	"slices"
	"sync"

	"github.com/roach88/pulsecal/internal/pulse"
)

// MemoryLibrary is a process-scoped, thread-safe Library.
type MemoryLibrary struct {
	mu      sync.RWMutex
	entries map[Key]Entry
}

var _ Library = (*MemoryLibrary)(nil)

// NewMemoryLibrary creates an empty library.
func NewMemoryLibrary() *MemoryLibrary {
	return &MemoryLibrary{entries: make(map[Key]Entry)}
}

// Has implements Library.
func (l *MemoryLibrary) Has(gate string, qubits []int) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[NewKey(gate, qubits)]
	return ok
}

// Get implements Library. The returned schedule is a copy.
func (l *MemoryLibrary) Get(gate string, qubits []int) (pulse.Schedule, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[NewKey(gate, qubits)]
	if !ok {
		return pulse.Schedule{}, &MissingCalibrationError{Gate: gate, Qubits: slices.Clone(qubits)}
	}
	return e.Schedule.Clone(), nil
}

// Add implements Library. Re-adding identical content is a no-op.
func (l *MemoryLibrary) Add(gate string, qubits []int, schedule pulse.Schedule) error {
	digest, err := Digest(schedule)
	if err != nil {
		return err
	}
	key := NewKey(gate, qubits)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.entries[key]; ok {
		if existing.Digest == digest {
			return nil
		}
		return &DuplicateEntryError{Key: key, ExistingDigest: existing.Digest, NewDigest: digest}
	}

	stored := schedule.Clone()
	if stored.Name == "" {
		stored.Name = gate
	}
	l.entries[key] = Entry{Key: key, Schedule: stored, Digest: digest}
	return nil
}

// Len returns the number of entries.
func (l *MemoryLibrary) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of every entry sorted by key.
func (l *MemoryLibrary) Entries() []Entry {
	l.mu.RLock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		e.Schedule = e.Schedule.Clone()
		out = append(out, e)
	}
	l.mu.RUnlock()

	slices.SortFunc(out, func(a, b Entry) int { return a.Key.Compare(b.Key) })
	return out
}

// Gates returns the distinct gate names in the library, sorted.
func (l *MemoryLibrary) Gates() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for k := range l.entries {
		if !seen[k.Gate] {
			seen[k.Gate] = true
			out = append(out, k.Gate)
		}
	}
	slices.Sort(out)
	return out
}

// Keys returns every key in the library, sorted.
func (l *MemoryLibrary) Keys() []Key {
	l.mu.RLock()
	out := make([]Key, 0, len(l.entries))
	for k := range l.entries {
		out = append(out, k)
	}
	l.mu.RUnlock()

	slices.SortFunc(out, Key.Compare)
	return out
}
