// Package calib defines the calibration library: a mapping from
// (gate name, ordered qubit tuple) to a pulse schedule.
//
// The library is an injected dependency (the Library interface), never a
// global, so tests can substitute fixture calibrations.
//
// # Write discipline
//
// Entries are immutable once written. MemoryLibrary takes an exclusive lock
// for Add and a shared lock for Has/Get. Adding an entry whose key already
// exists is a no-op when the schedules hash identically and fails with
// DuplicateEntryError otherwise, so a redundant synthesis can never corrupt
// the library.
package calib
