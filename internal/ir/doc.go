// Package ir provides the typed boundary between gate decomposition and
// pulse synthesis, plus canonical encoding for content-addressed identity.
//
// This package imports nothing internal. Other internal packages import ir;
// ir stays the foundational layer with no circular dependencies.
//
// Gate names such as "direct_rx_0.7853981633974483" and "cr_1.2" are parsed
// exactly once, by ParseGate, into a Gate carrying the angle as a float64.
// Synthesis code never re-parses names.
//
// Key design constraints:
//   - Canonical JSON follows RFC 8785 key ordering (UTF-16 code units)
//   - Strings are NFC normalized before hashing
//   - Floats are allowed but must be finite; they are written in shortest
//     round-trip form so equal samples always hash equally
package ir
