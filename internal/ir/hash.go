package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainSchedule = "pulsecal/schedule/v1"
	DomainProgram  = "pulsecal/program/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash canonically encodes v and hashes it under domain.
func ContentHash(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("content hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// ProgramHash identifies a decomposed gate sequence. Two programs with the
// same gates in the same order hash equally.
func ProgramHash(gates []Gate) (string, error) {
	list := make([]any, len(gates))
	for i, g := range gates {
		list[i] = map[string]any{
			"name":   g.Name,
			"qubits": g.Qubits,
			"clbits": g.Clbits,
		}
	}
	return ContentHash(DomainProgram, list)
}
