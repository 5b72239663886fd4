package calib

import (
	"github.com/roach88/pulsecal/internal/ir"
	"github.com/roach88/pulsecal/internal/pulse"
)

// Digest returns the content hash of a schedule. Two schedules with equal
// instructions (start, channel, pulse name and samples) have equal digests.
// The schedule name is not part of the digest.
func Digest(s pulse.Schedule) (string, error) {
	insts := make([]any, len(s.Instructions))
	for i, in := range s.Instructions {
		insts[i] = map[string]any{
			"start":   in.Start,
			"channel": in.Channel.Name(),
			"pulse":   in.Pulse.Name,
			"samples": []complex128(in.Pulse.Samples),
		}
	}
	return ir.ContentHash(ir.DomainSchedule, map[string]any{
		"instructions": insts,
	})
}
