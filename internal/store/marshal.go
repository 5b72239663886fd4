package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/pulsecal/internal/ir"
	"github.com/roach88/pulsecal/internal/pulse"
)

// scheduleDoc is the JSON shape of a stored schedule.
type scheduleDoc struct {
	Name         string           `json:"name"`
	Instructions []instructionDoc `json:"instructions"`
}

type instructionDoc struct {
	Start   int           `json:"start"`
	Channel pulse.Channel `json:"channel"`
	Pulse   string        `json:"pulse"`
	Samples [][2]float64  `json:"samples"`
}

// marshalSchedule converts a schedule to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so samples round-trip exactly.
func marshalSchedule(s pulse.Schedule) (string, error) {
	insts := make([]any, len(s.Instructions))
	for i, in := range s.Instructions {
		insts[i] = map[string]any{
			"start":   in.Start,
			"channel": in.Channel.Name(),
			"pulse":   in.Pulse.Name,
			"samples": []complex128(in.Pulse.Samples),
		}
	}
	data, err := ir.MarshalCanonical(map[string]any{
		"name":         s.Name,
		"instructions": insts,
	})
	if err != nil {
		return "", fmt.Errorf("marshal schedule: %w", err)
	}
	return string(data), nil
}

// unmarshalSchedule parses a stored schedule.
func unmarshalSchedule(data string) (pulse.Schedule, error) {
	var doc scheduleDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return pulse.Schedule{}, fmt.Errorf("unmarshal schedule: %w", err)
	}
	insts := make([]pulse.Instruction, len(doc.Instructions))
	for i, d := range doc.Instructions {
		samples := make(pulse.Waveform, len(d.Samples))
		for j, p := range d.Samples {
			samples[j] = complex(p[0], p[1])
		}
		insts[i] = pulse.Instruction{
			Start:   d.Start,
			Channel: d.Channel,
			Pulse:   pulse.Pulse{Name: d.Pulse, Samples: samples},
		}
	}
	return pulse.NewSchedule(doc.Name, insts...), nil
}
