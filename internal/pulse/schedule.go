package pulse

import (
	"slices"
	"sort"
)

// Pulse is a named waveform.
type Pulse struct {
	Name    string
	Samples Waveform
}

// Instruction plays a pulse on a channel starting at Start ticks.
type Instruction struct {
	Start   int
	Channel Channel
	Pulse   Pulse
}

// Duration returns the pulse length in ticks.
func (in Instruction) Duration() int {
	return in.Pulse.Samples.Len()
}

// End returns the tick after the last sample.
func (in Instruction) End() int {
	return in.Start + in.Duration()
}

func (in Instruction) clone() Instruction {
	in.Pulse.Samples = in.Pulse.Samples.Clone()
	return in
}

// Schedule is an ordered multiset of instructions. Instructions are kept
// sorted by start time; instructions with equal start keep insertion order.
//
// Schedule values are treated as immutable: every method returns a new
// Schedule and never mutates the receiver's sample slices.
type Schedule struct {
	Name         string
	Instructions []Instruction
}

// NewSchedule builds a schedule from instructions.
func NewSchedule(name string, instructions ...Instruction) Schedule {
	insts := make([]Instruction, len(instructions))
	for i, in := range instructions {
		insts[i] = in.clone()
	}
	sortInstructions(insts)
	return Schedule{Name: name, Instructions: insts}
}

func sortInstructions(insts []Instruction) {
	sort.SliceStable(insts, func(i, j int) bool {
		return insts[i].Start < insts[j].Start
	})
}

// Len returns the number of instructions.
func (s Schedule) Len() int {
	return len(s.Instructions)
}

// Duration returns max(start + length) over all instructions.
func (s Schedule) Duration() int {
	d := 0
	for _, in := range s.Instructions {
		if e := in.End(); e > d {
			d = e
		}
	}
	return d
}

// Clone returns a deep copy of s.
func (s Schedule) Clone() Schedule {
	out := Schedule{Name: s.Name}
	if s.Instructions != nil {
		out.Instructions = make([]Instruction, len(s.Instructions))
		for i, in := range s.Instructions {
			out.Instructions[i] = in.clone()
		}
	}
	return out
}

// Shift returns a copy of s with every instruction delayed by offset ticks.
func (s Schedule) Shift(offset int) Schedule {
	out := s.Clone()
	for i := range out.Instructions {
		out.Instructions[i].Start += offset
	}
	return out
}

// Union merges the instructions of other into a copy of s. Instructions may
// overlap in time on different channels.
func (s Schedule) Union(other Schedule) Schedule {
	out := s.Clone()
	for _, in := range other.Instructions {
		out.Instructions = append(out.Instructions, in.clone())
	}
	sortInstructions(out.Instructions)
	return out
}

// Append plays other after s: other's offsets are shifted by s.Duration().
func (s Schedule) Append(other Schedule) Schedule {
	return s.Union(other.Shift(s.Duration()))
}

// Negate returns a copy of s with every waveform sign-flipped.
func (s Schedule) Negate() Schedule {
	out := s.Clone()
	for i := range out.Instructions {
		out.Instructions[i].Pulse.Samples = out.Instructions[i].Pulse.Samples.Negate()
	}
	return out
}

// Channels returns the distinct channels used by s, ordered by kind then index.
func (s Schedule) Channels() []Channel {
	seen := make(map[Channel]bool)
	var out []Channel
	for _, in := range s.Instructions {
		if !seen[in.Channel] {
			seen[in.Channel] = true
			out = append(out, in.Channel)
		}
	}
	slices.SortFunc(out, func(a, b Channel) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return a.Index - b.Index
	})
	return out
}

// OnChannel returns the instructions that play on ch, in start order.
func (s Schedule) OnChannel(ch Channel) []Instruction {
	var out []Instruction
	for _, in := range s.Instructions {
		if in.Channel == ch {
			out = append(out, in)
		}
	}
	return out
}
