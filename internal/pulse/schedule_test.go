package pulse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func inst(start int, ch Channel, name string, samples ...complex128) Instruction {
	return Instruction{Start: start, Channel: ch, Pulse: Pulse{Name: name, Samples: Waveform(samples)}}
}

func TestScheduleDuration(t *testing.T) {
	s := NewSchedule("s",
		inst(0, Drive(0), "a", 1, 1, 1),
		inst(2, Control(0), "b", 1, 1, 1, 1),
	)
	assert.Equal(t, 6, s.Duration())
	assert.Equal(t, 0, Schedule{}.Duration())
}

func TestNewScheduleSortsStable(t *testing.T) {
	s := NewSchedule("s",
		inst(5, Drive(0), "late"),
		inst(0, Drive(1), "first"),
		inst(0, Drive(0), "second"),
	)
	names := []string{}
	for _, in := range s.Instructions {
		names = append(names, in.Pulse.Name)
	}
	assert.Equal(t, []string{"first", "second", "late"}, names)
}

func TestScheduleAppendShiftsByDuration(t *testing.T) {
	a := NewSchedule("a", inst(0, Drive(0), "x", 1, 1, 1, 1))
	b := NewSchedule("b", inst(0, Drive(1), "y", 2, 2), inst(1, Control(0), "z", 3))

	got := a.Append(b)

	want := Schedule{Name: "a", Instructions: []Instruction{
		inst(0, Drive(0), "x", 1, 1, 1, 1),
		inst(4, Drive(1), "y", 2, 2),
		inst(5, Control(0), "z", 3),
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Append() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, got.Duration())
}

func TestScheduleUnionDoesNotShift(t *testing.T) {
	a := NewSchedule("a", inst(0, Drive(0), "x", 1, 1))
	b := NewSchedule("b", inst(0, Control(0), "y", 2, 2, 2))

	got := a.Union(b)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 3, got.Duration())
	assert.Equal(t, 0, got.Instructions[1].Start)
}

func TestScheduleImmutable(t *testing.T) {
	samples := Waveform{1, 2}
	s := NewSchedule("s", Instruction{Channel: Drive(0), Pulse: Pulse{Samples: samples}})
	samples[0] = 99

	assert.Equal(t, complex128(1), s.Instructions[0].Pulse.Samples[0])

	shifted := s.Shift(10)
	shifted.Instructions[0].Pulse.Samples[1] = 42
	assert.Equal(t, complex128(2), s.Instructions[0].Pulse.Samples[1])
	assert.Equal(t, 0, s.Instructions[0].Start)
}

func TestScheduleNegate(t *testing.T) {
	s := NewSchedule("s", inst(3, Drive(0), "x", 1+1i, -2))
	neg := s.Negate()
	assert.Equal(t, Waveform{-1 - 1i, 2}, neg.Instructions[0].Pulse.Samples)
	assert.Equal(t, 3, neg.Instructions[0].Start)
}

func TestScheduleChannels(t *testing.T) {
	s := NewSchedule("s",
		inst(0, Control(1), "a", 1),
		inst(0, Drive(2), "b", 1),
		inst(1, Drive(0), "c", 1),
		inst(2, Drive(2), "d", 1),
	)
	assert.Equal(t, []Channel{Drive(0), Drive(2), Control(1)}, s.Channels())
	assert.Len(t, s.OnChannel(Drive(2)), 2)
	assert.Empty(t, s.OnChannel(Control(5)))
}
