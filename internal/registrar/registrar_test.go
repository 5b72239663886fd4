package registrar

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/ir"
	"github.com/roach88/pulsecal/internal/pulse"
	"github.com/roach88/pulsecal/internal/synth"
	"github.com/roach88/pulsecal/internal/testutil"
)

// countingLibrary counts Add calls on top of a MemoryLibrary.
type countingLibrary struct {
	*calib.MemoryLibrary
	adds atomic.Int64
}

func (l *countingLibrary) Add(gate string, qubits []int, s pulse.Schedule) error {
	l.adds.Add(1)
	return l.MemoryLibrary.Add(gate, qubits, s)
}

// rejectingLibrary reports every key as absent and refuses every insert.
type rejectingLibrary struct {
	*calib.MemoryLibrary
}

func (l rejectingLibrary) Has(string, []int) bool { return false }

func (l rejectingLibrary) Add(gate string, qubits []int, s pulse.Schedule) error {
	return &calib.DuplicateEntryError{Key: calib.NewKey(gate, qubits)}
}

// countingSynth counts synthesis invocations.
type countingSynth struct {
	inner  GateSynthesizer
	direct atomic.Int64
	cr     atomic.Int64
}

func (s *countingSynth) DirectRotation(theta float64, qubit int) (pulse.Schedule, error) {
	s.direct.Add(1)
	return s.inner.DirectRotation(theta, qubit)
}

func (s *countingSynth) CrossResonance(theta float64, control, target int) (pulse.Schedule, error) {
	s.cr.Add(1)
	return s.inner.CrossResonance(theta, control, target)
}

type fixture struct {
	reg   *Registrar
	lib   *countingLibrary
	synth *countingSynth
	basis func() []string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dev := testutil.TwoQubitDevice()
	lib := &countingLibrary{MemoryLibrary: testutil.TwoQubitLibrary()}
	cs := &countingSynth{inner: synth.New(lib, dev)}
	return &fixture{
		reg:   New(dev.BasisGates(), lib, cs, opts...),
		lib:   lib,
		synth: cs,
		basis: dev.BasisGates().List,
	}
}

func mustGate(t *testing.T, name string, qubits ...int) ir.Gate {
	t.Helper()
	g, err := ir.ParseGate(name, qubits, nil)
	require.NoError(t, err)
	return g
}

func TestRegisterMemoizesPerKey(t *testing.T) {
	f := newFixture(t)
	g := mustGate(t, "direct_rx_0.5", 0)

	require.NoError(t, f.reg.Register([]ir.Gate{g, g}))

	assert.EqualValues(t, 1, f.synth.direct.Load())
	assert.EqualValues(t, 1, f.lib.adds.Load())
	assert.EqualValues(t, 1, f.reg.Synthesized())
	assert.True(t, f.lib.Has("direct_rx_0.5", []int{0}))
	assert.Equal(t, []string{"id", "u1", "u2", "u3", "cx", "direct_rx_0.5"}, f.basis())
}

func TestRegisterSameNameDifferentQubits(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.reg.Register([]ir.Gate{
		mustGate(t, "direct_rx_0.5", 0),
		mustGate(t, "direct_rx_0.5", 1),
	}))

	assert.EqualValues(t, 2, f.synth.direct.Load())
	assert.EqualValues(t, 2, f.lib.adds.Load())
	assert.Equal(t, []string{"id", "u1", "u2", "u3", "cx", "direct_rx_0.5"}, f.basis())
}

func TestRegisterMixedSequence(t *testing.T) {
	var seen []calib.Key
	f := newFixture(t, WithOnSynthesized(func(k calib.Key, _ pulse.Schedule) {
		seen = append(seen, k)
	}))

	gates := []ir.Gate{
		mustGate(t, "u2", 0),
		mustGate(t, ir.CRName(math.Pi/4), 0, 1),
		mustGate(t, "open_cx", 0, 1),
		mustGate(t, ir.DirectRXName(1.25), 1),
		mustGate(t, ir.CRName(math.Pi/4), 0, 1),
		mustGate(t, "measure", 0),
	}
	require.NoError(t, f.reg.Register(gates))

	assert.EqualValues(t, 1, f.synth.cr.Load())
	assert.EqualValues(t, 1, f.synth.direct.Load())
	assert.Equal(t, []string{"id", "u1", "u2", "u3", "cx", ir.CRName(math.Pi / 4), "open_cx", "direct_rx_1.25"}, f.basis())
	assert.False(t, f.lib.Has("open_cx", []int{0, 1}))
	assert.False(t, f.lib.Has("measure", []int{0}))
	assert.Equal(t, []calib.Key{
		calib.NewKey(ir.CRName(math.Pi/4), []int{0, 1}),
		calib.NewKey("direct_rx_1.25", []int{1}),
	}, seen)
}

func TestRegisterExistingEntrySkipsSynthesis(t *testing.T) {
	f := newFixture(t)
	pre := pulse.NewSchedule("", testutil.PiInstruction(0, 0))
	require.NoError(t, f.lib.MemoryLibrary.Add("direct_rx_3", []int{0}, pre))

	require.NoError(t, f.reg.Register([]ir.Gate{mustGate(t, "direct_rx_3", 0)}))
	assert.Zero(t, f.synth.direct.Load())
	assert.Contains(t, f.basis(), "direct_rx_3")
}

func TestRegisterWrapsSynthesisFailure(t *testing.T) {
	f := newFixture(t)
	err := f.reg.Register([]ir.Gate{
		mustGate(t, "cr_0.3", 1, 0),
		mustGate(t, "direct_rx_0.5", 0),
	})
	require.Error(t, err)

	var ge *GateError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "cr_0.3", ge.Gate)
	assert.Equal(t, []int{1, 0}, ge.Qubits)
	assert.True(t, synth.IsFlippedQubitOrder(err))
	assert.Contains(t, err.Error(), "cr_0.3[1 0]")

	// Processing stops at the failing gate.
	assert.Zero(t, f.synth.direct.Load())
	assert.Zero(t, f.lib.adds.Load())
}

func TestRegisterConcurrentAtMostOnce(t *testing.T) {
	f := newFixture(t)
	gates := []ir.Gate{
		mustGate(t, ir.CRName(1.0), 0, 1),
		mustGate(t, ir.DirectRXName(0.7), 0),
		mustGate(t, ir.DirectRXName(0.7), 1),
	}

	var start sync.WaitGroup
	start.Add(1)
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			start.Wait()
			return f.reg.Register(gates)
		})
	}
	start.Done()
	require.NoError(t, g.Wait())

	assert.EqualValues(t, 1, f.synth.cr.Load())
	assert.EqualValues(t, 2, f.synth.direct.Load())
	assert.EqualValues(t, 3, f.lib.adds.Load())
	assert.EqualValues(t, 3, f.reg.Synthesized())
}

func TestRegisterLargeAngle(t *testing.T) {
	f := newFixture(t)
	g := mustGate(t, "direct_rx_1e300", 0)

	done := make(chan error, 1)
	go func() { done <- f.reg.Register([]ir.Gate{g}) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Register did not return")
	}

	assert.EqualValues(t, 1, f.reg.Synthesized())
	sched, err := f.lib.Get("direct_rx_1e300", []int{0})
	require.NoError(t, err)
	assert.Equal(t, 1, sched.Len())
	assert.Contains(t, f.basis(), "direct_rx_1e300")
}

func TestRegisterFailedInsertNotCounted(t *testing.T) {
	dev := testutil.TwoQubitDevice()
	inner := testutil.TwoQubitLibrary()
	reg := New(dev.BasisGates(), rejectingLibrary{inner}, synth.New(inner, dev))

	err := reg.Register([]ir.Gate{mustGate(t, "direct_rx_0.5", 0)})
	var de *calib.DuplicateEntryError
	require.True(t, errors.As(err, &de))
	assert.Zero(t, reg.Synthesized())
}
