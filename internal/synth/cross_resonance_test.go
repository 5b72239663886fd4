package synth

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pulsecal/internal/calib"
	"github.com/roach88/pulsecal/internal/pulse"
	"github.com/roach88/pulsecal/internal/testutil"
)

// crHalves splits a synthesized CR schedule into its first and last pulse
// pairs, keyed by channel.
func crHalves(t *testing.T, s pulse.Schedule) (first, last map[pulse.Channel]pulse.Instruction) {
	t.Helper()
	first = make(map[pulse.Channel]pulse.Instruction)
	last = make(map[pulse.Channel]pulse.Instruction)
	for _, in := range s.Instructions {
		if in.Channel != pulse.Drive(1) && in.Channel != pulse.Control(0) {
			continue
		}
		if in.Start == 0 {
			first[in.Channel] = in
		} else {
			last[in.Channel] = in
		}
	}
	require.Len(t, first, 2)
	require.Len(t, last, 2)
	return first, last
}

func TestCrossResonanceQuarterTurnKeepsShape(t *testing.T) {
	s := newFixtureSynth(t)

	sched, err := s.CrossResonance(math.Pi/2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, sched.Len())
	assert.Equal(t, 2*testutil.CRDuration+testutil.PiDuration, sched.Duration())

	first, last := crHalves(t, sched)
	ctrl := first[pulse.Control(0)].Pulse.Samples
	assert.Equal(t, testutil.CRDuration, ctrl.Len())
	assert.InDelta(t, testutil.CRControlWaveform().Area(), ctrl.Area(), 1e-9)

	// Echo pi pulse sits between the halves on the control qubit.
	echo := sched.OnChannel(pulse.Drive(0))
	require.Len(t, echo, 1)
	assert.Equal(t, testutil.CRDuration, echo[0].Start)
	assert.Equal(t, testutil.CRDuration+testutil.PiDuration, last[pulse.Control(0)].Start)

	assert.True(t, last[pulse.Control(0)].Pulse.Samples.Equal(ctrl.Negate()))
	assert.True(t, last[pulse.Drive(1)].Pulse.Samples.Equal(first[pulse.Drive(1)].Pulse.Samples.Negate()))
}

func TestCrossResonanceAreaTargetingAndGranularity(t *testing.T) {
	s := newFixtureSynth(t)
	full := testutil.CRControlWaveform().Area()

	for theta := 0.0; theta < 2*math.Pi; theta += 0.05 {
		sched, err := s.CrossResonance(theta, 0, 1)
		require.NoError(t, err, "theta=%g", theta)

		first, _ := crHalves(t, sched)
		drive := first[pulse.Drive(1)].Pulse.Samples
		ctrl := first[pulse.Control(0)].Pulse.Samples

		assert.Zero(t, drive.Len()%16, "theta=%g drive length %d", theta, drive.Len())
		assert.Zero(t, ctrl.Len()%16, "theta=%g control length %d", theta, ctrl.Len())
		assert.Equal(t, drive.Len(), ctrl.Len())

		target := full * theta / (math.Pi / 2)
		assert.InDelta(t, target, ctrl.Area(), 1e-6*math.Max(math.Abs(target), 1), "theta=%g", theta)
	}
}

func TestCrossResonanceWrapsFullTurns(t *testing.T) {
	s := newFixtureSynth(t)
	a, err := s.CrossResonance(1.0, 0, 1)
	require.NoError(t, err)
	b, err := s.CrossResonance(1.0+2*math.Pi, 0, 1)
	require.NoError(t, err)

	fa, _ := crHalves(t, a)
	fb, _ := crHalves(t, b)
	ca := fa[pulse.Control(0)].Pulse.Samples
	cb := fb[pulse.Control(0)].Pulse.Samples
	require.Equal(t, ca.Len(), cb.Len())
	assert.InDelta(t, ca.Area(), cb.Area(), 1e-9)
}

func TestCrossResonanceNegativeAngleSwapsHalves(t *testing.T) {
	s := newFixtureSynth(t)

	pos, err := s.CrossResonance(1.2, 0, 1)
	require.NoError(t, err)
	neg, err := s.CrossResonance(-1.2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, pos.Duration(), neg.Duration())

	pFirst, pLast := crHalves(t, pos)
	nFirst, nLast := crHalves(t, neg)
	for _, ch := range []pulse.Channel{pulse.Drive(1), pulse.Control(0)} {
		assert.True(t, nFirst[ch].Pulse.Samples.Equal(pLast[ch].Pulse.Samples), "first half on %s", ch)
		assert.True(t, nLast[ch].Pulse.Samples.Equal(pFirst[ch].Pulse.Samples), "last half on %s", ch)
	}
	assert.Less(t, nFirst[pulse.Control(0)].Pulse.Samples.Area(), 0.0)
}

func TestCrossResonanceSmallAngleClampsPlateau(t *testing.T) {
	s := newFixtureSynth(t)
	sched, err := s.CrossResonance(1e-3, 0, 1)
	require.NoError(t, err)

	first, _ := crHalves(t, sched)
	ctrl := first[pulse.Control(0)].Pulse.Samples
	edges := testutil.CRDuration - testutil.CRWidth
	assert.Equal(t, edges, ctrl.Len())
}

func TestCrossResonanceFlippedOrder(t *testing.T) {
	s := newFixtureSynth(t)
	_, err := s.CrossResonance(math.Pi/2, 1, 0)

	var fe *FlippedQubitOrderError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Control)
	assert.Equal(t, 0, fe.Target)
	assert.Equal(t, 7, fe.ForwardLen)
	assert.Equal(t, 5, fe.ReverseLen)
	assert.True(t, IsFlippedQubitOrder(err))
}

func TestCrossResonanceEqualCountsIsFlipped(t *testing.T) {
	lib := calib.NewMemoryLibrary()
	both := pulse.NewSchedule("cx", testutil.CRPair(0)...)
	require.NoError(t, lib.Add("cx", []int{0, 1}, both))
	require.NoError(t, lib.Add("cx", []int{1, 0}, both))

	_, err := New(lib, testutil.TwoQubitDevice()).CrossResonance(1, 0, 1)
	assert.True(t, IsFlippedQubitOrder(err))
}

func TestCrossResonanceMissingReverse(t *testing.T) {
	src := testutil.TwoQubitLibrary()
	forward, err := src.Get("cx", []int{0, 1})
	require.NoError(t, err)

	lib := calib.NewMemoryLibrary()
	require.NoError(t, lib.Add("cx", []int{0, 1}, forward))

	_, err = New(lib, testutil.TwoQubitDevice()).CrossResonance(1, 0, 1)
	var me *calib.MissingCalibrationError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []int{1, 0}, me.Qubits)
}

// libraryWithForward builds a library whose native cx(0,1) is forward and
// whose reversed entry is padded to have more instructions.
func libraryWithForward(t *testing.T, forward pulse.Schedule) *calib.MemoryLibrary {
	t.Helper()
	lib := calib.NewMemoryLibrary()
	require.NoError(t, lib.Add("x", []int{0}, pulse.NewSchedule("x", testutil.PiInstruction(0, 0))))
	require.NoError(t, lib.Add("cx", []int{0, 1}, forward))

	reverse := forward.Clone()
	for i := 0; i < 3; i++ {
		reverse = reverse.Append(pulse.NewSchedule("", testutil.PiInstruction(1, 0)))
	}
	require.NoError(t, lib.Add("cx", []int{1, 0}, reverse))
	return lib
}

func TestCrossResonanceAmbiguousPrimitive(t *testing.T) {
	pair := testutil.CRPair(0)
	extra := pair[1]
	extra.Start = testutil.CRDuration
	forward := pulse.NewSchedule("cx", pair[0], pair[1], extra)

	_, err := New(libraryWithForward(t, forward), testutil.TwoQubitDevice()).CrossResonance(1, 0, 1)
	var ae *AmbiguousPrimitiveError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "control", ae.Role)
	assert.Equal(t, 2, ae.Count)
}

func TestCrossResonanceNoPrimitive(t *testing.T) {
	forward := pulse.NewSchedule("cx", testutil.PiInstruction(0, 0))

	_, err := New(libraryWithForward(t, forward), testutil.TwoQubitDevice()).CrossResonance(1, 0, 1)
	var ae *AmbiguousPrimitiveError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "drive", ae.Role)
	assert.Zero(t, ae.Count)
}

func TestCrossResonancePlateauMismatch(t *testing.T) {
	ctrl, err := pulse.GaussianSquare(testutil.CRDuration, testutil.CRCtrlAmp, testutil.CRSigma, testutil.CRWidth-32)
	require.NoError(t, err)

	pair := testutil.CRPair(0)
	pair[1].Pulse.Samples = ctrl
	_, err = New(libraryWithForward(t, pulse.NewSchedule("cx", pair...)), testutil.TwoQubitDevice()).CrossResonance(1, 0, 1)
	assert.True(t, IsPlateauMismatch(err))
}

func TestCrossResonanceNoPlateau(t *testing.T) {
	g, err := pulse.Gaussian(testutil.CRDuration, testutil.CRCtrlAmp, 1e6)
	require.NoError(t, err)
	ramp := make(pulse.Waveform, testutil.CRDuration)
	for i := range ramp {
		ramp[i] = complex(float64(i+1)*1e-3, 0)
	}

	pair := testutil.CRPair(0)
	pair[0].Pulse.Samples = ramp
	pair[1].Pulse.Samples = g
	_, err = New(libraryWithForward(t, pulse.NewSchedule("cx", pair...)), testutil.TwoQubitDevice()).CrossResonance(1, 0, 1)

	var pe *PlateauMismatchError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Reason, "drive")
}

func TestScanFlattopBounds(t *testing.T) {
	_, err := scanFlattop(pulse.Waveform{1, 2, 3})
	assert.Error(t, err)

	_, err = scanFlattop(pulse.Waveform{1, 2, 2, 2})
	assert.Error(t, err)

	_, err = scanFlattop(nil)
	assert.Error(t, err)

	f, err := scanFlattop(pulse.Waveform{1, 2, 2, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, flattop{Start: 1, End: 3}, f)
	assert.Equal(t, 3, f.width())
}

func TestAlignPlateau(t *testing.T) {
	tests := []struct {
		name              string
		edges, flat, want int
	}{
		{"aligned", 128, 432, 432},
		{"small remainder with slack shrinks", 128, 437, 432},
		{"remainder of half shrinks", 128, 440, 432},
		{"large remainder grows", 128, 441, 448},
		{"small remainder without slack grows", 128, 5, 16},
		{"zero plateau grows", 120, 0, 8},
		{"slack exactly half grows", 120, 12, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignPlateau(tt.edges, tt.flat, 16)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, (tt.edges+got)%16)
		})
	}
}

func TestPlateauDurationClamps(t *testing.T) {
	tests := []struct {
		target, outside, amp float64
		want                 int
	}{
		{1, 5, 0.3, 0},
		{5, 2, 0.3, 10},
		{0.9, 0, 0.3, 3},
		{MaxPlateauTicks, 0, 1, MaxPlateauTicks},
	}
	for _, tt := range tests {
		got, err := plateauDuration(tt.target, tt.outside, tt.amp)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPlateauDurationRejectsOverlongPlateau(t *testing.T) {
	for _, amp := range []float64{1e-300, 1e-12, 1.0 / (MaxPlateauTicks + 2)} {
		_, err := plateauDuration(1, 0, amp)
		assert.True(t, IsPlateauMismatch(err), "amp=%g", amp)
	}
}

func TestCrossResonanceTinyPlateauAmplitude(t *testing.T) {
	w := make(pulse.Waveform, 32)
	for i := 0; i < 8; i++ {
		w[i] = complex(float64(i+1)*0.1, 0)
		w[31-i] = w[i]
	}
	for i := 8; i < 24; i++ {
		w[i] = complex(1e-300, 0)
	}

	pair := testutil.CRPair(0)
	pair[0].Pulse.Samples = w
	pair[1].Pulse.Samples = w.Clone()
	_, err := New(libraryWithForward(t, pulse.NewSchedule("cx", pair...)), testutil.TwoQubitDevice()).CrossResonance(3, 0, 1)

	var pe *PlateauMismatchError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Reason, "limit")
}
