package ir

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGateDirectRX(t *testing.T) {
	g, err := ParseGate("direct_rx_0.7853981633974483", []int{3}, nil)
	require.NoError(t, err)

	assert.Equal(t, GateDirectRX, g.Kind)
	assert.Equal(t, math.Pi/4, g.Theta)
	assert.Equal(t, []int{3}, g.Qubits)
	assert.True(t, g.Kind.Synthesized())
	assert.True(t, g.Kind.Registered())
}

func TestParseGateCR(t *testing.T) {
	g, err := ParseGate("cr_-1.25", []int{0, 1}, []int{0})
	require.NoError(t, err)

	assert.Equal(t, GateCR, g.Kind)
	assert.Equal(t, -1.25, g.Theta)
	assert.Equal(t, []int{0, 1}, g.Qubits)
	assert.Equal(t, []int{0}, g.Clbits)
}

func TestParseGateOpenCXAndOther(t *testing.T) {
	g, err := ParseGate("open_cx", []int{1, 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, GateOpenCX, g.Kind)
	assert.False(t, g.Kind.Synthesized())
	assert.True(t, g.Kind.Registered())

	for _, name := range []string{"u3", "cx", "crx", "measure", "direct_ry_1"} {
		g, err := ParseGate(name, []int{0}, nil)
		require.NoError(t, err, name)
		assert.Equal(t, GateOther, g.Kind, name)
		assert.False(t, g.Kind.Registered(), name)
	}
}

func TestParseGateErrors(t *testing.T) {
	tests := []struct {
		name    string
		gate    string
		qubits  []int
		message string
	}{
		{"missing angle", "direct_rx_", []int{0}, "missing angle"},
		{"malformed angle", "cr_abc", []int{0, 1}, "malformed"},
		{"nan angle", "cr_NaN", []int{0, 1}, "finite"},
		{"inf angle", "direct_rx_Inf", []int{0}, "finite"},
		{"rx arity", "direct_rx_1", []int{0, 1}, "expected 1 qubit"},
		{"cr arity", "cr_1", []int{0}, "expected 2 qubits"},
		{"cr same qubit", "cr_1", []int{2, 2}, "must differ"},
		{"open_cx arity", "open_cx", []int{0, 1, 2}, "expected 2 qubits"},
		{"negative qubit", "direct_rx_1", []int{-1}, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGate(tt.gate, tt.qubits, nil)
			var gateErr *GateError
			require.True(t, errors.As(err, &gateErr))
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), tt.gate)
		})
	}
}

func TestGateNamesRoundTrip(t *testing.T) {
	for _, theta := range []float64{math.Pi / 2, -0.3, 2.5e-7, 3} {
		rx := NewDirectRX(theta, 1)
		parsed, err := ParseGate(rx.Name, rx.Qubits, nil)
		require.NoError(t, err)
		assert.Equal(t, theta, parsed.Theta)

		cr := NewCR(theta, 0, 1)
		parsed, err = ParseGate(cr.Name, cr.Qubits, nil)
		require.NoError(t, err)
		assert.Equal(t, theta, parsed.Theta)
		assert.Equal(t, GateCR, parsed.Kind)
	}
	assert.Equal(t, "cr_3", CRName(3))
}

func TestParseGateCopiesQubits(t *testing.T) {
	qubits := []int{0, 1}
	g, err := ParseGate("cr_1", qubits, nil)
	require.NoError(t, err)
	qubits[0] = 9
	assert.Equal(t, []int{0, 1}, g.Qubits)
}
