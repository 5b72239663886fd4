package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQubitCalibration() string { return testdataPath("calibrations", "two_qubit") }

func TestSynthEcho(t *testing.T) {
	out, err := execute(t, "synth", twoQubitCalibration(), testdataPath("programs", "echo.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Device: fake_two_qubit")
	assert.NotContains(t, out, "Session:")
	assert.Contains(t, out, "Gates: 5 processed, 3 synthesized")
	assert.Contains(t, out, "direct_rx_1.5707963267948966[0]  instructions=1 duration=160 channels=d0")
	assert.Contains(t, out, "Basis gates: id u1 u2 u3 cx direct_rx_1.5707963267948966 cr_0.7853981633974483 open_cx")
}

func TestSynthEchoJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "synth", twoQubitCalibration(), testdataPath("programs", "echo.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   SynthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 5, resp.Data.Processed)
	require.Len(t, resp.Data.Synthesized, 3)

	cr := resp.Data.Synthesized[1]
	assert.Equal(t, "cr_0.7853981633974483", cr.Gate)
	assert.Equal(t, []int{0, 1}, cr.Qubits)
	assert.Equal(t, 5, cr.Instructions)
	assert.Equal(t, []string{"d0", "d1", "u0"}, cr.Channels)

	last := resp.Data.Synthesized[2]
	assert.Equal(t, []int{1}, last.Qubits)
	assert.Equal(t, []string{"d1"}, last.Channels)
}

func TestSynthFlippedPair(t *testing.T) {
	out, err := execute(t, "synth", twoQubitCalibration(), testdataPath("programs", "flipped.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeRegister)
	assert.Contains(t, out, "flipped qubit order")
}

func TestSynthMissingPiGate(t *testing.T) {
	out, err := execute(t, "--format", "json", "synth", "--pi-gate", "sx",
		twoQubitCalibration(), testdataPath("programs", "single.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string    `json:"status"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRegister, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "missing calibration sx[0]")
}

func TestSynthPersistsAndReuses(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pulsecal.db")
	program := testdataPath("programs", "echo.yaml")

	out, err := execute(t, "synth", "--db", db, "--session", "run-1", twoQubitCalibration(), program)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: run-1")
	assert.Contains(t, out, "3 synthesized")

	out, err = execute(t, "synth", "--db", db, "--session", "run-2", twoQubitCalibration(), program)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: run-2")
	assert.Contains(t, out, "Gates: 5 processed, 0 synthesized")
	assert.Contains(t, out, "open_cx")
}

func TestSynthErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing calibration", []string{"/nonexistent", testdataPath("programs", "echo.yaml")}, "E005"},
		{"invalid calibration", []string{testdataPath("calibrations", "invalid"), testdataPath("programs", "echo.yaml")}, "E10"},
		{"missing program", []string{twoQubitCalibration(), "/nonexistent.yaml"}, ErrCodeProgram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"synth"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}
