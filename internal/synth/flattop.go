package synth

import (
	"fmt"
	"math"

	"github.com/roach88/pulsecal/internal/pulse"
)

// flattop locates the plateau of a rise/plateau/fall waveform.
// Start and End are inclusive plateau indices.
type flattop struct {
	Start int
	End   int
}

func (f flattop) width() int { return f.End - f.Start + 1 }

// scanFlattop walks forward while consecutive samples differ to find the
// plateau start, then while they are equal to find its end. Both the
// plateau and the fall must exist within the waveform.
func scanFlattop(w pulse.Waveform) (flattop, error) {
	n := len(w)
	start := 0
	for start+1 < n && w[start] != w[start+1] {
		start++
	}
	if start+1 >= n {
		return flattop{}, fmt.Errorf("no plateau within %d samples", n)
	}
	end := start
	for end+1 < n && w[end] == w[end+1] {
		end++
	}
	if end+1 >= n {
		return flattop{}, fmt.Errorf("plateau starting at %d never falls", start)
	}
	return flattop{Start: start, End: end}, nil
}

// detectFlattop finds the shared plateau of the drive and control
// waveforms.
func detectFlattop(drive, control pulse.Waveform) (flattop, error) {
	if len(drive) != len(control) {
		return flattop{}, &PlateauMismatchError{
			Reason: fmt.Sprintf("drive length %d != control length %d", len(drive), len(control)),
		}
	}
	df, err := scanFlattop(drive)
	if err != nil {
		return flattop{}, &PlateauMismatchError{Reason: "drive: " + err.Error()}
	}
	cf, err := scanFlattop(control)
	if err != nil {
		return flattop{}, &PlateauMismatchError{Reason: "control: " + err.Error()}
	}
	if df != cf {
		return flattop{}, &PlateauMismatchError{
			Reason: fmt.Sprintf("drive plateau [%d,%d] != control plateau [%d,%d]", df.Start, df.End, cf.Start, cf.End),
		}
	}
	return df, nil
}

// MaxPlateauTicks bounds the plateau length of a resized CR pulse.
const MaxPlateauTicks = 1 << 20

// plateauDuration returns the plateau length carrying targetArea given the
// area outside the plateau and the per-tick plateau amplitude. Never
// negative. A plateau longer than MaxPlateauTicks is a mismatch.
func plateauDuration(targetArea, outside, amp float64) (int, error) {
	flat := math.Floor((targetArea-outside)/amp + 0.5)
	if flat < 0 || math.IsNaN(flat) {
		return 0, nil
	}
	if flat > MaxPlateauTicks {
		return 0, &PlateauMismatchError{
			Reason: fmt.Sprintf("plateau amplitude %g needs %g ticks, limit is %d", amp, flat, MaxPlateauTicks),
		}
	}
	return int(flat), nil
}

// alignPlateau adjusts flat so that edges+flat is a multiple of g.
// A small remainder is shaved off when the plateau keeps more than g/2
// ticks; otherwise the plateau grows to the next multiple.
func alignPlateau(edges, flat, g int) int {
	rem := (edges + flat) % g
	if rem == 0 {
		return flat
	}
	if rem <= g/2 && flat-rem > g/2 {
		return flat - rem
	}
	return flat + g - rem
}

// rebuild replaces the plateau of w with flat copies of its plateau sample.
func rebuild(w pulse.Waveform, f flattop, flat int) pulse.Waveform {
	return pulse.Concat(w[:f.Start], pulse.Repeat(w[f.Start], flat), w[f.End+1:])
}
