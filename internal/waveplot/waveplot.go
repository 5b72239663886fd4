// Package waveplot renders pulse schedules as I/Q line plots.
package waveplot

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/roach88/pulsecal/internal/pulse"
)

// Default canvas size.
const (
	DefaultWidth  = 14 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Trace is the dense sample timeline of one channel.
type Trace struct {
	Channel pulse.Channel
	Samples pulse.Waveform
}

// Traces flattens s into one dense timeline per channel, in channel order.
// Gaps between instructions are zero; overlapping samples add.
func Traces(s pulse.Schedule) []Trace {
	duration := s.Duration()
	channels := s.Channels()
	traces := make([]Trace, len(channels))
	for i, ch := range channels {
		samples := make(pulse.Waveform, duration)
		for _, in := range s.OnChannel(ch) {
			for j, v := range in.Pulse.Samples {
				samples[in.Start+j] += v
			}
		}
		traces[i] = Trace{Channel: ch, Samples: samples}
	}
	return traces
}

// Render builds a plot with in-phase (solid) and quadrature (dashed) lines
// for every channel of s.
func Render(s pulse.Schedule, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (dt)"
	p.Y.Label.Text = "Amplitude"

	for i, tr := range Traces(s) {
		re := make(plotter.XYs, len(tr.Samples))
		im := make(plotter.XYs, len(tr.Samples))
		for t, v := range tr.Samples {
			re[t] = plotter.XY{X: float64(t), Y: real(v)}
			im[t] = plotter.XY{X: float64(t), Y: imag(v)}
		}

		reLine, err := plotter.NewLine(re)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", tr.Channel, err)
		}
		reLine.Color = plotutil.Color(i)
		reLine.Width = vg.Points(1)

		imLine, err := plotter.NewLine(im)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", tr.Channel, err)
		}
		imLine.Color = plotutil.Color(i)
		imLine.Width = vg.Points(1)
		imLine.Dashes = plotutil.Dashes(1)

		p.Add(reLine, imLine)
		p.Legend.Add(tr.Channel.Name()+" I", reLine)
		p.Legend.Add(tr.Channel.Name()+" Q", imLine)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// Write renders s in format ("png" or "svg") to w.
func Write(w io.Writer, s pulse.Schedule, title, format string) error {
	p, err := Render(s, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return fmt.Errorf("plot format %q: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

// Save renders s to path; the file extension selects the image format.
func Save(path string, s pulse.Schedule, title string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg":
	default:
		return fmt.Errorf("unsupported plot extension %q (want .png or .svg)", filepath.Ext(path))
	}
	p, err := Render(s, title)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
