// Package device models the target hardware as seen by pulse synthesis:
// qubit count, timing granularity, channel resolution and the basis-gate set.
package device

import (
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/pulsecal/internal/pulse"
)

// DefaultGranularity is the minimum timing granularity (in ticks) of the
// observed calibration. Waveform lengths must be a multiple of it.
const DefaultGranularity = 16

// ChannelError reports a channel lookup for qubits the device does not have.
type ChannelError struct {
	Role    string
	Qubits  []int
	Message string
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("no %s channel for qubits %v: %s", e.Role, e.Qubits, e.Message)
}

// Device describes one backend.
//
// Channel maps are fixed after construction. The basis-gate set is the only
// mutable part and is safe for concurrent use.
type Device struct {
	Name        string
	NumQubits   int
	Granularity int

	controls map[[2]int]int
	basis    *BasisGates
}

// Option configures a Device.
type Option func(*Device)

// WithGranularity sets the timing granularity in ticks.
func WithGranularity(g int) Option {
	return func(d *Device) {
		d.Granularity = g
	}
}

// WithBasisGates seeds the basis-gate set.
func WithBasisGates(names ...string) Option {
	return func(d *Device) {
		for _, n := range names {
			d.basis.Add(n)
		}
	}
}

// WithControlChannel maps the ordered pair (control, target) to control
// channel u<index>.
func WithControlChannel(control, target, index int) Option {
	return func(d *Device) {
		d.controls[[2]int{control, target}] = index
	}
}

// New creates a device with numQubits qubits.
func New(name string, numQubits int, opts ...Option) *Device {
	d := &Device{
		Name:        name,
		NumQubits:   numQubits,
		Granularity: DefaultGranularity,
		controls:    make(map[[2]int]int),
		basis:       NewBasisGates(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DriveChannel returns the drive channel of qubit.
func (d *Device) DriveChannel(qubit int) (pulse.Channel, error) {
	if qubit < 0 || qubit >= d.NumQubits {
		return pulse.Channel{}, &ChannelError{
			Role:    "drive",
			Qubits:  []int{qubit},
			Message: fmt.Sprintf("device %s has %d qubits", d.Name, d.NumQubits),
		}
	}
	return pulse.Drive(qubit), nil
}

// ControlChannel returns the channel that drives control at target's frequency.
func (d *Device) ControlChannel(control, target int) (pulse.Channel, error) {
	idx, ok := d.controls[[2]int{control, target}]
	if !ok {
		return pulse.Channel{}, &ChannelError{
			Role:    "control",
			Qubits:  []int{control, target},
			Message: "qubits are not coupled",
		}
	}
	return pulse.Control(idx), nil
}

// Coupled returns the ordered (control, target) pairs that have a control
// channel, sorted.
func (d *Device) Coupled() [][2]int {
	pairs := make([][2]int, 0, len(d.controls))
	for p := range d.controls {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b [2]int) int {
		if a[0] != b[0] {
			return a[0] - b[0]
		}
		return a[1] - b[1]
	})
	return pairs
}

// BasisGates returns the device's basis-gate set.
func (d *Device) BasisGates() *BasisGates {
	return d.basis
}

// BasisGates is an insertion-ordered set of gate names that only grows.
type BasisGates struct {
	mu    sync.RWMutex
	order []string
	set   map[string]struct{}
}

// NewBasisGates creates a set seeded with names.
func NewBasisGates(names ...string) *BasisGates {
	b := &BasisGates{set: make(map[string]struct{})}
	for _, n := range names {
		b.Add(n)
	}
	return b
}

// Add inserts name and reports whether it was new.
func (b *BasisGates) Add(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.set[name]; ok {
		return false
	}
	b.set[name] = struct{}{}
	b.order = append(b.order, name)
	return true
}

// Contains reports whether name is in the set.
func (b *BasisGates) Contains(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.set[name]
	return ok
}

// List returns the names in insertion order.
func (b *BasisGates) List() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.order)
}

// Len returns the number of names.
func (b *BasisGates) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
