package pulse

import (
	"fmt"
	"strconv"
)

// ChannelKind is the role of a hardware output.
type ChannelKind int

const (
	// DriveKind addresses a qubit at its own frequency.
	DriveKind ChannelKind = iota
	// ControlKind addresses a qubit at another qubit's frequency
	// (cross-resonance tones).
	ControlKind
	// MeasureKind drives a readout resonator.
	MeasureKind
	// AcquireKind captures readout data.
	AcquireKind
)

var kindPrefixes = map[ChannelKind]string{
	DriveKind:   "d",
	ControlKind: "u",
	MeasureKind: "m",
	AcquireKind: "a",
}

// String returns the channel-name prefix for the kind.
func (k ChannelKind) String() string {
	if p, ok := kindPrefixes[k]; ok {
		return p
	}
	return fmt.Sprintf("ChannelKind(%d)", int(k))
}

// Channel is an opaque hardware-addressable output. Channels are handed out
// by a device; synthesis code never builds them from qubit indices itself.
type Channel struct {
	Kind  ChannelKind
	Index int
}

// Drive returns the drive channel with the given index.
func Drive(index int) Channel { return Channel{Kind: DriveKind, Index: index} }

// Control returns the control channel with the given index.
func Control(index int) Channel { return Channel{Kind: ControlKind, Index: index} }

// Name returns the conventional channel name, e.g. "d0" or "u3".
func (c Channel) Name() string {
	return c.Kind.String() + strconv.Itoa(c.Index)
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return c.Name()
}

// ParseChannel parses a channel name such as "d0" or "u12".
func ParseChannel(name string) (Channel, error) {
	if len(name) < 2 {
		return Channel{}, fmt.Errorf("invalid channel name %q", name)
	}
	prefix, digits := name[:1], name[1:]
	idx, err := strconv.Atoi(digits)
	if err != nil || idx < 0 {
		return Channel{}, fmt.Errorf("invalid channel index in %q", name)
	}
	for kind, p := range kindPrefixes {
		if p == prefix {
			return Channel{Kind: kind, Index: idx}, nil
		}
	}
	return Channel{}, fmt.Errorf("unknown channel prefix %q in %q", prefix, name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Channel) MarshalText() ([]byte, error) {
	return []byte(c.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
