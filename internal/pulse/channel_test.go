package pulse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelName(t *testing.T) {
	assert.Equal(t, "d0", Drive(0).Name())
	assert.Equal(t, "u12", Control(12).Name())
	assert.Equal(t, "m3", Channel{Kind: MeasureKind, Index: 3}.String())
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in   string
		want Channel
	}{
		{"d0", Drive(0)},
		{"u7", Control(7)},
		{"m2", Channel{Kind: MeasureKind, Index: 2}},
		{"a11", Channel{Kind: AcquireKind, Index: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChannel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChannelInvalid(t *testing.T) {
	for _, in := range []string{"", "d", "x0", "d-1", "dd"} {
		_, err := ParseChannel(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestChannelJSONText(t *testing.T) {
	data, err := json.Marshal(map[string]Channel{"ch": Control(1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ch":"u1"}`, string(data))

	var decoded map[string]Channel
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Control(1), decoded["ch"])
}
