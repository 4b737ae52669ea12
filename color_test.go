package g3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want [4]uint8
	}{
		{"#fff", [4]uint8{255, 255, 255, 255}},
		{"f008", [4]uint8{255, 0, 0, 136}},
		{"336699", [4]uint8{51, 102, 153, 255}},
		{"#00ff0080", [4]uint8{0, 255, 0, 128}},
		{"bogus", [4]uint8{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Hex(tt.in).Bytes())
		})
	}
}

func TestColorBytesClamps(t *testing.T) {
	assert.Equal(t, [4]uint8{0, 255, 128, 255}, RGBA(-1, 2, 0.5, 1).Bytes())
}

func TestColorGPU(t *testing.T) {
	c := RGB(1, 0.5, 0).GPU()
	assert.InDelta(t, 0.5, c.G, 1e-6)
	assert.Equal(t, 1.0, c.A)
}
