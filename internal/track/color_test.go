package track

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#000", color.NRGBA{A: 255}},
		{"#fa0", color.NRGBA{R: 0xff, G: 0xaa, A: 255}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{"8080801a", color.NRGBA{R: 128, G: 128, B: 128, A: 26}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if assert.NoError(t, err, tt.in) {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}

	for _, bad := range []string{"", "#12", "#12345", "#gggggg"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#8080801a", HexColor(DefaultBackgroundColor))
	assert.Equal(t, "#000000ff", HexColor(DefaultFillColor))
}
