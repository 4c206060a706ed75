package style

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalette(t *testing.T) {
	assert.Nil(t, Palette(0))

	colors := Palette(6)
	require.Len(t, colors, 6)

	seen := make(map[color.Color]bool)
	for _, c := range colors {
		assert.False(t, seen[c], "duplicate color %v", c)
		seen[c] = true
		_, _, _, a := c.RGBA()
		assert.Equal(t, uint32(0xffff), a)
	}
}

func TestHSLToRGB(t *testing.T) {
	r, g, b := hslToRGB(0, 0, 0.5)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)

	r, g, b = hslToRGB(0, 1, 0.5)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want color.Color
	}{
		{"#ef2929", Tango.ScarletRed},
		{"sky_blue", Tango.SkyBlue},
		{"tango:slate", Tango.Slate},
		{" KIT:Green ", KIT.Green},
		{"black", color.NRGBA{A: 0xff}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "#12", "#zzzzzz", "mauve"} {
		_, err := Parse(bad)
		assert.True(t, errors.Is(err, ErrUnknownColor), bad)
	}
}

func TestHexAndAlpha(t *testing.T) {
	assert.Equal(t, "#729fcf", Hex(Tango.SkyBlue))

	c := WithAlpha(Tango.Orange, 0.5).(color.NRGBA)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, Tango.Orange.R, c.R)
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "tango:sky_blue")
	assert.IsNonDecreasing(t, names)
}
