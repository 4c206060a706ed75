// Package style holds the color palettes used for plot components.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownColor is returned by Parse for names not in any palette.
var ErrUnknownColor = errors.New("unknown color")

func hex(s string) color.NRGBA {
	v, _ := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// TangoColors is the light tone of each hue of the Tango desktop palette.
type TangoColors struct {
	Butter     color.NRGBA
	Orange     color.NRGBA
	Chocolate  color.NRGBA
	Chameleon  color.NRGBA
	SkyBlue    color.NRGBA
	Plum       color.NRGBA
	ScarletRed color.NRGBA
	LightGray  color.NRGBA
	Aluminium  color.NRGBA
	Slate      color.NRGBA
	DarkGray   color.NRGBA
}

// Tango is the default component palette.
var Tango = TangoColors{
	Butter:     hex("#fce94f"),
	Orange:     hex("#fcaf3e"),
	Chocolate:  hex("#e9b96e"),
	Chameleon:  hex("#8ae234"),
	SkyBlue:    hex("#729fcf"),
	Plum:       hex("#ad7fa8"),
	ScarletRed: hex("#ef2929"),
	LightGray:  hex("#eeeeec"),
	Aluminium:  hex("#d3d7cf"),
	Slate:      hex("#888a85"),
	DarkGray:   hex("#2e3436"),
}

// KITColors is the corporate palette of the Karlsruhe Institute of Technology.
type KITColors struct {
	Green     color.NRGBA
	Blue      color.NRGBA
	Black     color.NRGBA
	Grey      color.NRGBA
	LightGrey color.NRGBA
	PaleGreen color.NRGBA
	Yellow    color.NRGBA
	Orange    color.NRGBA
	Brown     color.NRGBA
	Red       color.NRGBA
	Purple    color.NRGBA
	Cyan      color.NRGBA
}

// KIT holds the KIT corporate colors.
var KIT = KITColors{
	Green:     hex("#009682"),
	Blue:      hex("#4664aa"),
	Black:     hex("#000000"),
	Grey:      hex("#8c8c8c"),
	LightGrey: hex("#d9d9d9"),
	PaleGreen: hex("#8cb63c"),
	Yellow:    hex("#fce500"),
	Orange:    hex("#dfa21d"),
	Brown:     hex("#a7822e"),
	Red:       hex("#a22223"),
	Purple:    hex("#a3107c"),
	Cyan:      hex("#23a1e0"),
}

var named = map[string]color.NRGBA{
	"tango:butter":      Tango.Butter,
	"tango:orange":      Tango.Orange,
	"tango:chocolate":   Tango.Chocolate,
	"tango:chameleon":   Tango.Chameleon,
	"tango:sky_blue":    Tango.SkyBlue,
	"tango:plum":        Tango.Plum,
	"tango:scarlet_red": Tango.ScarletRed,
	"tango:light_gray":  Tango.LightGray,
	"tango:aluminium":   Tango.Aluminium,
	"tango:slate":       Tango.Slate,
	"tango:dark_gray":   Tango.DarkGray,
	"kit:green":         KIT.Green,
	"kit:blue":          KIT.Blue,
	"kit:black":         KIT.Black,
	"kit:grey":          KIT.Grey,
	"kit:light_grey":    KIT.LightGrey,
	"kit:pale_green":    KIT.PaleGreen,
	"kit:yellow":        KIT.Yellow,
	"kit:orange":        KIT.Orange,
	"kit:brown":         KIT.Brown,
	"kit:red":           KIT.Red,
	"kit:purple":        KIT.Purple,
	"kit:cyan":          KIT.Cyan,
	"black":             {A: 0xff},
	"white":             {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
}

// Parse resolves a color given as "#rrggbb", as "palette:name", or as a bare
// Tango name such as "sky_blue".
func Parse(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return nil, fmt.Errorf("%w %q: want #rrggbb", ErrUnknownColor, s)
		}
		if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrUnknownColor, s, err)
		}
		return hex(s), nil
	}
	if c, ok := named[s]; ok {
		return c, nil
	}
	if c, ok := named["tango:"+s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownColor, s)
}

// Names returns every name accepted by Parse, sorted.
func Names() []string {
	out := make([]string, 0, len(named))
	for n := range named {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Hex formats c as "#rrggbb".
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// WithAlpha returns c with its alpha replaced by a (0..1).
func WithAlpha(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(a*255 + 0.5)
	return n
}
