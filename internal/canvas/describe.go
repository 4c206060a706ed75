package canvas

import (
	"errors"
	"image/color"
)

// ErrAmbiguousCut is returned when a Cut sets more or fewer than one mode.
var ErrAmbiguousCut = errors.New("exactly one cut mode must be set")

// Descriptions are the standard annotations of a physics plot.
type Descriptions struct {
	// Experiment is printed in bold above the left corner, e.g. "Belle II".
	Experiment string
	// Luminosity is printed above the right corner.
	Luminosity string
	// AdditionalInfo is printed inside the axes, top left. It may span
	// several lines.
	AdditionalInfo string
}

// AddDescriptions annotates s with d.
func AddDescriptions(s Surface, d Descriptions) {
	s.SetTitles(d.Experiment, d.Luminosity)
	if d.AdditionalInfo != "" {
		s.Annotate(d.AdditionalInfo, 0.02, 0.98)
	}
}

// Window is a closed x interval.
type Window struct{ Lo, Hi float64 }

// Cut marks a selection on the x axis. Exactly one field is set:
// Left cuts away x < Left, Right cuts away x > Right, Window cuts away the
// inside of the window and Keep cuts away the outside.
type Cut struct {
	Left   *float64
	Right  *float64
	Window *Window
	Keep   *Window
	// Color shades the cut-away region. Nil means white.
	Color color.Color
}

const cutLabel = "Cut"

var cutLine = LineStyle{Color: color.Black, Width: 1.5, Dash: Dashed}

// AddCut shades the region removed by cut and marks its boundaries with
// dashed lines.
func AddCut(s Surface, cut Cut) error {
	set := 0
	for _, on := range []bool{cut.Left != nil, cut.Right != nil, cut.Window != nil, cut.Keep != nil} {
		if on {
			set++
		}
	}
	if set != 1 {
		return ErrAmbiguousCut
	}

	clr := cut.Color
	if clr == nil {
		clr = color.White
	}
	shade := withAlpha(clr, 0.7)
	lo, hi := s.XRange()

	switch {
	case cut.Left != nil:
		s.VSpan(lo, *cut.Left, shade)
		s.VLine(*cut.Left, cutLine, cutLabel)
	case cut.Right != nil:
		s.VSpan(*cut.Right, hi, shade)
		s.VLine(*cut.Right, cutLine, cutLabel)
	case cut.Window != nil:
		s.VSpan(cut.Window.Lo, cut.Window.Hi, shade)
		s.VLine(cut.Window.Lo, cutLine, cutLabel)
		s.VLine(cut.Window.Hi, cutLine, "")
	case cut.Keep != nil:
		s.VSpan(lo, cut.Keep.Lo, shade)
		s.VLine(cut.Keep.Lo, cutLine, cutLabel)
		s.VSpan(cut.Keep.Hi, hi, shade)
		s.VLine(cut.Keep.Hi, cutLine, "")
	}
	s.ShowLegend(true)
	return nil
}
