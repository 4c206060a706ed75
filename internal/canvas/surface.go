// Package canvas is the drawing layer under the plot composers. Composers
// draw onto a Surface; Axes implements it with gonum/plot, and Recorder keeps
// what was drawn in memory.
package canvas

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrShape is returned when the slices of a drawing primitive disagree in
// length.
var ErrShape = errors.New("mismatched series lengths")

// Dash selects the dash pattern of a line.
type Dash int

const (
	Solid Dash = iota
	Dashed
	DashDot
	Dotted
)

// String returns the dash name.
func (d Dash) String() string {
	switch d {
	case Solid:
		return "solid"
	case Dashed:
		return "dashed"
	case DashDot:
		return "dashdot"
	case Dotted:
		return "dotted"
	}
	return fmt.Sprintf("Dash(%d)", int(d))
}

// LineStyle describes a stroked line. A nil Color or zero Width draws
// nothing.
type LineStyle struct {
	Color color.Color
	Width float64 // points
	Dash  Dash
}

func (s LineStyle) visible() bool { return s.Color != nil && s.Width > 0 }

// Band is a binned series drawn between a lower and an upper contour. Edges
// has one more entry than Low and High. A nil Fill leaves the band unfilled;
// Line strokes the upper contour as a step line.
type Band struct {
	Label string
	Edges []float64
	Low   []float64
	High  []float64
	Fill  color.Color
	Line  LineStyle
}

func (b Band) validate() error {
	n := len(b.Edges) - 1
	if n < 1 || len(b.Low) != n || len(b.High) != n {
		return fmt.Errorf("band %q: %w: %d edges, %d low, %d high", b.Label, ErrShape, len(b.Edges), len(b.Low), len(b.High))
	}
	return nil
}

// Points is a set of measurements with symmetric errors. Nil error slices
// mean zero error. Boxed points are drawn as shaded rectangles spanning the
// errors instead of markers with error bars.
type Points struct {
	Label string
	X, Y  []float64
	XErr  []float64
	YErr  []float64
	Color color.Color
	Boxed bool
}

func (p Points) validate() error {
	n := len(p.X)
	if len(p.Y) != n || (p.XErr != nil && len(p.XErr) != n) || (p.YErr != nil && len(p.YErr) != n) {
		return fmt.Errorf("points %q: %w", p.Label, ErrShape)
	}
	return nil
}

// Curve is a polyline through (X[i], Y[i]).
type Curve struct {
	Label string
	X, Y  []float64
	Line  LineStyle
}

func (c Curve) validate() error {
	if len(c.X) != len(c.Y) {
		return fmt.Errorf("curve %q: %w", c.Label, ErrShape)
	}
	return nil
}

// Surface is a two-dimensional drawing area. Implementations are not safe for
// concurrent use; callers serialize access to a shared surface.
type Surface interface {
	// Band draws a binned series.
	Band(b Band) error
	// Points draws measurements with error bars or boxes.
	Points(p Points) error
	// Curve draws a polyline.
	Curve(c Curve) error
	// VSpan shades the full height between two x values.
	VSpan(x0, x1 float64, fill color.Color)
	// VLine draws a vertical line. A non-empty label adds a legend entry.
	VLine(x float64, line LineStyle, label string)

	SetXLabel(text string)
	SetYLabel(text string)
	SetXRange(lo, hi float64)
	XRange() (lo, hi float64)
	SetYRange(lo, hi float64)
	// SetYHeadroom scales the automatic upper y limit by f.
	SetYHeadroom(f float64)
	SetLogY(log bool)

	// SetTitles places text above the left and right corners of the axes.
	SetTitles(left, right string)
	// Annotate writes text at a position given as a fraction of the axes,
	// anchored at the top-left of the text.
	Annotate(text string, fx, fy float64)
	ShowLegend(show bool)
}
