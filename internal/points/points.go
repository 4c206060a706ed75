// Package points draws pre-computed measurements, such as efficiencies or
// fit results, as markers with error bars or as shaded error boxes.
package points

import (
	"errors"
	"fmt"
	"image/color"
	"slices"

	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/hist"
	"github.com/banshee-data/wg1plot/internal/monitoring"
	"github.com/banshee-data/wg1plot/internal/registry"
	"github.com/banshee-data/wg1plot/internal/style"
)

// ErrEmptyInput is returned by NewPoints for zero points.
var ErrEmptyInput = errors.New("no points")

// Variable names the two axes of a data-points plot.
type Variable struct {
	XName, XUnit string
	YName, YUnit string
}

func axisLabel(name, unit string) string {
	if unit == "" {
		return name
	}
	return fmt.Sprintf("%s in %s", name, unit)
}

// XLabel returns "XName in XUnit", or XName alone without a unit.
func (v Variable) XLabel() string { return axisLabel(v.XName, v.XUnit) }

// YLabel returns "YName in YUnit", or YName alone without a unit.
func (v Variable) YLabel() string { return axisLabel(v.YName, v.YUnit) }

// Points are measurements with symmetric errors.
type Points struct {
	X, Y       []float64
	XErr, YErr []float64
}

// NewPoints copies the inputs. Nil error slices mean zero errors; all
// non-nil slices must have the same length.
func NewPoints(x, y, xErr, yErr []float64) (Points, error) {
	return Points{X: x, Y: y, XErr: xErr, YErr: yErr}.validated()
}

// Len returns the number of points.
func (p Points) Len() int { return len(p.X) }

// validated returns a copy of p with nil errors expanded to zeros, or an
// error when p is empty or its slices differ in length.
func (p Points) validated() (Points, error) {
	n := len(p.X)
	if n == 0 {
		return Points{}, ErrEmptyInput
	}
	if len(p.Y) != n || (p.XErr != nil && len(p.XErr) != n) || (p.YErr != nil && len(p.YErr) != n) {
		return Points{}, fmt.Errorf("%w: x=%d y=%d xerr=%d yerr=%d", hist.ErrLengthMismatch, n, len(p.Y), len(p.XErr), len(p.YErr))
	}
	out := p.clone()
	if out.XErr == nil {
		out.XErr = make([]float64, n)
	}
	if out.YErr == nil {
		out.YErr = make([]float64, n)
	}
	return out, nil
}

func (p Points) clone() Points {
	return Points{X: slices.Clone(p.X), Y: slices.Clone(p.Y), XErr: slices.Clone(p.XErr), YErr: slices.Clone(p.YErr)}
}

// ComponentOptions are the optional settings of a component.
type ComponentOptions struct {
	// Color is nil for black markers or the palette entry for boxes.
	Color color.Color
	// Style is hist.Point (default) or hist.Box.
	Style hist.Style
}

// Component is one named set of points.
type Component struct {
	Label  string
	Points Points
	Color  color.Color
	Style  hist.Style
}

// PlotOptions control the axes decoration of a data-points plot.
type PlotOptions struct {
	HideLabels bool
	HideLegend bool
}

// DataPointsPlot draws sets of points without binning.
type DataPointsPlot struct {
	variable   Variable
	components *registry.Registry[Component]
	rendered   bool
}

// NewDataPointsPlot returns an empty plot of v.
func NewDataPointsPlot(v Variable) *DataPointsPlot {
	return &DataPointsPlot{variable: v, components: registry.New[Component]()}
}

// AddComponent registers a copy of pts under label. Points built without
// NewPoints are validated the same way.
func (p *DataPointsPlot) AddComponent(label string, pts Points, opts ComponentOptions) error {
	if p.rendered {
		return fmt.Errorf("component %q: %w", label, hist.ErrComposerFinalized)
	}
	st := opts.Style
	if st == hist.StyleDefault {
		st = hist.Point
	}
	if st != hist.Point && st != hist.Box {
		return fmt.Errorf("component %q: %w: %v", label, hist.ErrInvalidStyle, st)
	}
	pts, err := pts.validated()
	if err != nil {
		return fmt.Errorf("component %q: %w", label, err)
	}
	comp := Component{Label: label, Points: pts, Color: opts.Color, Style: st}
	if err := p.components.Add(label, comp); err != nil {
		return err
	}
	monitoring.Logf("points: added %s component %q (%d points)", st, label, pts.Len())
	return nil
}

// Variable returns the axis description of the plot.
func (p *DataPointsPlot) Variable() Variable { return p.variable }

// Components returns copies of the registered components in registration
// order.
func (p *DataPointsPlot) Components() []Component {
	out := make([]Component, 0, p.components.Len())
	for _, c := range p.components.All() {
		c.Points = c.Points.clone()
		out = append(out, c)
	}
	return out
}

// PlotOn draws every component onto s. Components cannot be added after a
// successful render.
func (p *DataPointsPlot) PlotOn(s canvas.Surface, opts PlotOptions) error {
	comps := p.components.Values()
	palette := style.Palette(len(comps))

	for i, c := range comps {
		clr := c.Color
		if clr == nil {
			if c.Style == hist.Box {
				clr = palette[i]
			} else {
				clr = color.Black
			}
		}
		if err := s.Points(canvas.Points{
			Label: c.Label,
			X:     c.Points.X,
			Y:     c.Points.Y,
			XErr:  c.Points.XErr,
			YErr:  c.Points.YErr,
			Color: clr,
			Boxed: c.Style == hist.Box,
		}); err != nil {
			return fmt.Errorf("draw %q: %w", c.Label, err)
		}
	}

	if !opts.HideLabels {
		s.SetXLabel(p.variable.XLabel())
		s.SetYLabel(p.variable.YLabel())
	}
	if opts.HideLegend {
		s.ShowLegend(false)
	}
	p.rendered = true
	return nil
}
