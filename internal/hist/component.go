package hist

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/monitoring"
	"github.com/banshee-data/wg1plot/internal/registry"
	"github.com/banshee-data/wg1plot/internal/style"
)

// Mode controls how a component combines with the others.
type Mode int

const (
	// ModeDefault selects the composer's default mode.
	ModeDefault Mode = iota
	// Overlaid components are drawn from zero.
	Overlaid
	// Stacked components are drawn on top of earlier stacked components.
	Stacked
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case Overlaid:
		return "overlaid"
	case Stacked:
		return "stacked"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Style is the drawing style of a component.
type Style int

const (
	// StyleDefault selects the composer's default style.
	StyleDefault Style = iota
	Line
	Filled
	Point
	Box
)

func (s Style) String() string {
	switch s {
	case StyleDefault:
		return "default"
	case Line:
		return "line"
	case Filled:
		return "filled"
	case Point:
		return "point"
	case Box:
		return "box"
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ComponentOptions are the optional settings of a component. Zero values take
// the composer defaults.
type ComponentOptions struct {
	// Weights has one entry per value. Nil means unit weights.
	Weights []float64
	// Color is nil for the palette entry at the registration index.
	Color color.Color
	Mode  Mode
	Style Style
	Dash  canvas.Dash
	// LineWidth in points. Zero means 1.5.
	LineWidth float64
}

// Component is one named sample of a histogram plot.
type Component struct {
	Label     string
	Values    []float64
	Weights   []float64
	Color     color.Color
	Mode      Mode
	Style     Style
	Dash      canvas.Dash
	LineWidth float64
}

func (c Component) clone() Component {
	c.Values = slices.Clone(c.Values)
	c.Weights = slices.Clone(c.Weights)
	return c
}

const defaultLineWidth = 1.5

// newComponent validates the options and copies the inputs.
func newComponent(label string, values []float64, opts ComponentOptions, mode Mode, st Style, allowed []Style) (Component, error) {
	if opts.Weights != nil && len(opts.Weights) != len(values) {
		return Component{}, fmt.Errorf("component %q: %w: %d values, %d weights", label, ErrLengthMismatch, len(values), len(opts.Weights))
	}
	for _, w := range opts.Weights {
		if w < 0 || math.IsNaN(w) {
			return Component{}, fmt.Errorf("component %q: %w: got %g", label, ErrInvalidWeight, w)
		}
	}
	if opts.Mode != ModeDefault {
		mode = opts.Mode
	}
	if mode != Overlaid && mode != Stacked {
		return Component{}, fmt.Errorf("component %q: unknown mode %v", label, mode)
	}
	if opts.Style != StyleDefault {
		st = opts.Style
	}
	if !slices.Contains(allowed, st) {
		return Component{}, fmt.Errorf("component %q: %w: %v", label, ErrInvalidStyle, st)
	}

	weights := opts.Weights
	if weights == nil {
		weights = make([]float64, len(values))
		for i := range weights {
			weights[i] = 1
		}
	} else {
		weights = slices.Clone(weights)
	}
	lw := opts.LineWidth
	if lw <= 0 {
		lw = defaultLineWidth
	}
	return Component{
		Label:     label,
		Values:    slices.Clone(values),
		Weights:   weights,
		Color:     opts.Color,
		Mode:      mode,
		Style:     st,
		Dash:      opts.Dash,
		LineWidth: lw,
	}, nil
}

// composer holds the state shared by the histogram plots: the variable, the
// registered components and whether the plot has been drawn.
type composer struct {
	variable   Variable
	components *registry.Registry[Component]
	rendered   bool
}

func newComposer(v Variable) composer {
	return composer{variable: v, components: registry.New[Component]()}
}

func (c *composer) add(label string, values []float64, opts ComponentOptions, mode Mode, st Style, allowed ...Style) error {
	if c.rendered {
		return fmt.Errorf("component %q: %w", label, ErrComposerFinalized)
	}
	comp, err := newComponent(label, values, opts, mode, st, allowed)
	if err != nil {
		return err
	}
	if err := c.components.Add(label, comp); err != nil {
		return err
	}
	monitoring.Logf("hist: added %s component %q to %s (%d values)", comp.Mode, label, c.variable.Name(), len(values))
	return nil
}

// Variable returns the variable the plot is bound to.
func (c *composer) Variable() Variable { return c.variable }

// Components returns copies of the registered components in registration
// order.
func (c *composer) Components() []Component {
	out := make([]Component, 0, c.components.Len())
	for _, comp := range c.components.All() {
		out = append(out, comp.clone())
	}
	return out
}

// Rendered reports whether the plot has been drawn.
func (c *composer) Rendered() bool { return c.rendered }

var edgeLine = canvas.LineStyle{Color: color.Black, Width: 0.5}

// drawComponents bins and draws comps in order. Stacked components sit on the
// running sum of the stacked components before them.
func (c *composer) drawComponents(s canvas.Surface, comps []Component) error {
	edges := c.variable.Edges()
	base := make([]float64, c.variable.Bins())
	palette := style.Palette(len(comps))

	for i, comp := range comps {
		counts := Count(c.variable, comp.Values, comp.Weights)
		low := make([]float64, len(base))
		high := counts.SumW
		if comp.Mode == Stacked {
			copy(low, base)
			for j := range high {
				high[j] += base[j]
			}
			copy(base, high)
		}

		clr := comp.Color
		if clr == nil {
			clr = palette[i]
		}
		band := canvas.Band{Label: comp.Label, Edges: edges, Low: low, High: high}
		switch comp.Style {
		case Filled:
			band.Fill = clr
			band.Line = edgeLine
		default:
			band.Line = canvas.LineStyle{Color: clr, Width: comp.LineWidth, Dash: comp.Dash}
		}
		if err := s.Band(band); err != nil {
			return fmt.Errorf("draw %q: %w", comp.Label, err)
		}
	}
	return nil
}

// PlotOptions control the axes decoration of a histogram plot.
type PlotOptions struct {
	// YLabel is the counted quantity, e.g. "Candidates". Defaults to "Events".
	YLabel string
	// HideLabels leaves the axis labels untouched, for drawing a second plot
	// onto the same axes.
	HideLabels bool
	// HideLegend turns the legend off.
	HideLegend bool
	// YHeadroom scales the automatic y maximum. Zero means 1.3.
	YHeadroom float64
}

const (
	defaultYLabel   = "Events"
	defaultHeadroom = 1.3
)

func (c *composer) decorate(s canvas.Surface, opts PlotOptions) {
	sc := c.variable.Scope()
	s.SetXRange(sc.Min, sc.Max)
	s.SetLogY(c.variable.LogY())

	headroom := opts.YHeadroom
	if headroom <= 0 {
		headroom = defaultHeadroom
	}
	s.SetYHeadroom(headroom)

	if !opts.HideLabels {
		ylabel := opts.YLabel
		if ylabel == "" {
			ylabel = defaultYLabel
		}
		s.SetXLabel(c.variable.XLabel())
		s.SetYLabel(c.variable.YLabel(ylabel))
	}
	if opts.HideLegend {
		s.ShowLegend(false)
	}
}
