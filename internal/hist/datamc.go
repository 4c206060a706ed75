package hist

import (
	"fmt"
	"image/color"
	"math"

	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/monitoring"
	"github.com/banshee-data/wg1plot/internal/style"
)

// MCStyle selects how the MC components are drawn.
type MCStyle int

const (
	// MCStacked draws every MC component in the stack.
	MCStacked MCStyle = iota
	// MCSummed draws only the MC sum as one filled histogram.
	MCSummed
)

// DataMCOptions control a data/MC comparison.
type DataMCOptions struct {
	PlotOptions
	MCStyle MCStyle
	// SumColor fills the MC sum in MCSummed mode. Nil means Tango sky blue.
	SumColor color.Color
	// SumLabel is the legend entry of the MC sum. Defaults to "MC".
	SumLabel string
	// RatioRange is the y range of the ratio panel. Nil means [0.5, 1.5].
	RatioRange *canvas.Window
	// RatioLabel is the y label of the ratio panel. Defaults to "Data / MC".
	RatioLabel string
}

const (
	defaultSumLabel   = "MC"
	defaultRatioLabel = "Data / MC"
	uncertaintyLabel  = "MC stat. unc."
)

var (
	defaultRatioRange = canvas.Window{Lo: 0.5, Hi: 1.5}
	uncertaintyFill   = color.NRGBA{A: 70}
	referenceLine     = canvas.LineStyle{Color: color.Gray{Y: 100}, Width: 1, Dash: canvas.Dashed}
)

// DataMCHistogramPlot compares one data sample with a sum of MC samples and
// draws their ratio in a second panel.
type DataMCHistogramPlot struct {
	composer
	data *Component
}

// NewDataMCHistogramPlot returns an empty comparison of v.
func NewDataMCHistogramPlot(v Variable) *DataMCHistogramPlot {
	return &DataMCHistogramPlot{composer: newComposer(v)}
}

// AddMCComponent registers a simulated sample, stacked and filled by default.
func (p *DataMCHistogramPlot) AddMCComponent(label string, values []float64, opts ComponentOptions) error {
	if p.data != nil && p.data.Label == label {
		return fmt.Errorf("%w: %q is the data component", ErrDuplicateLabel, label)
	}
	return p.add(label, values, opts, Stacked, Filled, Filled, Line)
}

// AddDataComponent registers the observed sample. Only one is allowed; it
// is drawn as black points unless opts.Color is set.
func (p *DataMCHistogramPlot) AddDataComponent(label string, values []float64, opts ComponentOptions) error {
	if p.rendered {
		return fmt.Errorf("component %q: %w", label, ErrComposerFinalized)
	}
	if p.data != nil {
		return fmt.Errorf("component %q: %w: %q", label, ErrDataComponentSet, p.data.Label)
	}
	if p.components.Has(label) {
		return fmt.Errorf("%w: %q is an MC component", ErrDuplicateLabel, label)
	}
	comp, err := newComponent(label, values, opts, Overlaid, Point, []Style{Point})
	if err != nil {
		return err
	}
	if comp.Color == nil {
		comp.Color = color.Black
	}
	p.data = &comp
	monitoring.Logf("hist: set data component %q of %s (%d values)", label, p.variable.Name(), len(values))
	return nil
}

// Data returns a copy of the data component.
func (p *DataMCHistogramPlot) Data() (Component, bool) {
	if p.data == nil {
		return Component{}, false
	}
	return p.data.clone(), true
}

// PlotOn draws the comparison onto main and the ratio onto ratio. A nil
// ratio surface skips the ratio panel. Components cannot be added after a
// successful render.
func (p *DataMCHistogramPlot) PlotOn(main, ratio canvas.Surface, opts DataMCOptions) error {
	if p.data == nil || p.components.Len() == 0 {
		return ErrMissingComponent
	}
	if err := p.plotOn(main, ratio, opts); err != nil {
		return err
	}
	p.rendered = true
	return nil
}

func (p *DataMCHistogramPlot) plotOn(main, ratio canvas.Surface, opts DataMCOptions) error {
	mc := p.components.Values()
	switch opts.MCStyle {
	case MCStacked:
		if err := p.drawComponents(main, mc); err != nil {
			return err
		}
	case MCSummed:
		if err := p.drawSum(main, mc, opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown MC style %d", opts.MCStyle)
	}

	sum := total(p.variable, mc)
	sumErr := sum.Errors()
	low := make([]float64, len(sum.SumW))
	high := make([]float64, len(sum.SumW))
	for i, w := range sum.SumW {
		low[i] = math.Max(w-sumErr[i], 0)
		high[i] = w + sumErr[i]
	}
	if err := main.Band(canvas.Band{
		Label: uncertaintyLabel,
		Edges: p.variable.Edges(),
		Low:   low,
		High:  high,
		Fill:  uncertaintyFill,
	}); err != nil {
		return fmt.Errorf("draw MC uncertainty: %w", err)
	}

	data := Count(p.variable, p.data.Values, p.data.Weights)
	dataErr := data.Errors()
	centers := p.variable.Centers()
	halfWidths := make([]float64, len(centers))
	for i := range halfWidths {
		halfWidths[i] = p.variable.BinWidth() / 2
	}
	if err := main.Points(canvas.Points{
		Label: p.data.Label,
		X:     centers,
		Y:     data.SumW,
		XErr:  halfWidths,
		YErr:  dataErr,
		Color: p.data.Color,
	}); err != nil {
		return fmt.Errorf("draw data: %w", err)
	}

	p.decorate(main, opts.PlotOptions)
	if ratio == nil {
		return nil
	}
	if !opts.HideLabels {
		// The x label belongs under the ratio panel.
		main.SetXLabel("")
	}
	return p.drawRatio(ratio, data.SumW, dataErr, sum.SumW, sumErr, opts)
}

func (p *DataMCHistogramPlot) drawSum(s canvas.Surface, mc []Component, opts DataMCOptions) error {
	sum := total(p.variable, mc)
	fill := opts.SumColor
	if fill == nil {
		fill = style.Tango.SkyBlue
	}
	label := opts.SumLabel
	if label == "" {
		label = defaultSumLabel
	}
	return s.Band(canvas.Band{
		Label: label,
		Edges: p.variable.Edges(),
		Low:   make([]float64, len(sum.SumW)),
		High:  sum.SumW,
		Fill:  fill,
		Line:  edgeLine,
	})
}

// drawRatio draws data over summed MC with errors propagated from both.
// Bins without MC are NaN and leave a gap.
func (p *DataMCHistogramPlot) drawRatio(s canvas.Surface, data, dataErr, mc, mcErr []float64, opts DataMCOptions) error {
	r, rErr := Ratio(data, dataErr, mc, mcErr)

	sc := p.variable.Scope()
	if err := s.Curve(canvas.Curve{
		X:    []float64{sc.Min, sc.Max},
		Y:    []float64{1, 1},
		Line: referenceLine,
	}); err != nil {
		return fmt.Errorf("draw ratio reference: %w", err)
	}

	halfWidths := make([]float64, len(r))
	for i := range halfWidths {
		halfWidths[i] = p.variable.BinWidth() / 2
	}
	if err := s.Points(canvas.Points{
		X:     p.variable.Centers(),
		Y:     r,
		XErr:  halfWidths,
		YErr:  rErr,
		Color: p.data.Color,
	}); err != nil {
		return fmt.Errorf("draw ratio: %w", err)
	}

	rng := defaultRatioRange
	if opts.RatioRange != nil {
		rng = *opts.RatioRange
	}
	s.SetXRange(sc.Min, sc.Max)
	s.SetYRange(rng.Lo, rng.Hi)
	s.ShowLegend(false)
	if !opts.HideLabels {
		label := opts.RatioLabel
		if label == "" {
			label = defaultRatioLabel
		}
		s.SetXLabel(p.variable.XLabel())
		s.SetYLabel(label)
	}
	return nil
}
