package hist

import "github.com/banshee-data/wg1plot/internal/canvas"

// SimpleHistogramPlot draws each component as its own histogram, overlaid as
// step lines unless told otherwise.
type SimpleHistogramPlot struct {
	composer
}

// NewSimpleHistogramPlot returns an empty plot of v.
func NewSimpleHistogramPlot(v Variable) *SimpleHistogramPlot {
	return &SimpleHistogramPlot{composer: newComposer(v)}
}

// AddComponent registers a sample. Styles Line and Filled are supported;
// the default is an overlaid line.
func (p *SimpleHistogramPlot) AddComponent(label string, values []float64, opts ComponentOptions) error {
	return p.add(label, values, opts, Overlaid, Line, Line, Filled)
}

// PlotOn draws the components onto s. Components cannot be added after
// a successful render.
func (p *SimpleHistogramPlot) PlotOn(s canvas.Surface, opts PlotOptions) error {
	if err := p.drawComponents(s, p.components.Values()); err != nil {
		return err
	}
	p.decorate(s, opts)
	p.rendered = true
	return nil
}
