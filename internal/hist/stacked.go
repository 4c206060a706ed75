package hist

import "github.com/banshee-data/wg1plot/internal/canvas"

// StackedHistogramPlot stacks filled components bottom-up in registration
// order.
type StackedHistogramPlot struct {
	composer
}

// NewStackedHistogramPlot returns an empty stacked plot of v.
func NewStackedHistogramPlot(v Variable) *StackedHistogramPlot {
	return &StackedHistogramPlot{composer: newComposer(v)}
}

// AddComponent registers a sample, stacked and filled by default.
func (p *StackedHistogramPlot) AddComponent(label string, values []float64, opts ComponentOptions) error {
	return p.add(label, values, opts, Stacked, Filled, Filled, Line)
}

// PlotOn draws the stack onto s. Components cannot be added after
// a successful render.
func (p *StackedHistogramPlot) PlotOn(s canvas.Surface, opts PlotOptions) error {
	if err := p.drawComponents(s, p.components.Values()); err != nil {
		return err
	}
	p.decorate(s, opts)
	p.rendered = true
	return nil
}

// Total returns the per-bin sum of every component.
func (p *StackedHistogramPlot) Total() Counts {
	return total(p.variable, p.components.Values())
}

func total(v Variable, comps []Component) Counts {
	sum := Counts{SumW: make([]float64, v.Bins()), SumW2: make([]float64, v.Bins())}
	for _, comp := range comps {
		c := Count(v, comp.Values, comp.Weights)
		for i := range sum.SumW {
			sum.SumW[i] += c.SumW[i]
			sum.SumW2[i] += c.SumW2[i]
		}
	}
	return sum
}
