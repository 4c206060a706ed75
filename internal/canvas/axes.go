package canvas

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SeriesKind tells an exporter how a Series was drawn.
type SeriesKind int

const (
	HistSeries SeriesKind = iota
	PointSeries
	CurveSeries
)

// Series is the data behind one labelled drawing call. Histograms report
// bin centers and their upper contour.
type Series struct {
	Label string
	Kind  SeriesKind
	X, Y  []float64
	YErr  []float64
	Color color.Color
}

// item is one drawing call. Plotters are built at render time so that log
// axes can drop points they cannot show.
type item struct {
	label  string
	build  func(logY bool) ([]plot.Plotter, []plot.Thumbnailer, error)
	series *Series
}

// Axes is a Surface backed by gonum/plot. It only records calls; the
// gonum plot is built afresh by Plot, so an Axes can be rendered many times.
type Axes struct {
	items []item
	notes []*notePlotter

	xLabel, yLabel string
	xFixed, yFixed bool
	xMin, xMax     float64
	yMin, yMax     float64
	headroom       float64
	logY           bool
	minPositive    float64

	leftTitle, rightTitle string
	legend                bool
}

var _ Surface = (*Axes)(nil)

// NewAxes returns empty axes with the legend shown.
func NewAxes() *Axes {
	return &Axes{headroom: 1, legend: true, minPositive: math.Inf(1)}
}

func (a *Axes) trackPositive(ys ...[]float64) {
	for _, s := range ys {
		for _, y := range s {
			if y > 0 && y < a.minPositive {
				a.minPositive = y
			}
		}
	}
}

// Band draws a binned series.
func (a *Axes) Band(b Band) error {
	if err := b.validate(); err != nil {
		return err
	}
	bp := &bandPlotter{
		edges: append([]float64(nil), b.Edges...),
		low:   append([]float64(nil), b.Low...),
		high:  append([]float64(nil), b.High...),
		fill:  b.Fill,
	}
	if b.Line.visible() {
		bp.line = lineStyle(b.Line)
	}
	a.trackPositive(bp.high)

	centers := make([]float64, len(bp.high))
	for i := range centers {
		centers[i] = (bp.edges[i] + bp.edges[i+1]) / 2
	}
	clr := b.Fill
	if clr == nil {
		clr = b.Line.Color
	}

	a.items = append(a.items, item{
		label: b.Label,
		build: func(bool) ([]plot.Plotter, []plot.Thumbnailer, error) {
			return []plot.Plotter{bp}, []plot.Thumbnailer{bp}, nil
		},
		series: &Series{Label: b.Label, Kind: HistSeries, X: centers, Y: bp.high, Color: clr},
	})
	return nil
}

// Points draws measurements. NaN values are left out.
func (a *Axes) Points(p Points) error {
	if err := p.validate(); err != nil {
		return err
	}

	var x, y, xerr, yerr []float64
	for i := range p.X {
		if math.IsNaN(p.X[i]) || math.IsNaN(p.Y[i]) {
			continue
		}
		x = append(x, p.X[i])
		y = append(y, p.Y[i])
		xerr = append(xerr, errAt(p.XErr, i))
		yerr = append(yerr, errAt(p.YErr, i))
	}
	a.trackPositive(y)

	clr := p.Color
	if clr == nil {
		clr = color.Black
	}

	build := func(logY bool) ([]plot.Plotter, []plot.Thumbnailer, error) {
		if p.Boxed {
			bx := &boxPlotter{x: x, y: y, xerr: xerr, yerr: yerr, fill: withAlpha(clr, 0.6)}
			return []plot.Plotter{bx}, []plot.Thumbnailer{bx}, nil
		}
		return errorBars(x, y, xerr, yerr, clr, logY)
	}

	a.items = append(a.items, item{
		label:  p.Label,
		build:  build,
		series: &Series{Label: p.Label, Kind: PointSeries, X: x, Y: y, YErr: yerr, Color: clr},
	})
	return nil
}

func errAt(errs []float64, i int) float64 {
	if errs == nil || math.IsNaN(errs[i]) {
		return 0
	}
	return errs[i]
}

func withAlpha(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(alpha*255 + 0.5)
	return n
}

func errorBars(x, y, xerr, yerr []float64, clr color.Color, logY bool) ([]plot.Plotter, []plot.Thumbnailer, error) {
	type errPoints struct {
		plotter.XYs
		plotter.XErrors
		plotter.YErrors
	}
	var pts errPoints
	for i := range x {
		if logY && y[i] <= 0 {
			continue
		}
		pts.XYs = append(pts.XYs, plotter.XY{X: x[i], Y: y[i]})
		pts.XErrors = append(pts.XErrors, struct{ Low, High float64 }{xerr[i], xerr[i]})
		pts.YErrors = append(pts.YErrors, struct{ Low, High float64 }{yerr[i], yerr[i]})
	}
	if len(pts.XYs) == 0 {
		return nil, nil, nil
	}

	scatter, err := plotter.NewScatter(pts.XYs)
	if err != nil {
		return nil, nil, err
	}
	scatter.GlyphStyle.Color = clr
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(1.5)

	ybars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, nil, err
	}
	ybars.LineStyle.Color = clr
	ybars.CapWidth = 0

	xbars, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return nil, nil, err
	}
	xbars.LineStyle.Color = clr
	xbars.CapWidth = 0

	return []plot.Plotter{ybars, xbars, scatter}, []plot.Thumbnailer{scatter}, nil
}

// Curve draws a polyline.
func (a *Axes) Curve(cv Curve) error {
	if err := cv.validate(); err != nil {
		return err
	}
	pts := make(plotter.XYs, len(cv.X))
	for i := range pts {
		pts[i] = plotter.XY{X: cv.X[i], Y: cv.Y[i]}
	}
	a.trackPositive(cv.Y)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	if cv.Line.visible() {
		line.LineStyle = lineStyle(cv.Line)
	}

	a.items = append(a.items, item{
		label: cv.Label,
		build: func(bool) ([]plot.Plotter, []plot.Thumbnailer, error) {
			return []plot.Plotter{line}, []plot.Thumbnailer{line}, nil
		},
		series: &Series{Label: cv.Label, Kind: CurveSeries, X: append([]float64(nil), cv.X...), Y: append([]float64(nil), cv.Y...), Color: cv.Line.Color},
	})
	return nil
}

// VSpan shades the vertical span [x0, x1].
func (a *Axes) VSpan(x0, x1 float64, fill color.Color) {
	sp := &spanPlotter{x0: x0, x1: x1, fill: fill}
	a.items = append(a.items, item{
		build: func(bool) ([]plot.Plotter, []plot.Thumbnailer, error) {
			return []plot.Plotter{sp}, nil, nil
		},
	})
}

// VLine draws a vertical rule at x. A non-empty label enters the legend.
func (a *Axes) VLine(x float64, line LineStyle, label string) {
	rp := &rulePlotter{x: x, line: lineStyle(line)}
	a.items = append(a.items, item{
		label: label,
		build: func(bool) ([]plot.Plotter, []plot.Thumbnailer, error) {
			return []plot.Plotter{rp}, []plot.Thumbnailer{rp}, nil
		},
	})
}

// SetXLabel sets the x axis label.
func (a *Axes) SetXLabel(text string) { a.xLabel = text }

// SetYLabel sets the y axis label.
func (a *Axes) SetYLabel(text string) { a.yLabel = text }

// SetXRange fixes the x range.
func (a *Axes) SetXRange(lo, hi float64) {
	a.xFixed = true
	a.xMin, a.xMax = lo, hi
}

// XRange returns the fixed x range, or the extent of the data drawn so far.
func (a *Axes) XRange() (float64, float64) {
	if a.xFixed {
		return a.xMin, a.xMax
	}
	p, err := a.Plot()
	if err != nil {
		return 0, 1
	}
	return p.X.Min, p.X.Max
}

// SetYRange fixes the y range, overriding the headroom.
func (a *Axes) SetYRange(lo, hi float64) {
	a.yFixed = true
	a.yMin, a.yMax = lo, hi
}

// SetYHeadroom scales the automatic y maximum by f.
func (a *Axes) SetYHeadroom(f float64) {
	if f > 0 {
		a.headroom = f
	}
}

// SetLogY switches the y axis to a logarithmic scale.
func (a *Axes) SetLogY(log bool) { a.logY = log }

// SetTitles sets the titles above the left and right corners.
func (a *Axes) SetTitles(left, right string) {
	a.leftTitle, a.rightTitle = left, right
}

// Titles returns the texts set by SetTitles.
func (a *Axes) Titles() (left, right string) { return a.leftTitle, a.rightTitle }

// Annotate places text at fractions (fx, fy) of the data area.
func (a *Axes) Annotate(text string, fx, fy float64) {
	a.notes = append(a.notes, &notePlotter{text: text, fx: fx, fy: fy})
}

// ShowLegend turns the legend on or off.
func (a *Axes) ShowLegend(show bool) { a.legend = show }

// Labels returns the axis label texts.
func (a *Axes) Labels() (x, y string) { return a.xLabel, a.yLabel }

// Series returns the labelled data drawn on the axes in drawing order.
func (a *Axes) Series() []Series {
	var out []Series
	for _, it := range a.items {
		if it.series != nil {
			out = append(out, *it.series)
		}
	}
	return out
}

// Plot builds a gonum plot from everything drawn on the axes.
func (a *Axes) Plot() (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = a.xLabel
	p.Y.Label.Text = a.yLabel
	if a.logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	for _, it := range a.items {
		ps, thumbs, err := it.build(a.logY)
		if err != nil {
			return nil, err
		}
		p.Add(ps...)
		if a.legend && it.label != "" && len(thumbs) > 0 {
			p.Legend.Add(it.label, thumbs...)
		}
	}
	for _, n := range a.notes {
		p.Add(n)
	}

	a.applyRanges(p)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

func (a *Axes) applyRanges(p *plot.Plot) {
	if a.xFixed {
		p.X.Min, p.X.Max = a.xMin, a.xMax
	} else if p.X.Min > p.X.Max {
		p.X.Min, p.X.Max = 0, 1
	}

	if a.yFixed {
		p.Y.Min, p.Y.Max = a.yMin, a.yMax
		return
	}
	if p.Y.Min > p.Y.Max {
		p.Y.Min, p.Y.Max = 0, 1
	}

	if a.logY {
		if p.Y.Min <= 0 {
			p.Y.Min = 0.5
			if !math.IsInf(a.minPositive, 1) {
				p.Y.Min = a.minPositive / 2
			}
		}
		if p.Y.Max <= p.Y.Min {
			p.Y.Max = p.Y.Min * 10
		}
		p.Y.Max *= math.Pow(p.Y.Max/p.Y.Min, a.headroom-1)
		return
	}

	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	p.Y.Max = p.Y.Min + (p.Y.Max-p.Y.Min)*a.headroom
	if p.Y.Max == p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}
}
