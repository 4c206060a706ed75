package canvas

import "image/color"

// Span is a recorded VSpan call.
type Span struct {
	X0, X1 float64
	Fill   color.Color
}

// Rule is a recorded VLine call.
type Rule struct {
	X     float64
	Line  LineStyle
	Label string
}

// Annotation is a recorded Annotate call.
type Annotation struct {
	Text   string
	FX, FY float64
}

// Recorder is a Surface that keeps every call in memory. It is used in tests
// and to inspect what a composer would draw.
type Recorder struct {
	Bands       []Band
	PointSets   []Points
	Curves      []Curve
	Spans       []Span
	Rules       []Rule
	Annotations []Annotation

	XLabel, YLabel string
	XMin, XMax     float64
	YMin, YMax     float64
	YRangeSet      bool
	Headroom       float64
	LogY           bool
	LeftTitle      string
	RightTitle     string
	LegendShown    bool
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder with the legend shown and a unit x
// range.
func NewRecorder() *Recorder {
	return &Recorder{XMax: 1, Headroom: 1, LegendShown: true}
}

// Band records b.
func (r *Recorder) Band(b Band) error {
	if err := b.validate(); err != nil {
		return err
	}
	r.Bands = append(r.Bands, b)
	return nil
}

// Points records p.
func (r *Recorder) Points(p Points) error {
	if err := p.validate(); err != nil {
		return err
	}
	r.PointSets = append(r.PointSets, p)
	return nil
}

// Curve records c.
func (r *Recorder) Curve(c Curve) error {
	if err := c.validate(); err != nil {
		return err
	}
	r.Curves = append(r.Curves, c)
	return nil
}

// VSpan records a shaded span.
func (r *Recorder) VSpan(x0, x1 float64, fill color.Color) {
	r.Spans = append(r.Spans, Span{X0: x0, X1: x1, Fill: fill})
}

// VLine records a vertical rule.
func (r *Recorder) VLine(x float64, line LineStyle, label string) {
	r.Rules = append(r.Rules, Rule{X: x, Line: line, Label: label})
}

// SetXLabel records the x axis label.
func (r *Recorder) SetXLabel(text string) { r.XLabel = text }

// SetYLabel records the y axis label.
func (r *Recorder) SetYLabel(text string) { r.YLabel = text }

// SetXRange records the x range.
func (r *Recorder) SetXRange(lo, hi float64) {
	r.XMin, r.XMax = lo, hi
}

// XRange returns the last recorded x range.
func (r *Recorder) XRange() (float64, float64) { return r.XMin, r.XMax }

// SetYRange records a fixed y range.
func (r *Recorder) SetYRange(lo, hi float64) {
	r.YMin, r.YMax = lo, hi
	r.YRangeSet = true
}

// SetYHeadroom records the y headroom factor.
func (r *Recorder) SetYHeadroom(f float64) { r.Headroom = f }

// SetLogY records whether the y axis is logarithmic.
func (r *Recorder) SetLogY(log bool) { r.LogY = log }

// SetTitles records the left and right titles.
func (r *Recorder) SetTitles(left, right string) {
	r.LeftTitle, r.RightTitle = left, right
}

// Annotate records a text annotation in axes fractions.
func (r *Recorder) Annotate(text string, fx, fy float64) {
	r.Annotations = append(r.Annotations, Annotation{Text: text, FX: fx, FY: fy})
}

// ShowLegend records the legend visibility.
func (r *Recorder) ShowLegend(show bool) {
	r.LegendShown = show
}

// BandByLabel returns the recorded band with the given label.
func (r *Recorder) BandByLabel(label string) (Band, bool) {
	for _, b := range r.Bands {
		if b.Label == label {
			return b, true
		}
	}
	return Band{}, false
}
