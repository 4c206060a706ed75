package canvas

import (
	"image/color"
	"math"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func dashes(d Dash) []vg.Length {
	switch d {
	case Dashed:
		return []vg.Length{vg.Points(4), vg.Points(2)}
	case DashDot:
		return []vg.Length{vg.Points(4), vg.Points(2), vg.Points(1), vg.Points(2)}
	case Dotted:
		return []vg.Length{vg.Points(1), vg.Points(2)}
	}
	return nil
}

func lineStyle(s LineStyle) draw.LineStyle {
	return draw.LineStyle{Color: s.Color, Width: vg.Points(s.Width), Dashes: dashes(s.Dash)}
}

func isLog(p *plot.Plot) bool {
	_, ok := p.Y.Scale.(plot.LogScale)
	return ok
}

// floorY keeps non-positive values on a log axis at the bottom of the axis.
func floorY(p *plot.Plot, y float64) float64 {
	if isLog(p) && y <= p.Y.Min {
		return p.Y.Min
	}
	return y
}

// bandPlotter draws a binned series between two step contours.
type bandPlotter struct {
	edges     []float64
	low, high []float64
	fill      color.Color
	line      draw.LineStyle
}

func (b *bandPlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	n := len(b.high)

	if b.fill != nil {
		pts := make([]vg.Point, 0, 4*n)
		for i := 0; i < n; i++ {
			y := trY(floorY(p, b.high[i]))
			pts = append(pts, vg.Point{X: trX(b.edges[i]), Y: y}, vg.Point{X: trX(b.edges[i+1]), Y: y})
		}
		for i := n - 1; i >= 0; i-- {
			y := trY(floorY(p, b.low[i]))
			pts = append(pts, vg.Point{X: trX(b.edges[i+1]), Y: y}, vg.Point{X: trX(b.edges[i]), Y: y})
		}
		c.FillPolygon(b.fill, c.ClipPolygonXY(pts))
	}

	if b.line.Color != nil && b.line.Width > 0 {
		pts := make([]vg.Point, 0, 2*n+2)
		pts = append(pts, vg.Point{X: trX(b.edges[0]), Y: trY(floorY(p, b.low[0]))})
		for i := 0; i < n; i++ {
			y := trY(floorY(p, b.high[i]))
			pts = append(pts, vg.Point{X: trX(b.edges[i]), Y: y}, vg.Point{X: trX(b.edges[i+1]), Y: y})
		}
		pts = append(pts, vg.Point{X: trX(b.edges[n]), Y: trY(floorY(p, b.low[n-1]))})
		c.StrokeLines(b.line, c.ClipLinesXY(pts)...)
	}
}

func (b *bandPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = b.edges[0], b.edges[len(b.edges)-1]
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for i := range b.high {
		for _, y := range []float64{b.low[i], b.high[i]} {
			if math.IsNaN(y) {
				continue
			}
			ymin = math.Min(ymin, y)
			ymax = math.Max(ymax, y)
		}
	}
	if ymin > ymax {
		ymin, ymax = 0, 0
	}
	return xmin, xmax, ymin, ymax
}

func (b *bandPlotter) Thumbnail(c *draw.Canvas) {
	if b.fill != nil {
		pts := []vg.Point{
			{X: c.Min.X, Y: c.Min.Y},
			{X: c.Min.X, Y: c.Max.Y},
			{X: c.Max.X, Y: c.Max.Y},
			{X: c.Max.X, Y: c.Min.Y},
		}
		c.FillPolygon(b.fill, c.ClipPolygonY(pts))
	}
	if b.line.Color != nil && b.line.Width > 0 {
		y := c.Center().Y
		if b.fill != nil {
			y = c.Max.Y
		}
		c.StrokeLine2(b.line, c.Min.X, y, c.Max.X, y)
	}
}

// boxPlotter draws one shaded rectangle per point spanning its errors.
type boxPlotter struct {
	x, y, xerr, yerr []float64
	fill             color.Color
	edge             draw.LineStyle
}

func (b *boxPlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for i := range b.x {
		x0, x1 := trX(b.x[i]-b.xerr[i]), trX(b.x[i]+b.xerr[i])
		y0, y1 := trY(floorY(p, b.y[i]-b.yerr[i])), trY(floorY(p, b.y[i]+b.yerr[i]))
		rect := []vg.Point{{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}}
		c.FillPolygon(b.fill, c.ClipPolygonXY(rect))
		if b.edge.Color != nil {
			c.StrokeLines(b.edge, c.ClipLinesXY(append(rect, rect[0]))...)
		}
	}
}

func (b *boxPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for i := range b.x {
		xmin = math.Min(xmin, b.x[i]-b.xerr[i])
		xmax = math.Max(xmax, b.x[i]+b.xerr[i])
		ymin = math.Min(ymin, b.y[i]-b.yerr[i])
		ymax = math.Max(ymax, b.y[i]+b.yerr[i])
	}
	return xmin, xmax, ymin, ymax
}

func (b *boxPlotter) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.fill, c.ClipPolygonY(pts))
}

// spanPlotter shades the full height of the data area between two x values.
type spanPlotter struct {
	x0, x1 float64
	fill   color.Color
}

func (s *spanPlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	x0, x1 := trX(s.x0), trX(s.x1)
	pts := []vg.Point{{X: x0, Y: c.Min.Y}, {X: x0, Y: c.Max.Y}, {X: x1, Y: c.Max.Y}, {X: x1, Y: c.Min.Y}}
	c.FillPolygon(s.fill, c.ClipPolygonX(pts))
}

// rulePlotter draws a vertical line across the data area.
type rulePlotter struct {
	x    float64
	line draw.LineStyle
}

func (r *rulePlotter) Plot(c draw.Canvas, p *plot.Plot) {
	trX, _ := p.Transforms(&c)
	x := trX(r.x)
	c.StrokeLines(r.line, c.ClipLinesX([]vg.Point{{X: x, Y: c.Min.Y}, {X: x, Y: c.Max.Y}})...)
}

func (r *rulePlotter) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(r.line, c.Min.X, y, c.Max.X, y)
}

// notePlotter writes bold text at a fractional position of the data area.
type notePlotter struct {
	text   string
	fx, fy float64
}

func (n *notePlotter) Plot(c draw.Canvas, p *plot.Plot) {
	sty := p.Legend.TextStyle
	sty.Font.Weight = xfont.WeightBold
	sty.XAlign = text.XLeft
	sty.YAlign = text.YTop
	pt := vg.Point{
		X: c.Min.X + vg.Length(n.fx)*(c.Max.X-c.Min.X) + vg.Points(4),
		Y: c.Min.Y + vg.Length(n.fy)*(c.Max.Y-c.Min.Y) - vg.Points(4),
	}
	c.FillText(sty, pt, n.text)
}
