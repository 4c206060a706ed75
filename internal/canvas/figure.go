package canvas

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrFormat is returned for output formats gonum/plot cannot write.
var ErrFormat = errors.New("unsupported output format")

const (
	// DefaultSizeInches is the width and height of a figure.
	DefaultSizeInches = 5.0
	// DefaultDPI is the resolution of raster output.
	DefaultDPI = 400
)

// Size is the physical size of a figure. Zero fields take the defaults.
type Size struct {
	WidthInches  float64
	HeightInches float64
	DPI          int
}

func (s Size) withDefaults() Size {
	if s.WidthInches <= 0 {
		s.WidthInches = DefaultSizeInches
	}
	if s.HeightInches <= 0 {
		s.HeightInches = DefaultSizeInches
	}
	if s.DPI <= 0 {
		s.DPI = DefaultDPI
	}
	return s
}

// Figure is a grid of axes rendered together. Row heights follow the row
// weights; all columns are equally wide.
type Figure struct {
	size       Size
	rows, cols int
	rowWeights []float64
	axes       [][]*Axes
	// sharedX maps a panel to the panel whose x range it follows.
	sharedX map[*Axes]*Axes
}

func newFigure(size Size, rows, cols int, weights []float64) *Figure {
	f := &Figure{
		size:       size.withDefaults(),
		rows:       rows,
		cols:       cols,
		rowWeights: weights,
		axes:       make([][]*Axes, rows),
		sharedX:    make(map[*Axes]*Axes),
	}
	for r := range f.axes {
		f.axes[r] = make([]*Axes, cols)
		for c := range f.axes[r] {
			f.axes[r][c] = NewAxes()
		}
	}
	return f
}

// NewSoloFigure returns a figure with a single set of axes.
func NewSoloFigure(size Size) (*Figure, *Axes) {
	f := newFigure(size, 1, 1, []float64{1})
	return f, f.axes[0][0]
}

// NewMultiFigure returns a rows x cols grid of axes, indexed [row][col].
func NewMultiFigure(rows, cols int, size Size) (*Figure, [][]*Axes, error) {
	if rows < 1 || cols < 1 {
		return nil, nil, fmt.Errorf("figure grid must be at least 1x1, got %dx%d", rows, cols)
	}
	weights := make([]float64, rows)
	for i := range weights {
		weights[i] = 1
	}
	f := newFigure(size, rows, cols, weights)
	return f, f.axes, nil
}

// NewHistRatioFigure returns a main panel above a ratio panel one 3.5th of
// its height. The ratio panel follows the main panel's x range.
func NewHistRatioFigure(size Size) (f *Figure, main, ratio *Axes) {
	f = newFigure(size, 2, 1, []float64{3.5, 1})
	main, ratio = f.axes[0][0], f.axes[1][0]
	f.sharedX[ratio] = main
	return f, main, ratio
}

// Size returns the figure size with defaults applied.
func (f *Figure) Size() Size { return f.size }

// Axes returns the panels indexed [row][col].
func (f *Figure) Axes() [][]*Axes { return f.axes }

// GridDimensions returns a rows x cols grid that fits n panels. Up to three
// panels sit in one row; more are laid out as close to square as possible
// with at least as many columns as rows.
func GridDimensions(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	if n <= 3 {
		return 1, n
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return rows, cols
}

// Draw renders every panel onto dc.
func (f *Figure) Draw(dc draw.Canvas) error {
	plots := make([][]*plot.Plot, f.rows)
	for r := range f.axes {
		plots[r] = make([]*plot.Plot, f.cols)
		for c, a := range f.axes[r] {
			if src, ok := f.sharedX[a]; ok {
				lo, hi := src.XRange()
				a.SetXRange(lo, hi)
			}
			p, err := a.Plot()
			if err != nil {
				return fmt.Errorf("panel %d,%d: %w", r, c, err)
			}
			plots[r][c] = p
		}
	}

	tiles := f.tiles(dc)
	for r := range tiles {
		for c := range tiles[r] {
			tiles[r][c] = reserveTitle(f.axes[r][c], plots[r][c], tiles[r][c])
		}
	}
	align(plots, tiles)

	for r := range plots {
		for c, p := range plots[r] {
			p.Draw(tiles[r][c])
			drawTitles(f.axes[r][c], p, tiles[r][c])
		}
	}
	return nil
}

const tilePad = vg.Length(2)

func (f *Figure) tiles(dc draw.Canvas) [][]draw.Canvas {
	total := 0.0
	for _, w := range f.rowWeights {
		total += w
	}
	width := dc.Max.X - dc.Min.X
	height := dc.Max.Y - dc.Min.Y
	colW := width / vg.Length(f.cols)

	out := make([][]draw.Canvas, f.rows)
	top := dc.Max.Y
	for r := 0; r < f.rows; r++ {
		rowH := height * vg.Length(f.rowWeights[r]/total)
		bottom := top - rowH
		out[r] = make([]draw.Canvas, f.cols)
		for c := 0; c < f.cols; c++ {
			x0 := dc.Min.X + vg.Length(c)*colW
			x1 := x0 + colW
			out[r][c] = draw.Crop(dc,
				x0-dc.Min.X+tilePad,
				-(dc.Max.X-x1)-tilePad,
				bottom-dc.Min.Y+tilePad,
				-(dc.Max.Y-top)-tilePad)
		}
		top = bottom
	}
	return out
}

func titleStyles(p *plot.Plot) (left, right text.Style) {
	left = p.Title.TextStyle
	left.Font.Weight = xfont.WeightBold
	left.Font.Size = p.Title.TextStyle.Font.Size * 1.2
	left.XAlign = text.XLeft
	left.YAlign = text.YBottom

	right = p.Title.TextStyle
	right.XAlign = text.XRight
	right.YAlign = text.YBottom
	return left, right
}

func reserveTitle(a *Axes, p *plot.Plot, c draw.Canvas) draw.Canvas {
	l, r := a.Titles()
	if l == "" && r == "" {
		return c
	}
	ls, rs := titleStyles(p)
	h := ls.Height(l)
	if rh := rs.Height(r); rh > h {
		h = rh
	}
	return draw.Crop(c, 0, 0, 0, -(h + vg.Points(4)))
}

func drawTitles(a *Axes, p *plot.Plot, c draw.Canvas) {
	l, r := a.Titles()
	if l == "" && r == "" {
		return
	}
	da := p.DataCanvas(c)
	ls, rs := titleStyles(p)
	y := da.Max.Y + vg.Points(3)
	if l != "" {
		c.FillText(ls, vg.Point{X: da.Min.X, Y: y}, l)
	}
	if r != "" {
		c.FillText(rs, vg.Point{X: da.Max.X, Y: y}, r)
	}
}

// align crops tiles so that data areas share their left and right edges
// within a column and their top and bottom edges within a row.
func align(plots [][]*plot.Plot, tiles [][]draw.Canvas) {
	rows := len(plots)
	if rows == 0 {
		return
	}
	cols := len(plots[0])

	left := make([]vg.Length, cols)
	right := make([]vg.Length, cols)
	bottom := make([]vg.Length, rows)
	top := make([]vg.Length, rows)
	type pad struct{ l, r, b, t vg.Length }
	pads := make([][]pad, rows)

	for r := range plots {
		pads[r] = make([]pad, cols)
		for c, p := range plots[r] {
			t := tiles[r][c]
			d := p.DataCanvas(t)
			pd := pad{
				l: d.Min.X - t.Min.X,
				r: t.Max.X - d.Max.X,
				b: d.Min.Y - t.Min.Y,
				t: t.Max.Y - d.Max.Y,
			}
			pads[r][c] = pd
			left[c] = max(left[c], pd.l)
			right[c] = max(right[c], pd.r)
			bottom[r] = max(bottom[r], pd.b)
			top[r] = max(top[r], pd.t)
		}
	}

	for r := range tiles {
		for c := range tiles[r] {
			pd := pads[r][c]
			tiles[r][c] = draw.Crop(tiles[r][c],
				left[c]-pd.l, -(right[c]-pd.r),
				bottom[r]-pd.b, -(top[r]-pd.t))
		}
	}
}

// WriteTo renders the figure in the given format ("png", ".pdf", ...) to w.
// Raster formats use the figure DPI.
func (f *Figure) WriteTo(w io.Writer, format string) (int64, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	width := vg.Length(f.size.WidthInches) * vg.Inch
	height := vg.Length(f.size.HeightInches) * vg.Inch

	var cw vg.CanvasWriterTo
	switch format {
	case "png", "jpg", "jpeg", "tif", "tiff":
		img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(f.size.DPI))
		switch format {
		case "png":
			cw = vgimg.PngCanvas{Canvas: img}
		case "jpg", "jpeg":
			cw = vgimg.JpegCanvas{Canvas: img}
		default:
			cw = vgimg.TiffCanvas{Canvas: img}
		}
	case "pdf", "svg", "eps", "tex":
		var err error
		cw, err = draw.NewFormattedCanvas(width, height, format)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %v", ErrFormat, format, err)
		}
	default:
		return 0, fmt.Errorf("%w %q", ErrFormat, format)
	}

	if err := f.Draw(draw.New(cw)); err != nil {
		return 0, err
	}
	return cw.WriteTo(w)
}
