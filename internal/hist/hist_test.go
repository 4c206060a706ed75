package hist

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wg1plot/internal/binning"
	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func mustVariable(t *testing.T, bins int, lo, hi float64) Variable {
	t.Helper()
	v, err := NewVariable(VariableConfig{Name: "p", DisplayName: "Momentum", Unit: "GeV", Bins: bins, Scope: Scope{Min: lo, Max: hi}})
	require.NoError(t, err)
	return v
}

func TestNewVariable(t *testing.T) {
	v := mustVariable(t, 4, 0, 2)
	assert.Equal(t, "Momentum in GeV", v.XLabel())
	assert.Equal(t, "Candidates / (0.50 GeV)", v.YLabel("Candidates"))
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, v.Edges())
	assert.Equal(t, []float64{0.25, 0.75, 1.25, 1.75}, v.Centers())
	assert.Equal(t, 0.5, v.BinWidth())

	plain, err := NewVariable(VariableConfig{Name: "nTracks", Bins: 2, Scope: Scope{Max: 4}})
	require.NoError(t, err)
	assert.Equal(t, "nTracks", plain.XLabel())
	assert.Equal(t, "Events / 2.00", plain.YLabel("Events"))

	_, err = NewVariable(VariableConfig{Name: "x", Bins: 0, Scope: Scope{Max: 1}})
	assert.True(t, errors.Is(err, ErrInvalidVariable))
	_, err = NewVariable(VariableConfig{Name: "x", Bins: 3, Scope: Scope{Min: 1, Max: 1}})
	assert.True(t, errors.Is(err, ErrInvalidVariable))
}

func TestVariableFromBinning(t *testing.T) {
	v, err := VariableFromBinning(VariableConfig{Name: "n", Bins: 99}, binning.Binning{Bins: 3, Min: 1, Max: 4})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Bins())
	assert.Equal(t, Scope{Min: 1, Max: 4}, v.Scope())
}

func TestCount(t *testing.T) {
	v := mustVariable(t, 2, 0, 2)
	values := []float64{1.5, 2, 0.5, 0, -1, 2.5, math.NaN(), 1}
	weights := []float64{2, 1, 1, 3, 9, 9, 9, 0.5}

	c := Count(v, values, weights)
	assert.Equal(t, []float64{4, 3.5}, c.SumW)
	assert.Equal(t, []float64{10, 5.25}, c.SumW2)

	unit := Count(v, values, nil)
	assert.Equal(t, []float64{2, 3}, unit.SumW)
	assert.InDeltaSlice(t, []float64{math.Sqrt2, math.Sqrt(3)}, unit.Errors(), 1e-12)

	// Input order is untouched.
	assert.Equal(t, 1.5, values[0])
}

func TestRatio(t *testing.T) {
	r, rErr := Ratio([]float64{2, 1, 3}, []float64{1, 1, 1}, []float64{4, 1, 0}, []float64{0, 1, 0})
	assert.Equal(t, 0.5, r[0])
	assert.Equal(t, 0.25, rErr[0])
	assert.Equal(t, 1.0, r[1])
	assert.InDelta(t, math.Sqrt2, rErr[1], 1e-12)
	assert.True(t, math.IsNaN(r[2]))
	assert.True(t, math.IsNaN(rErr[2]))
}

func TestSimpleHistogramPlot(t *testing.T) {
	v := mustVariable(t, 2, 0, 2)
	p := NewSimpleHistogramPlot(v)

	require.NoError(t, p.AddComponent("A", []float64{0.5, 1.5, 1.5}, ComponentOptions{}))
	require.NoError(t, p.AddComponent("B", []float64{0.5}, ComponentOptions{Color: color.Black, Style: Filled}))

	r := canvas.NewRecorder()
	require.NoError(t, p.PlotOn(r, PlotOptions{YLabel: "Candidates"}))

	require.Len(t, r.Bands, 2)
	a := r.Bands[0]
	assert.Equal(t, "A", a.Label)
	assert.Equal(t, []float64{0, 0}, a.Low)
	assert.Equal(t, []float64{1, 2}, a.High)
	assert.Nil(t, a.Fill)
	assert.Equal(t, 1.5, a.Line.Width)
	assert.Equal(t, color.Black, r.Bands[1].Fill)

	assert.Equal(t, "Momentum in GeV", r.XLabel)
	assert.Equal(t, "Candidates / (1.00 GeV)", r.YLabel)
	assert.Equal(t, 1.3, r.Headroom)
	assert.Equal(t, 0.0, r.XMin)
	assert.Equal(t, 2.0, r.XMax)
	assert.True(t, r.LegendShown)
	assert.True(t, p.Rendered())
}

func TestAddComponent_Errors(t *testing.T) {
	v := mustVariable(t, 2, 0, 2)
	p := NewSimpleHistogramPlot(v)
	require.NoError(t, p.AddComponent("A", []float64{1}, ComponentOptions{}))

	cases := []struct {
		name   string
		label  string
		values []float64
		opts   ComponentOptions
		want   error
	}{
		{"duplicate", "A", []float64{1}, ComponentOptions{}, ErrDuplicateLabel},
		{"length", "B", []float64{1, 2}, ComponentOptions{Weights: []float64{1}}, ErrLengthMismatch},
		{"negative weight", "B", []float64{1}, ComponentOptions{Weights: []float64{-1}}, ErrInvalidWeight},
		{"style", "B", []float64{1}, ComponentOptions{Style: Point}, ErrInvalidStyle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.AddComponent(tc.label, tc.values, tc.opts)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Len(t, p.Components(), 1)
		})
	}
}

func TestComponentsAreCopied(t *testing.T) {
	v := mustVariable(t, 2, 0, 2)
	p := NewStackedHistogramPlot(v)
	values := []float64{0.5, 1.5}
	weights := []float64{1, 2}
	require.NoError(t, p.AddComponent("A", values, ComponentOptions{Weights: weights}))
	values[0] = 1.9
	weights[0] = 7

	comps := p.Components()
	require.Len(t, comps, 1)
	assert.Equal(t, []float64{0.5, 1.5}, comps[0].Values)
	assert.Equal(t, []float64{1, 2}, comps[0].Weights)
	comps[0].Values[0] = 42
	assert.Equal(t, 0.5, p.Components()[0].Values[0])

	require.NoError(t, p.AddComponent("B", []float64{0.5}, ComponentOptions{}))
	assert.Equal(t, []float64{1}, p.Components()[1].Weights)
}

func TestStackedHistogramPlot_SumsToTotal(t *testing.T) {
	v := mustVariable(t, 4, 0, 4)
	p := NewStackedHistogramPlot(v)
	require.NoError(t, p.AddComponent("bkg", []float64{0.1, 0.2, 1.5, 2.5, 3.5, 3.9}, ComponentOptions{}))
	require.NoError(t, p.AddComponent("sig", []float64{1.1, 1.2, 2.2}, ComponentOptions{Weights: []float64{0.5, 0.5, 2}}))
	require.NoError(t, p.AddComponent("other", []float64{0.5, 3.5}, ComponentOptions{Weights: []float64{1.25, 0.75}}))

	r := canvas.NewRecorder()
	require.NoError(t, p.PlotOn(r, PlotOptions{}))
	require.Len(t, r.Bands, 3)

	for i := 1; i < len(r.Bands); i++ {
		assert.Equal(t, r.Bands[i-1].High, r.Bands[i].Low, "band %d sits on band %d", i, i-1)
	}
	assert.Equal(t, []float64{0, 0, 0, 0}, r.Bands[0].Low)
	assert.InDeltaSlice(t, p.Total().SumW, r.Bands[2].High, 1e-12)
	assert.InDeltaSlice(t, []float64{3.25, 2, 3, 2.75}, r.Bands[2].High, 1e-12)

	var values, weights []float64
	for _, c := range p.Components() {
		values = append(values, c.Values...)
		weights = append(weights, c.Weights...)
	}
	assert.InDeltaSlice(t, Count(v, values, weights).SumW, r.Bands[2].High, 1e-12)

	for _, b := range r.Bands {
		assert.NotNil(t, b.Fill)
		assert.Equal(t, 0.5, b.Line.Width)
	}
}

// failingSurface rejects every band and point set.
type failingSurface struct{ *canvas.Recorder }

func (failingSurface) Band(canvas.Band) error     { return errors.New("surface closed") }
func (failingSurface) Points(canvas.Points) error { return errors.New("surface closed") }

func TestComposer_FailedRenderDoesNotFinalize(t *testing.T) {
	v := mustVariable(t, 2, 0, 2)
	broken := failingSurface{canvas.NewRecorder()}

	simple := NewSimpleHistogramPlot(v)
	require.NoError(t, simple.AddComponent("A", []float64{0.5}, ComponentOptions{Style: Filled}))
	require.Error(t, simple.PlotOn(broken, PlotOptions{}))
	assert.False(t, simple.Rendered())
	require.NoError(t, simple.AddComponent("B", []float64{1.5}, ComponentOptions{}))

	stacked := NewStackedHistogramPlot(v)
	require.NoError(t, stacked.AddComponent("A", []float64{0.5}, ComponentOptions{}))
	require.Error(t, stacked.PlotOn(broken, PlotOptions{}))
	assert.False(t, stacked.Rendered())
	require.NoError(t, stacked.AddComponent("B", []float64{1.5}, ComponentOptions{}))

	dm := NewDataMCHistogramPlot(v)
	require.NoError(t, dm.AddMCComponent("MC", []float64{0.5, 1.5}, ComponentOptions{}))
	require.NoError(t, dm.AddDataComponent("Data", []float64{0.5}, ComponentOptions{}))
	require.Error(t, dm.PlotOn(broken, nil, DataMCOptions{}))
	assert.False(t, dm.Rendered())
	require.NoError(t, dm.AddMCComponent("MC2", []float64{1.5}, ComponentOptions{}))

	require.NoError(t, dm.PlotOn(canvas.NewRecorder(), nil, DataMCOptions{}))
	assert.True(t, dm.Rendered())
	err := dm.AddMCComponent("late", []float64{1}, ComponentOptions{})
	assert.True(t, errors.Is(err, ErrComposerFinalized))
}

func TestStackedHistogramPlot_OverlaidDrawsFromZero(t *testing.T) {
	v := mustVariable(t, 1, 0, 1)
	p := NewStackedHistogramPlot(v)
	require.NoError(t, p.AddComponent("A", []float64{0.5, 0.5}, ComponentOptions{}))
	require.NoError(t, p.AddComponent("B", []float64{0.5}, ComponentOptions{Mode: Overlaid, Style: Line, Dash: canvas.Dashed}))
	require.NoError(t, p.AddComponent("C", []float64{0.5}, ComponentOptions{}))

	r := canvas.NewRecorder()
	require.NoError(t, p.PlotOn(r, PlotOptions{HideLabels: true, HideLegend: true}))

	b, _ := r.BandByLabel("B")
	assert.Equal(t, []float64{0}, b.Low)
	assert.Equal(t, []float64{1}, b.High)
	assert.Equal(t, canvas.Dashed, b.Line.Dash)
	c, _ := r.BandByLabel("C")
	assert.Equal(t, []float64{2}, c.Low)
	assert.Equal(t, []float64{3}, c.High)

	assert.Empty(t, r.XLabel)
	assert.False(t, r.LegendShown)
}

func TestComposer_Finalized(t *testing.T) {
	v := mustVariable(t, 1, 0, 1)
	p := NewSimpleHistogramPlot(v)
	require.NoError(t, p.AddComponent("A", []float64{0.5}, ComponentOptions{}))
	require.NoError(t, p.PlotOn(canvas.NewRecorder(), PlotOptions{}))

	err := p.AddComponent("B", []float64{0.5}, ComponentOptions{})
	assert.True(t, errors.Is(err, ErrComposerFinalized))
	assert.Len(t, p.Components(), 1)

	// Drawing again gives the same picture.
	first, second := canvas.NewRecorder(), canvas.NewRecorder()
	require.NoError(t, p.PlotOn(first, PlotOptions{}))
	require.NoError(t, p.PlotOn(second, PlotOptions{}))
	assert.Empty(t, cmp.Diff(first.Bands, second.Bands, cmp.Comparer(func(a, b color.Color) bool { return a == b })))
}

func newDataMC(t *testing.T) *DataMCHistogramPlot {
	t.Helper()
	v := mustVariable(t, 3, 0, 3)
	p := NewDataMCHistogramPlot(v)
	require.NoError(t, p.AddMCComponent("bkg", []float64{0.5, 1.5, 1.5}, ComponentOptions{}))
	require.NoError(t, p.AddMCComponent("sig", []float64{0.5}, ComponentOptions{Weights: []float64{2}}))
	require.NoError(t, p.AddDataComponent("Data", []float64{0.5, 0.5, 1.5, 2.5, 3.5}, ComponentOptions{}))
	return p
}

func TestDataMC_Render(t *testing.T) {
	p := newDataMC(t)
	main, ratio := canvas.NewRecorder(), canvas.NewRecorder()
	require.NoError(t, p.PlotOn(main, ratio, DataMCOptions{}))

	require.Len(t, main.Bands, 3)
	assert.Equal(t, []float64{3, 2, 0}, main.Bands[1].High)
	unc, ok := main.BandByLabel("MC stat. unc.")
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{3 + math.Sqrt(5), 2 + math.Sqrt2, 0}, unc.High, 1e-12)
	assert.InDeltaSlice(t, []float64{3 - math.Sqrt(5), 2 - math.Sqrt2, 0}, unc.Low, 1e-12)

	require.Len(t, main.PointSets, 1)
	data := main.PointSets[0]
	assert.Equal(t, "Data", data.Label)
	assert.Equal(t, []float64{2, 1, 1}, data.Y)
	assert.InDeltaSlice(t, []float64{math.Sqrt2, 1, 1}, data.YErr, 1e-12)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, data.XErr)
	assert.Equal(t, color.Black, data.Color)
	assert.Empty(t, main.XLabel)
	assert.Equal(t, "Events / (1.00 GeV)", main.YLabel)

	require.Len(t, ratio.PointSets, 1)
	rp := ratio.PointSets[0]
	assert.InDelta(t, 2.0/3, rp.Y[0], 1e-12)
	assert.InDelta(t, 0.5, rp.Y[1], 1e-12)
	assert.True(t, math.IsNaN(rp.Y[2]), "no MC in the last bin")
	assert.InDelta(t, math.Hypot(math.Sqrt2/3, (2.0/3)*math.Sqrt(5)/3), rp.YErr[0], 1e-12)

	require.Len(t, ratio.Curves, 1)
	assert.Equal(t, []float64{1, 1}, ratio.Curves[0].Y)
	assert.True(t, ratio.YRangeSet)
	assert.Equal(t, 0.5, ratio.YMin)
	assert.Equal(t, 1.5, ratio.YMax)
	assert.Equal(t, "Momentum in GeV", ratio.XLabel)
	assert.Equal(t, "Data / MC", ratio.YLabel)
	assert.False(t, ratio.LegendShown)
}

func TestDataMC_Summed(t *testing.T) {
	p := newDataMC(t)
	main := canvas.NewRecorder()
	require.NoError(t, p.PlotOn(main, nil, DataMCOptions{MCStyle: MCSummed, RatioRange: &canvas.Window{Lo: 0, Hi: 2}}))

	require.Len(t, main.Bands, 2)
	assert.Equal(t, "MC", main.Bands[0].Label)
	assert.Equal(t, []float64{3, 2, 0}, main.Bands[0].High)
	assert.Equal(t, "Momentum in GeV", main.XLabel)
}

func TestDataMC_Errors(t *testing.T) {
	v := mustVariable(t, 1, 0, 1)
	p := NewDataMCHistogramPlot(v)

	err := p.PlotOn(canvas.NewRecorder(), canvas.NewRecorder(), DataMCOptions{})
	assert.True(t, errors.Is(err, ErrMissingComponent))

	require.NoError(t, p.AddDataComponent("Data", []float64{0.5}, ComponentOptions{}))
	err = p.PlotOn(canvas.NewRecorder(), canvas.NewRecorder(), DataMCOptions{})
	assert.True(t, errors.Is(err, ErrMissingComponent))

	err = p.AddDataComponent("Data2", []float64{0.5}, ComponentOptions{})
	assert.True(t, errors.Is(err, ErrDataComponentSet))

	err = p.AddMCComponent("Data", []float64{0.5}, ComponentOptions{})
	assert.True(t, errors.Is(err, ErrDuplicateLabel))

	err = p.AddMCComponent("MC", []float64{0.5}, ComponentOptions{Style: Box})
	assert.True(t, errors.Is(err, ErrInvalidStyle))

	require.NoError(t, p.AddMCComponent("MC", []float64{0.5}, ComponentOptions{}))
	require.NoError(t, p.PlotOn(canvas.NewRecorder(), canvas.NewRecorder(), DataMCOptions{}))

	err = p.AddMCComponent("late", []float64{0.5}, ComponentOptions{})
	assert.True(t, errors.Is(err, ErrComposerFinalized))

	d, ok := p.Data()
	require.True(t, ok)
	assert.Equal(t, "Data", d.Label)
}

func TestDataMC_OnFigure(t *testing.T) {
	p := newDataMC(t)
	fig, main, ratio := canvas.NewHistRatioFigure(canvas.Size{WidthInches: 4, HeightInches: 4, DPI: 40})
	require.NoError(t, p.PlotOn(main, ratio, DataMCOptions{}))
	canvas.AddDescriptions(main, canvas.Descriptions{Experiment: "Belle II", Luminosity: "1 fb^-1"})

	var buf bytes.Buffer
	_, err := fig.WriteTo(&buf, "png")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
