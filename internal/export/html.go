package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/style"
)

// WriteHTML renders one interactive scatter chart per panel of fig. Binned
// series are shown at their bin centers.
func WriteHTML(w io.Writer, fig Figure, title string) error {
	page := components.NewPage()
	page.PageTitle = title

	for r, row := range fig.Axes() {
		for c, ax := range row {
			page.AddCharts(panelChart(ax, fmt.Sprintf("%s [%d,%d]", title, r, c)))
		}
	}
	return page.Render(w)
}

func panelChart(ax *canvas.Axes, name string) *charts.Scatter {
	xLabel, yLabel := ax.Labels()
	left, right := ax.Titles()
	xMin, xMax := ax.XRange()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: name, Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: left, Subtitle: right}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: xMin, Max: xMax, Name: xLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel, NameLocation: "middle", NameGap: 40}),
	)

	for i, s := range ax.Series() {
		data := make([]opts.ScatterData, 0, len(s.X))
		for j := range s.X {
			if math.IsNaN(s.Y[j]) {
				continue
			}
			v := []interface{}{s.X[j], s.Y[j]}
			if s.YErr != nil {
				v = append(v, s.YErr[j])
			}
			data = append(data, opts.ScatterData{Value: v})
		}

		label := s.Label
		if label == "" {
			label = fmt.Sprintf("series %d", i)
		}
		size := 6
		if s.Kind == canvas.HistSeries {
			size = 9
		}
		seriesOpts := []charts.SeriesOpts{charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: size})}
		if s.Color != nil {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Hex(s.Color)}))
		}
		scatter.AddSeries(label, data, seriesOpts...)
	}
	return scatter
}
