package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/wg1plot/internal/binning"
	"github.com/banshee-data/wg1plot/internal/canvas"
	"github.com/banshee-data/wg1plot/internal/config"
	"github.com/banshee-data/wg1plot/internal/dataset"
	"github.com/banshee-data/wg1plot/internal/export"
	"github.com/banshee-data/wg1plot/internal/fsutil"
	"github.com/banshee-data/wg1plot/internal/hist"
	"github.com/banshee-data/wg1plot/internal/points"
	"github.com/banshee-data/wg1plot/internal/style"
)

// workspace resolves the sources of a configuration and caches the loaded
// tables.
type workspace struct {
	ctx     context.Context
	fsys    fsutil.FileSystem
	cfg     *config.PlotConfig
	baseDir string
	tables  map[string]dataset.Table
}

func loadWorkspace(ctx context.Context, fsys fsutil.FileSystem, path string) (*workspace, error) {
	cfg, err := config.LoadPlotConfig(fsys, path)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %s: %d sources, %d plots", path, len(cfg.Sources), len(cfg.Plots))
	return &workspace{
		ctx:     ctx,
		fsys:    fsys,
		cfg:     cfg,
		baseDir: filepath.Dir(path),
		tables:  make(map[string]dataset.Table),
	}, nil
}

// resolve interprets relative paths against the configuration directory.
func (w *workspace) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(w.baseDir, p)
}

func (w *workspace) table(name string) (dataset.Table, error) {
	if t, ok := w.tables[name]; ok {
		return t, nil
	}
	src, ok := w.cfg.Source(name)
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}

	var (
		t   dataset.Table
		err error
	)
	switch {
	case src.CSV != "":
		var data []byte
		data, err = w.fsys.ReadFile(w.resolve(src.CSV))
		if err == nil {
			t, err = dataset.ReadCSV(bytes.NewReader(data))
		}
	case src.XLSX != "":
		t, err = dataset.ReadXLSX(w.resolve(src.XLSX), src.Sheet)
	case src.SQLite != "":
		t, err = w.querySQLite(w.resolve(src.SQLite), src.Query)
	}
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", name, err)
	}
	log.Infof("loaded source %q with columns %v", name, t.Names())
	w.tables[name] = t
	return t, nil
}

func (w *workspace) querySQLite(path, query string) (dataset.Table, error) {
	if !w.fsys.Exists(path) {
		return nil, fmt.Errorf("database %s does not exist", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	return dataset.QuerySQLite(w.ctx, db, query)
}

func (w *workspace) column(source, name string) ([]float64, error) {
	t, err := w.table(source)
	if err != nil {
		return nil, err
	}
	col, err := t.Column(name)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", source, err)
	}
	return col.Values, nil
}

// estimate returns the compound binning of column over the named sources.
func (w *workspace) estimate(column string, sources []string) (binning.Binning, error) {
	tables := make(map[string]dataset.Table, len(sources))
	for _, s := range sources {
		t, err := w.table(s)
		if err != nil {
			return binning.Binning{}, err
		}
		tables[s] = t
	}
	return binning.EstimateCompound(tables, column, binning.Seed{})
}

func componentSources(p config.Plot) []string {
	var out []string
	for _, c := range p.Components {
		if !slices.Contains(out, c.Source) {
			out = append(out, c.Source)
		}
	}
	return out
}

// variable builds the histogram variable of p. Bins, min and max missing
// from the configuration are estimated from the plot's sources.
func (w *workspace) variable(p config.Plot) (hist.Variable, error) {
	v := p.Variable
	vc := hist.VariableConfig{Name: v.Column, DisplayName: v.DisplayName, Unit: v.Unit, LogY: v.LogY}
	if v.Bins != nil && v.Min != nil && v.Max != nil {
		vc.Bins = *v.Bins
		vc.Scope = hist.Scope{Min: *v.Min, Max: *v.Max}
		return hist.NewVariable(vc)
	}

	b, err := w.estimate(v.Column, componentSources(p))
	if err != nil {
		return hist.Variable{}, fmt.Errorf("plot %q: %w", p.Name, err)
	}
	if v.Bins != nil {
		b.Bins = *v.Bins
	}
	if v.Min != nil {
		b.Min = *v.Min
	}
	if v.Max != nil {
		b.Max = *v.Max
	}
	log.Debugf("plot %q: estimated %d bins in [%g, %g]", p.Name, b.Bins, b.Min, b.Max)
	return hist.VariableFromBinning(vc, b)
}

var (
	modes  = map[string]hist.Mode{"": hist.ModeDefault, "overlaid": hist.Overlaid, "stacked": hist.Stacked}
	styles = map[string]hist.Style{"": hist.StyleDefault, "line": hist.Line, "filled": hist.Filled, "point": hist.Point, "box": hist.Box}
	dashes = map[string]canvas.Dash{"": canvas.Solid, "solid": canvas.Solid, "dashed": canvas.Dashed, "dashdot": canvas.DashDot, "dotted": canvas.Dotted}
)

func parseColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	return style.Parse(s)
}

func (w *workspace) componentOptions(c config.Component) (hist.ComponentOptions, error) {
	clr, err := parseColor(c.Color)
	if err != nil {
		return hist.ComponentOptions{}, err
	}
	opts := hist.ComponentOptions{
		Color: clr,
		Mode:  modes[strings.ToLower(c.Mode)],
		Style: styles[strings.ToLower(c.Style)],
		Dash:  dashes[strings.ToLower(c.Dash)],
	}
	if c.LineWidth != nil {
		opts.LineWidth = *c.LineWidth
	}
	if c.WeightColumn != "" {
		opts.Weights, err = w.column(c.Source, c.WeightColumn)
		if err != nil {
			return hist.ComponentOptions{}, err
		}
	}
	return opts, nil
}

func plotOptions(p config.Plot) hist.PlotOptions {
	return hist.PlotOptions{YLabel: p.YLabel, YHeadroom: p.GetYHeadroom()}
}

func figureSize(cfg *config.PlotConfig) canvas.Size {
	return canvas.Size{
		WidthInches:  cfg.Figure.GetWidthInches(),
		HeightInches: cfg.Figure.GetHeightInches(),
		DPI:          cfg.Figure.GetDPI(),
	}
}

// histogramAdder is implemented by the simple and stacked composers.
type histogramAdder interface {
	AddComponent(label string, values []float64, opts hist.ComponentOptions) error
	PlotOn(s canvas.Surface, opts hist.PlotOptions) error
}

// build draws plot p into a new figure.
func (w *workspace) build(p config.Plot) (*canvas.Figure, error) {
	size := figureSize(w.cfg)
	switch p.Kind {
	case config.KindSimple, config.KindStacked:
		v, err := w.variable(p)
		if err != nil {
			return nil, err
		}
		var hp histogramAdder = hist.NewSimpleHistogramPlot(v)
		if p.Kind == config.KindStacked {
			hp = hist.NewStackedHistogramPlot(v)
		}
		for _, c := range p.Components {
			values, opts, err := w.histogramInput(p, c)
			if err != nil {
				return nil, err
			}
			if err := hp.AddComponent(c.Label, values, opts); err != nil {
				return nil, err
			}
		}
		fig, ax := canvas.NewSoloFigure(size)
		if err := hp.PlotOn(ax, plotOptions(p)); err != nil {
			return nil, err
		}
		return fig, decorate(ax, p)

	case config.KindDataMC:
		v, err := w.variable(p)
		if err != nil {
			return nil, err
		}
		dm := hist.NewDataMCHistogramPlot(v)
		for _, c := range p.Components {
			values, opts, err := w.histogramInput(p, c)
			if err != nil {
				return nil, err
			}
			if strings.EqualFold(c.Role, "data") {
				err = dm.AddDataComponent(c.Label, values, opts)
			} else {
				err = dm.AddMCComponent(c.Label, values, opts)
			}
			if err != nil {
				return nil, err
			}
		}
		rng := p.GetRatioRange()
		opts := hist.DataMCOptions{
			PlotOptions: plotOptions(p),
			RatioRange:  &canvas.Window{Lo: rng[0], Hi: rng[1]},
		}
		if strings.EqualFold(p.MCStyle, "summed") {
			opts.MCStyle = hist.MCSummed
		}
		fig, main, ratio := canvas.NewHistRatioFigure(size)
		if err := dm.PlotOn(main, ratio, opts); err != nil {
			return nil, err
		}
		return fig, decorate(main, p)

	case config.KindPoints:
		pp := points.NewDataPointsPlot(points.Variable{
			XName: p.Axes.XName, XUnit: p.Axes.XUnit,
			YName: p.Axes.YName, YUnit: p.Axes.YUnit,
		})
		for _, c := range p.Components {
			pts, err := w.points(c)
			if err != nil {
				return nil, err
			}
			clr, err := parseColor(c.Color)
			if err != nil {
				return nil, err
			}
			if err := pp.AddComponent(c.Label, pts, points.ComponentOptions{Color: clr, Style: styles[strings.ToLower(c.Style)]}); err != nil {
				return nil, err
			}
		}
		fig, ax := canvas.NewSoloFigure(size)
		if err := pp.PlotOn(ax, points.PlotOptions{}); err != nil {
			return nil, err
		}
		return fig, decorate(ax, p)
	}
	return nil, fmt.Errorf("plot %q: unknown kind %q", p.Name, p.Kind)
}

func (w *workspace) histogramInput(p config.Plot, c config.Component) ([]float64, hist.ComponentOptions, error) {
	values, err := w.column(c.Source, p.Variable.Column)
	if err != nil {
		return nil, hist.ComponentOptions{}, err
	}
	opts, err := w.componentOptions(c)
	if err != nil {
		return nil, hist.ComponentOptions{}, err
	}
	return values, opts, nil
}

func (w *workspace) points(c config.Component) (points.Points, error) {
	get := func(name string) ([]float64, error) {
		if name == "" {
			return nil, nil
		}
		return w.column(c.Source, name)
	}
	var cols [4][]float64
	for i, name := range []string{c.X, c.Y, c.XErr, c.YErr} {
		v, err := get(name)
		if err != nil {
			return points.Points{}, err
		}
		cols[i] = v
	}
	return points.NewPoints(cols[0], cols[1], cols[2], cols[3])
}

// decorate adds the experiment annotations and the cut of p.
func decorate(s canvas.Surface, p config.Plot) error {
	if d := p.Descriptions; d != nil {
		canvas.AddDescriptions(s, canvas.Descriptions{
			Experiment:     d.Experiment,
			Luminosity:     d.Luminosity,
			AdditionalInfo: d.AdditionalInfo,
		})
	}
	if p.Cut == nil {
		return nil
	}
	cut := canvas.Cut{Left: p.Cut.Left, Right: p.Cut.Right}
	if win := p.Cut.Window; win != nil {
		cut.Window = &canvas.Window{Lo: win[0], Hi: win[1]}
	}
	if keep := p.Cut.Keep; keep != nil {
		cut.Keep = &canvas.Window{Lo: keep[0], Hi: keep[1]}
	}
	clr, err := parseColor(p.Cut.Color)
	if err != nil {
		return err
	}
	cut.Color = clr
	return canvas.AddCut(s, cut)
}

func runRender(cmd *cobra.Command, path string, opts *options) error {
	fsys := fsutil.OSFileSystem{}
	w, err := loadWorkspace(cmd.Context(), fsys, path)
	if err != nil {
		return err
	}

	outDir := opts.output
	if outDir == "" {
		outDir = w.resolve(w.cfg.GetOutputDir())
	}
	formats := opts.formats
	if len(formats) == 0 {
		formats = w.cfg.GetFormats()
	}

	rendered := 0
	for _, p := range w.cfg.Plots {
		if len(opts.only) > 0 && !slices.Contains(opts.only, p.Name) {
			continue
		}
		fig, err := w.build(p)
		if err != nil {
			return fmt.Errorf("plot %q: %w", p.Name, err)
		}
		paths, err := export.Export(fsys, fig, p.Name, outDir, formats...)
		if err != nil {
			return fmt.Errorf("plot %q: %w", p.Name, err)
		}
		for _, written := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), written)
		}
		rendered++
	}
	if rendered == 0 {
		return errors.New("no plot matched")
	}
	log.Infof("rendered %d plots to %s", rendered, outDir)
	return nil
}

func runBinning(cmd *cobra.Command, path string, opts *options) error {
	w, err := loadWorkspace(cmd.Context(), fsutil.OSFileSystem{}, path)
	if err != nil {
		return err
	}

	var sources []string
	for _, src := range w.cfg.Sources {
		t, err := w.table(src.Name)
		if err != nil {
			return err
		}
		if _, err := t.Column(opts.variable); err == nil {
			sources = append(sources, src.Name)
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w %q in any source", dataset.ErrUnknownColumn, opts.variable)
	}

	b, err := w.estimate(opts.variable, sources)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: bins=%d min=%g max=%g sources=%s\n",
		opts.variable, b.Bins, b.Min, b.Max, strings.Join(sources, ","))
	return nil
}
