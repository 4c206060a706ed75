package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/wg1plot/internal/fsutil"
	"github.com/banshee-data/wg1plot/internal/style"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid plot configuration")

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Plot kinds.
const (
	KindSimple  = "simple"
	KindStacked = "stacked"
	KindDataMC  = "datamc"
	KindPoints  = "points"
)

// PlotConfig is the root of a plot configuration file. Optional fields are
// pointers; the Get* methods supply defaults.
type PlotConfig struct {
	OutputDir *string       `json:"output_dir,omitempty"`
	Formats   []string      `json:"formats,omitempty"`
	Figure    *FigureConfig `json:"figure,omitempty"`
	Sources   []Source      `json:"sources"`
	Plots     []Plot        `json:"plots"`
}

// FigureConfig sets the physical size of every figure.
type FigureConfig struct {
	WidthInches  *float64 `json:"width_inches,omitempty"`
	HeightInches *float64 `json:"height_inches,omitempty"`
	DPI          *int     `json:"dpi,omitempty"`
}

// Source is a named table. Exactly one of CSV, XLSX or SQLite is set.
type Source struct {
	Name   string `json:"name"`
	CSV    string `json:"csv,omitempty"`
	XLSX   string `json:"xlsx,omitempty"`
	Sheet  string `json:"sheet,omitempty"`
	SQLite string `json:"sqlite,omitempty"`
	Query  string `json:"query,omitempty"`
}

// Variable describes the binned column of a histogram plot. When Bins, Min
// or Max are missing they are estimated from every source the plot uses.
type Variable struct {
	Column      string   `json:"column"`
	DisplayName string   `json:"display_name,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Bins        *int     `json:"bins,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	LogY        bool     `json:"log_y,omitempty"`
}

// Axes names the axes of a data-points plot.
type Axes struct {
	XName string `json:"x_name"`
	XUnit string `json:"x_unit,omitempty"`
	YName string `json:"y_name"`
	YUnit string `json:"y_unit,omitempty"`
}

// Component is one sample of a plot.
type Component struct {
	Label  string `json:"label"`
	Source string `json:"source"`
	// Role is "mc" (default) or "data" in data/MC plots.
	Role         string   `json:"role,omitempty"`
	WeightColumn string   `json:"weight_column,omitempty"`
	Color        string   `json:"color,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	Style        string   `json:"style,omitempty"`
	Dash         string   `json:"dash,omitempty"`
	LineWidth    *float64 `json:"line_width,omitempty"`

	// Columns of a data-points component.
	X    string `json:"x,omitempty"`
	Y    string `json:"y,omitempty"`
	XErr string `json:"x_err,omitempty"`
	YErr string `json:"y_err,omitempty"`
}

// Descriptions are the experiment annotations of a plot.
type Descriptions struct {
	Experiment     string `json:"experiment,omitempty"`
	Luminosity     string `json:"luminosity,omitempty"`
	AdditionalInfo string `json:"info,omitempty"`
}

// Cut marks a selection. Exactly one field is set.
type Cut struct {
	Left   *float64    `json:"left,omitempty"`
	Right  *float64    `json:"right,omitempty"`
	Window *[2]float64 `json:"window,omitempty"`
	Keep   *[2]float64 `json:"keep,omitempty"`
	Color  string      `json:"color,omitempty"`
}

// Plot is one figure.
type Plot struct {
	Name         string        `json:"name"`
	Kind         string        `json:"kind"`
	Variable     *Variable     `json:"variable,omitempty"`
	Axes         *Axes         `json:"axes,omitempty"`
	Components   []Component   `json:"components"`
	YLabel       string        `json:"y_label,omitempty"`
	YHeadroom    *float64      `json:"y_headroom,omitempty"`
	MCStyle      string        `json:"mc_style,omitempty"`
	RatioRange   *[2]float64   `json:"ratio_range,omitempty"`
	Descriptions *Descriptions `json:"descriptions,omitempty"`
	Cut          *Cut          `json:"cut,omitempty"`
}

// LoadPlotConfig loads and validates a PlotConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadPlotConfig(fsys fsutil.FileSystem, path string) (*PlotConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &PlotConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Source returns the source with the given name.
func (c *PlotConfig) Source(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// Plot returns the plot with the given name.
func (c *PlotConfig) Plot(name string) (Plot, bool) {
	for _, p := range c.Plots {
		if p.Name == name {
			return p, true
		}
	}
	return Plot{}, false
}

// GetOutputDir returns the output directory or "plots".
func (c *PlotConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "plots"
	}
	return *c.OutputDir
}

// GetFormats returns the export formats or ".pdf" and ".png".
func (c *PlotConfig) GetFormats() []string {
	if len(c.Formats) == 0 {
		return []string{".pdf", ".png"}
	}
	return c.Formats
}

// GetWidthInches returns the figure width or 5.
func (f *FigureConfig) GetWidthInches() float64 {
	if f == nil || f.WidthInches == nil {
		return 5
	}
	return *f.WidthInches
}

// GetHeightInches returns the figure height or 5.
func (f *FigureConfig) GetHeightInches() float64 {
	if f == nil || f.HeightInches == nil {
		return 5
	}
	return *f.HeightInches
}

// GetDPI returns the raster resolution or 400.
func (f *FigureConfig) GetDPI() int {
	if f == nil || f.DPI == nil {
		return 400
	}
	return *f.DPI
}

// GetYHeadroom returns the y headroom factor or 1.3.
func (p *Plot) GetYHeadroom() float64 {
	if p.YHeadroom == nil {
		return 1.3
	}
	return *p.YHeadroom
}

// GetRatioRange returns the ratio panel range or [0.5, 1.5].
func (p *Plot) GetRatioRange() [2]float64 {
	if p.RatioRange == nil {
		return [2]float64{0.5, 1.5}
	}
	return *p.RatioRange
}

var (
	validModes   = []string{"", "overlaid", "stacked"}
	validStyles  = []string{"", "line", "filled", "point", "box"}
	validDashes  = []string{"", "solid", "dashed", "dashdot", "dotted"}
	validMCStyle = []string{"", "stacked", "summed"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks that the configuration is complete and consistent.
func (c *PlotConfig) Validate() error {
	if f := c.Figure; f != nil {
		if f.WidthInches != nil && *f.WidthInches <= 0 {
			return invalid("figure.width_inches must be positive, got %g", *f.WidthInches)
		}
		if f.HeightInches != nil && *f.HeightInches <= 0 {
			return invalid("figure.height_inches must be positive, got %g", *f.HeightInches)
		}
		if f.DPI != nil && *f.DPI <= 0 {
			return invalid("figure.dpi must be positive, got %d", *f.DPI)
		}
	}
	for _, format := range c.Formats {
		if !oneOf(strings.TrimPrefix(format, "."), []string{"pdf", "png", "svg", "eps", "jpg", "jpeg", "tif", "tiff", "tex", "html"}) {
			return invalid("unsupported format %q", format)
		}
	}

	sources := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return invalid("sources[%d] has no name", i)
		}
		if sources[s.Name] {
			return invalid("duplicate source %q", s.Name)
		}
		sources[s.Name] = true
		set := 0
		for _, v := range []string{s.CSV, s.XLSX, s.SQLite} {
			if v != "" {
				set++
			}
		}
		if set != 1 {
			return invalid("source %q must set exactly one of csv, xlsx, sqlite", s.Name)
		}
		if s.SQLite != "" && s.Query == "" {
			return invalid("sqlite source %q needs a query", s.Name)
		}
	}

	if len(c.Plots) == 0 {
		return invalid("no plots")
	}
	names := make(map[string]bool, len(c.Plots))
	for i := range c.Plots {
		p := &c.Plots[i]
		if p.Name == "" {
			return invalid("plots[%d] has no name", i)
		}
		if names[p.Name] {
			return invalid("duplicate plot %q", p.Name)
		}
		names[p.Name] = true
		if err := p.validate(sources); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plot) validate(sources map[string]bool) error {
	switch p.Kind {
	case KindSimple, KindStacked, KindDataMC:
		if p.Variable == nil || p.Variable.Column == "" {
			return invalid("plot %q needs a variable column", p.Name)
		}
		if v := p.Variable; v.Min != nil && v.Max != nil && *v.Min >= *v.Max {
			return invalid("plot %q: variable min must be below max", p.Name)
		}
		if v := p.Variable; v.Bins != nil && *v.Bins <= 0 {
			return invalid("plot %q: bins must be positive", p.Name)
		}
	case KindPoints:
		if p.Axes == nil {
			return invalid("plot %q needs axes", p.Name)
		}
	default:
		return invalid("plot %q has unknown kind %q", p.Name, p.Kind)
	}
	if p.YHeadroom != nil && *p.YHeadroom < 1 {
		return invalid("plot %q: y_headroom must be at least 1", p.Name)
	}
	if !oneOf(p.MCStyle, validMCStyle) {
		return invalid("plot %q: unknown mc_style %q", p.Name, p.MCStyle)
	}
	if r := p.RatioRange; r != nil && r[0] >= r[1] {
		return invalid("plot %q: ratio_range must be increasing", p.Name)
	}
	if len(p.Components) == 0 {
		return invalid("plot %q has no components", p.Name)
	}

	data := 0
	for _, comp := range p.Components {
		if comp.Label == "" {
			return invalid("plot %q has a component without label", p.Name)
		}
		if !sources[comp.Source] {
			return invalid("component %q of plot %q uses unknown source %q", comp.Label, p.Name, comp.Source)
		}
		switch {
		case !oneOf(comp.Mode, validModes):
			return invalid("component %q: unknown mode %q", comp.Label, comp.Mode)
		case !oneOf(comp.Style, validStyles):
			return invalid("component %q: unknown style %q", comp.Label, comp.Style)
		case !oneOf(comp.Dash, validDashes):
			return invalid("component %q: unknown dash %q", comp.Label, comp.Dash)
		case !oneOf(comp.Role, []string{"", "mc", "data"}):
			return invalid("component %q: unknown role %q", comp.Label, comp.Role)
		}
		if comp.Color != "" {
			if _, err := style.Parse(comp.Color); err != nil {
				return invalid("component %q: %v", comp.Label, err)
			}
		}
		if strings.EqualFold(comp.Role, "data") {
			data++
		}
		if p.Kind == KindPoints && (comp.X == "" || comp.Y == "") {
			return invalid("component %q of plot %q needs x and y columns", comp.Label, p.Name)
		}
	}
	if p.Kind == KindDataMC && (data != 1 || len(p.Components) < 2) {
		return invalid("data/MC plot %q needs one data and at least one MC component", p.Name)
	}

	if c := p.Cut; c != nil {
		set := 0
		for _, on := range []bool{c.Left != nil, c.Right != nil, c.Window != nil, c.Keep != nil} {
			if on {
				set++
			}
		}
		if set != 1 {
			return invalid("plot %q: cut must set exactly one of left, right, window, keep", p.Name)
		}
		if c.Color != "" {
			if _, err := style.Parse(c.Color); err != nil {
				return invalid("plot %q cut: %v", p.Name, err)
			}
		}
	}
	return nil
}
