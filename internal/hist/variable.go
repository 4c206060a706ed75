// Package hist builds histogram plots: simple overlays, stacked
// histograms, and data/MC comparisons with a ratio panel.
//
// A composer is bound to one Variable, accepts named components until it is
// first drawn, and then refuses further components with
// ErrComposerFinalized. Components are drawn in registration order; stacked
// components are stacked bottom-up in that order.
package hist

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/wg1plot/internal/binning"
)

// Scope is the x range covered by the bins.
type Scope struct {
	Min, Max float64
}

// VariableConfig describes how a column is presented.
type VariableConfig struct {
	// Name is the column name in the source table.
	Name string
	// DisplayName is used in axis labels. Defaults to Name.
	DisplayName string
	// Unit is appended to axis labels when set, e.g. "GeV".
	Unit  string
	Bins  int
	Scope Scope
	// LogY draws the y axis on a logarithmic scale.
	LogY bool
}

// Variable is the immutable presentation of a column. It is a value type and
// may be shared by any number of composers.
type Variable struct {
	name        string
	displayName string
	unit        string
	bins        int
	scope       Scope
	logY        bool
}

// NewVariable validates cfg and returns the corresponding Variable.
func NewVariable(cfg VariableConfig) (Variable, error) {
	if cfg.Bins <= 0 {
		return Variable{}, fmt.Errorf("%w: %q needs a positive bin count, got %d", ErrInvalidVariable, cfg.Name, cfg.Bins)
	}
	if !(cfg.Scope.Min < cfg.Scope.Max) {
		return Variable{}, fmt.Errorf("%w: %q scope must satisfy min < max, got [%g, %g]", ErrInvalidVariable, cfg.Name, cfg.Scope.Min, cfg.Scope.Max)
	}
	display := cfg.DisplayName
	if display == "" {
		display = cfg.Name
	}
	return Variable{
		name:        cfg.Name,
		displayName: display,
		unit:        cfg.Unit,
		bins:        cfg.Bins,
		scope:       cfg.Scope,
		logY:        cfg.LogY,
	}, nil
}

// VariableFromBinning builds a Variable whose bins come from the binning
// estimator. Bins and Scope in cfg are ignored.
func VariableFromBinning(cfg VariableConfig, b binning.Binning) (Variable, error) {
	cfg.Bins = b.Bins
	cfg.Scope = Scope{Min: b.Min, Max: b.Max}
	return NewVariable(cfg)
}

// Name returns the column name of the variable.
func (v Variable) Name() string { return v.name }

// DisplayName returns the axis name, which defaults to Name.
func (v Variable) DisplayName() string { return v.displayName }

// Unit returns the unit, or "" for dimensionless variables.
func (v Variable) Unit() string { return v.unit }

// Bins returns the number of bins.
func (v Variable) Bins() int { return v.bins }

// Scope returns the histogram range.
func (v Variable) Scope() Scope { return v.scope }

// LogY reports whether the y axis is logarithmic.
func (v Variable) LogY() bool { return v.logY }

// BinWidth returns the width of one bin.
func (v Variable) BinWidth() float64 {
	return (v.scope.Max - v.scope.Min) / float64(v.bins)
}

// Edges returns the Bins+1 bin edges. Each call returns a new slice.
func (v Variable) Edges() []float64 {
	return floats.Span(make([]float64, v.bins+1), v.scope.Min, v.scope.Max)
}

// Centers returns the bin centers.
func (v Variable) Centers() []float64 {
	edges := v.Edges()
	out := make([]float64, v.bins)
	for i := range out {
		out[i] = (edges[i] + edges[i+1]) / 2
	}
	return out
}

// XLabel returns "DisplayName in Unit", or the display name alone when the
// variable has no unit.
func (v Variable) XLabel() string {
	if v.unit == "" {
		return v.displayName
	}
	return fmt.Sprintf("%s in %s", v.displayName, v.unit)
}

// YLabel returns quantity per bin width, e.g. "Candidates / (0.40 GeV)".
func (v Variable) YLabel(quantity string) string {
	if v.unit == "" {
		return fmt.Sprintf("%s / %.2f", quantity, v.BinWidth())
	}
	return fmt.Sprintf("%s / (%.2f %s)", quantity, v.BinWidth(), v.unit)
}
