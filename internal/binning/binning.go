// Package binning derives histogram binnings (bin count, lower and upper
// edge) from the data that will be histogrammed.
package binning

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/wg1plot/internal/dataset"
)

const (
	// DefaultTarget is the starting bin count for Estimate.
	DefaultTarget = 100

	// maxBins is the largest bin count Estimate returns before falling back
	// to fallbackBins. Wide integer ranges would otherwise produce one bin
	// per unit.
	maxBins      = 200
	fallbackBins = 100
)

// ErrEmptyInput is returned when there are no values to estimate from.
var ErrEmptyInput = errors.New("no values to bin")

// Binning is the (count, min, max) triple defining equally spaced bins.
type Binning struct {
	Bins int
	Min  float64
	Max  float64
}

// Edges returns the Bins+1 bin edges from Min to Max.
func (b Binning) Edges() []float64 {
	if b.Bins <= 0 {
		return nil
	}
	return floats.Span(make([]float64, b.Bins+1), b.Min, b.Max)
}

// Estimate returns a binning that covers every value of col.
//
// Integral columns get a half-open upper edge (max+1) and one bin per unit
// when their range is narrower than target. Continuous columns get one bin
// per unit when their range is at least target/2, and target bins
// otherwise. Counts above 200 are reset to 100.
func Estimate(col dataset.Column, target int) (Binning, error) {
	if col.Len() == 0 {
		return Binning{}, ErrEmptyInput
	}
	if target <= 0 {
		target = DefaultTarget
	}

	b := Binning{
		Bins: target,
		Min:  floats.Min(col.Values),
		Max:  floats.Max(col.Values),
	}

	if col.Integral {
		b.Max++
		if b.Max-b.Min < float64(target) {
			b.Bins = unitBins(b.Max - b.Min)
		}
	} else if b.Max-b.Min >= float64(target)/2 {
		b.Bins = unitBins(b.Max - b.Min)
	}

	if b.Bins > maxBins {
		b.Bins = fallbackBins
	}
	return b, nil
}

// unitBins is the one-bin-per-unit count for a range r, clamped before the
// conversion so ranges beyond the int range cannot overflow.
func unitBins(r float64) int {
	if r > maxBins {
		return fallbackBins
	}
	return int(r)
}

// Seed carries prior results into EstimateCompound so repeated calls can be
// merged. The zero Seed starts from nothing.
type Seed struct {
	Bins int
	Min  *float64
	Max  *float64
}

// EstimateCompound estimates the binning of variable in every table and
// returns their union: the largest bin count, the smallest lower edge and
// the largest upper edge. The result does not depend on map order.
func EstimateCompound(tables map[string]dataset.Table, variable string, seed Seed) (Binning, error) {
	out := Binning{Bins: seed.Bins}
	haveMin, haveMax := seed.Min != nil, seed.Max != nil
	if haveMin {
		out.Min = *seed.Min
	}
	if haveMax {
		out.Max = *seed.Max
	}

	for name, tbl := range tables {
		col, err := tbl.Column(variable)
		if err != nil {
			return Binning{}, fmt.Errorf("dataset %q: %w", name, err)
		}
		b, err := Estimate(col, DefaultTarget)
		if err != nil {
			return Binning{}, fmt.Errorf("dataset %q: %w", name, err)
		}

		if b.Bins > out.Bins {
			out.Bins = b.Bins
		}
		if !haveMin || b.Min < out.Min {
			out.Min, haveMin = b.Min, true
		}
		if !haveMax || b.Max > out.Max {
			out.Max, haveMax = b.Max, true
		}
	}

	if !haveMin || !haveMax {
		return Binning{}, ErrEmptyInput
	}
	return out, nil
}
