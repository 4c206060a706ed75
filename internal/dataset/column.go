// Package dataset holds the tabular inputs plotted by the composers: named
// numeric columns, and loaders that build them from CSV, SQLite and XLSX.
package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownColumn is returned when a table has no column of the requested name.
var ErrUnknownColumn = errors.New("unknown column")

// Column is one numeric column of a table. Integral marks columns whose
// source type is an integer type; the binning estimator treats them with a
// half-open upper bound.
type Column struct {
	Values   []float64
	Integral bool
}

// Integer is the set of integer element types accepted by Ints.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Floats returns a continuous column holding a copy of v.
func Floats(v []float64) Column {
	return Column{Values: append([]float64(nil), v...)}
}

// Ints returns an integral column converted from v.
func Ints[T Integer](v []T) Column {
	vals := make([]float64, len(v))
	for i, x := range v {
		vals[i] = float64(x)
	}
	return Column{Values: vals, Integral: true}
}

// Len returns the number of observations.
func (c Column) Len() int { return len(c.Values) }

// Table maps column names to columns.
type Table map[string]Column

// Column returns the named column.
func (t Table) Column(name string) (Column, error) {
	c, ok := t[name]
	if !ok {
		return Column{}, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	return c, nil
}

// Names returns the column names in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
