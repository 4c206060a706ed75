package hist

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Counts are the weighted contents of each bin.
type Counts struct {
	SumW  []float64
	SumW2 []float64
}

// Errors returns sqrt(SumW2) per bin. For unit weights this is the Poisson
// error sqrt(N).
func (c Counts) Errors() []float64 {
	out := make([]float64, len(c.SumW2))
	for i, s := range c.SumW2 {
		out[i] = math.Sqrt(s)
	}
	return out
}

// Count bins values with weights according to v. Values outside the scope or
// NaN are dropped; the scope maximum falls into the last bin. A nil weights
// slice means unit weights.
func Count(v Variable, values, weights []float64) Counts {
	edges := v.Edges()
	lo, hi := edges[0], edges[len(edges)-1]

	x := make([]float64, 0, len(values))
	w := make([]float64, 0, len(values))
	for i, val := range values {
		if math.IsNaN(val) || val < lo || val > hi {
			continue
		}
		x = append(x, val)
		if weights == nil {
			w = append(w, 1)
		} else {
			w = append(w, weights[i])
		}
	}

	// stat.Histogram wants sorted data and an exclusive upper divider.
	idx := make([]int, len(x))
	floats.Argsort(x, idx)
	ws := make([]float64, len(x))
	ws2 := make([]float64, len(x))
	for i, j := range idx {
		ws[i] = w[j]
		ws2[i] = w[j] * w[j]
	}
	edges[len(edges)-1] = math.Nextafter(hi, math.Inf(1))

	return Counts{
		SumW:  stat.Histogram(nil, edges, x, ws),
		SumW2: stat.Histogram(nil, edges, x, ws2),
	}
}

// Ratio divides num by den bin by bin and propagates the errors of both.
// Bins where den is zero are NaN.
func Ratio(num, numErr, den, denErr []float64) (ratio, ratioErr []float64) {
	ratio = make([]float64, len(num))
	ratioErr = make([]float64, len(num))
	for i := range num {
		if den[i] == 0 {
			ratio[i], ratioErr[i] = math.NaN(), math.NaN()
			continue
		}
		r := num[i] / den[i]
		ratio[i] = r
		ratioErr[i] = math.Hypot(numErr[i]/den[i], r*denErr[i]/den[i])
	}
	return ratio, ratioErr
}
