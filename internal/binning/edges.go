package binning

import (
	"math"
	"sort"
)

// dropMissing returns the non-missing (non-NaN) values, preserving order
func dropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// quantile computes the p-quantile (p in [0,1]) of sorted values using
// linear interpolation between order statistics, the same convention as
// numpy's default percentile method
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// sortedCopy returns an ascending copy of values
func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// dedupeEdges collapses adjacent edges that are numerically equal, keeping
// the sequence strictly increasing. Heavily tied or skewed data can collapse
// several quantile boundaries this way; the effective bin count shrinks
// accordingly.
func dedupeEdges(edges []float64) []float64 {
	if len(edges) == 0 {
		return edges
	}
	out := edges[:1]
	for _, e := range edges[1:] {
		if e > out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// strictlyIncreasing reports whether edges form a valid boundary sequence
func strictlyIncreasing(edges []float64) bool {
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return false
		}
	}
	return true
}

// bucketIndex maps a value onto the half-open intervals defined by edges:
// bucket i covers [edges[i], edges[i+1]), with the topmost interval closed
// on the right so the maximum lands in the last bucket. Values outside the
// edge range clamp to the end buckets, keeping every non-missing value
// assigned.
func bucketIndex(edges []float64, v float64) int {
	last := len(edges) - 2
	if last < 0 {
		return 0
	}
	if v <= edges[0] {
		return 0
	}
	if v >= edges[len(edges)-1] {
		return last
	}
	i := sort.Search(len(edges), func(j int) bool { return edges[j] > v }) - 1
	if i < 0 {
		i = 0
	}
	if i > last {
		i = last
	}
	return i
}
