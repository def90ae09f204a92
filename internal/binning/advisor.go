package binning

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"causalprep/internal/errors"
)

// Advisor recommends a bin count for a numeric feature by combining several
// histogram sizing heuristics: Sturges, Scott, Freedman-Diaconis and the
// square-root rule. The heuristics vote, implausible candidates are
// filtered, and the median of the survivors is clamped into
// [MinBins, MaxBins].
type Advisor struct {
	MinBins      int // hard floor of the recommendation (3)
	MaxBins      int // hard ceiling of the recommendation (20)
	CandidateCap int // candidates above this are discarded before the median (50)
}

// NewAdvisor creates an advisor with the standard bounds
func NewAdvisor() *Advisor {
	return &Advisor{MinBins: 3, MaxBins: 20, CandidateCap: 50}
}

// Suggest returns a recommended bin count for the given feature values.
// NaN entries are ignored; at least one non-missing value is required.
// Degenerate spread (fewer than two distinct values) disables the
// width-based heuristics, which then fall back to the Sturges candidate.
func (a *Advisor) Suggest(values []float64) (int, error) {
	clean := dropMissing(values)
	n := len(clean)
	if n == 0 {
		return 0, errors.DegenerateInput("bin count suggestion requires at least one value")
	}

	cbrtN := math.Cbrt(float64(n))

	sturges := int(math.Ceil(math.Log2(float64(n)) + 1))
	sqrtBins := int(math.Ceil(math.Sqrt(float64(n))))

	min, _ := stats.Min(clean)
	max, _ := stats.Max(clean)
	span := max - min

	// Scott's rule: h = 3.5*s / n^(1/3). Undefined without spread.
	scott := sturges
	if n >= 2 && span > 0 {
		sd, err := stats.StandardDeviationSample(clean)
		if err == nil {
			if h := 3.5 * sd / cbrtN; h > 0 {
				scott = int(math.Ceil(span / h))
			}
		}
	}

	// Freedman-Diaconis: h = 2*IQR / n^(1/3). Ties can zero the IQR.
	fd := sturges
	if span > 0 {
		sorted := sortedCopy(clean)
		iqr := quantile(sorted, 0.75) - quantile(sorted, 0.25)
		if h := 2 * iqr / cbrtN; h > 0 {
			fd = int(math.Ceil(span / h))
		}
	}

	candidates := []int{sturges, scott, fd, sqrtBins}

	kept := candidates[:0:0]
	for _, c := range candidates {
		if c >= a.MinBins && c <= a.CandidateCap {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		kept = candidates
	}

	suggestion := medianInt(kept)
	if suggestion < a.MinBins {
		suggestion = a.MinBins
	}
	if suggestion > a.MaxBins {
		suggestion = a.MaxBins
	}
	return suggestion, nil
}

// medianInt takes the median of the candidates, averaging the two middle
// values with truncating integer division for an even count
func medianInt(candidates []int) int {
	sorted := make([]int, len(candidates))
	copy(sorted, candidates)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
