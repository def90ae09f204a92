package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"causalprep/internal/errors"
)

// Summary is a read-only snapshot of a numeric feature's distribution.
// It is computed fresh on each call and never cached by this package.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"`
	Unique   int     `json:"unique_values"`
	Missing  int     `json:"missing_values"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"` // excess kurtosis

	IsNormal   bool    `json:"is_normal"`
	NormalityP float64 `json:"normality_p"`
}

// Summarize computes a Summary for a feature column. NaN entries are treated
// as missing: excluded from every statistic and counted in Missing.
func Summarize(values []float64) (Summary, error) {
	clean := make([]float64, 0, len(values))
	missing := 0
	for _, v := range values {
		if math.IsNaN(v) {
			missing++
			continue
		}
		clean = append(clean, v)
	}

	if len(clean) == 0 {
		return Summary{}, errors.DegenerateInput("feature has no non-missing values")
	}

	summary := Summary{
		Count:   len(clean),
		Missing: missing,
		Unique:  countDistinct(clean),
	}

	mean, err := stats.Mean(clean)
	if err != nil {
		return Summary{}, errors.Wrap(err, "computing mean")
	}
	summary.Mean = mean

	if len(clean) >= 2 {
		sd, err := stats.StandardDeviationSample(clean)
		if err != nil {
			return Summary{}, errors.Wrap(err, "computing standard deviation")
		}
		summary.StdDev = sd
	}

	summary.Min, err = stats.Min(clean)
	if err != nil {
		return Summary{}, errors.Wrap(err, "computing min")
	}
	summary.Max, err = stats.Max(clean)
	if err != nil {
		return Summary{}, errors.Wrap(err, "computing max")
	}
	summary.Range = summary.Max - summary.Min

	summary.Median, err = stats.Median(clean)
	if err != nil {
		return Summary{}, errors.Wrap(err, "computing median")
	}
	// Percentile needs at least one value; errors only on empty input,
	// which is already excluded above.
	summary.Q25, _ = stats.Percentile(clean, 25)
	summary.Q75, _ = stats.Percentile(clean, 75)

	summary.Skewness = skewness(clean, mean)
	summary.Kurtosis = excessKurtosis(clean, mean)
	summary.IsNormal, summary.NormalityP = testNormality(summary.Skewness, summary.Kurtosis, len(clean))

	return summary, nil
}

func countDistinct(values []float64) int {
	seen := make(map[float64]bool, len(values))
	for _, v := range values {
		seen[v] = true
	}
	return len(seen)
}

// skewness computes the third standardized moment (population form, the
// convention pandas/scipy report by default)
func skewness(values []float64, mean float64) float64 {
	if len(values) < 3 {
		return 0
	}

	n := float64(len(values))
	m2 := 0.0
	m3 := 0.0
	for _, x := range values {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n

	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// excessKurtosis computes the fourth standardized moment minus 3
// (population form; 0 for a normal distribution)
func excessKurtosis(values []float64, mean float64) float64 {
	if len(values) < 4 {
		return 0
	}

	n := float64(len(values))
	m2 := 0.0
	m4 := 0.0
	for _, x := range values {
		d := x - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m4 /= n

	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}

// testNormality approximates a normality check from the shape moments.
// It is a screening heuristic for recommendation text, not a substitute
// for a proper test.
func testNormality(skew, excessKurt float64, n int) (isNormal bool, pValue float64) {
	if n < 3 {
		return false, 1.0
	}

	// Combined shape statistic: large skew or heavy tails push it up
	testStat := math.Abs(skew) + math.Abs(excessKurt)/2

	chiDist := distuv.ChiSquared{K: 2}
	pValue = 1 - chiDist.CDF(testStat*testStat)

	isNormal = pValue > 0.05
	return isNormal, pValue
}
