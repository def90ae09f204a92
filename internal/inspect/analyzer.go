// Package inspect walks the numeric features of a dataset and produces a
// discretization planning report: distribution statistics, a recommended
// bin count and per-strategy boundary previews, emitted line by line to a
// logging.LineWriter collaborator.
package inspect

import (
	"fmt"
	"strings"

	"causalprep/domain/table"
	"causalprep/internal/binning"
	"causalprep/internal/errors"
	"causalprep/internal/logging"
	"causalprep/internal/profiling"
)

// Thresholds driving the recommendation text
const (
	fewUniqueValues      = 10   // at or below this, discretization is pointless
	highCardinalityRatio = 0.5  // unique/count above this flags high cardinality
	highSkewThreshold    = 1.0  // |skewness| above this suggests quantile binning
	largeRangeThreshold  = 1000 // ranges above this suggest rescaling first
)

// FeatureAnalysis is the retained outcome of analyzing one feature
type FeatureAnalysis struct {
	Summary             profiling.Summary
	RecommendedBins     int
	NeedsDiscretization bool

	// non-missing values, retained for recommendations and demonstrations
	values []float64
}

// Analyzer inspects the numeric features of one table snapshot. Analysis
// results accumulate so recommendations and demonstrations can reuse them.
type Analyzer struct {
	tbl     *table.Table
	out     logging.LineWriter
	advisor *binning.Advisor
	disc    *binning.Discretizer
	results map[string]*FeatureAnalysis
}

// NewAnalyzer creates an analyzer over the given table, reporting to out
func NewAnalyzer(tbl *table.Table, out logging.LineWriter) *Analyzer {
	return &Analyzer{
		tbl:     tbl,
		out:     out,
		advisor: binning.NewAdvisor(),
		disc:    binning.NewDiscretizer(),
		results: make(map[string]*FeatureAnalysis),
	}
}

// Results returns the accumulated per-feature analyses
func (a *Analyzer) Results() map[string]*FeatureAnalysis {
	return a.results
}

// InspectFeatures runs the full discretization planning walkthrough over
// every numeric feature
func (a *Analyzer) InspectFeatures() error {
	a.out.Log(strings.Repeat("=", 60))
	a.out.Log("FEATURE INSPECTION FOR DISCRETIZATION")
	a.out.Log(strings.Repeat("=", 60))

	for _, feature := range a.tbl.NumericNames() {
		a.out.Log("")
		a.out.Log(fmt.Sprintf("FEATURE: %s", feature))
		a.out.Log(strings.Repeat("-", 40))

		if _, err := a.AnalyzeDistribution(feature); err != nil {
			return errors.Wrapf(err, "analyzing feature %q", feature)
		}
		if err := a.RecommendDiscretization(feature); err != nil {
			return errors.Wrapf(err, "recommending discretization for %q", feature)
		}

		a.out.Log("")
		a.out.Log(strings.Repeat("=", 40))
	}
	return nil
}

// AnalyzeDistribution computes and reports the distribution snapshot of one
// feature, retaining the result for later recommendation calls
func (a *Analyzer) AnalyzeDistribution(feature string) (*FeatureAnalysis, error) {
	col, ok := a.tbl.Column(feature)
	if !ok {
		return nil, errors.MissingColumn(feature)
	}
	if col.Kind() != table.Numeric {
		return nil, errors.InvalidConfiguration("feature " + feature + " is not numeric")
	}

	summary, err := profiling.Summarize(col.Floats())
	if err != nil {
		return nil, err
	}

	a.out.Log(fmt.Sprintf("Count: %d", summary.Count))
	a.out.Log(fmt.Sprintf("Mean: %.4f", summary.Mean))
	a.out.Log(fmt.Sprintf("Std: %.4f", summary.StdDev))
	a.out.Log(fmt.Sprintf("Min: %.4f", summary.Min))
	a.out.Log(fmt.Sprintf("Max: %.4f", summary.Max))
	a.out.Log(fmt.Sprintf("Range: %.4f", summary.Range))
	a.out.Log(fmt.Sprintf("Unique values: %d", summary.Unique))
	a.out.Log(fmt.Sprintf("Missing values: %d", summary.Missing))
	a.out.Log(fmt.Sprintf("Skewness: %.4f", summary.Skewness))
	a.out.Log(fmt.Sprintf("Kurtosis: %.4f", summary.Kurtosis))

	analysis := &FeatureAnalysis{
		Summary: summary,
		values:  col.NonMissingFloats(),
	}
	a.results[feature] = analysis
	return analysis, nil
}

// RecommendDiscretization reports whether and how the feature should be
// discretized, based on a prior (or freshly computed) distribution analysis
func (a *Analyzer) RecommendDiscretization(feature string) error {
	analysis, ok := a.results[feature]
	if !ok {
		var err error
		analysis, err = a.AnalyzeDistribution(feature)
		if err != nil {
			return err
		}
	}
	summary := analysis.Summary

	a.out.Log("")
	a.out.Log("DISCRETIZATION RECOMMENDATIONS:")

	if summary.Unique <= fewUniqueValues {
		a.out.Log("DISCRETIZATION NOT NEEDED - already has few unique values")
		return nil
	}
	analysis.NeedsDiscretization = true

	if float64(summary.Unique)/float64(summary.Count) > highCardinalityRatio {
		a.out.Log("HIGH CARDINALITY - consider discretization")
	}

	bins, err := a.advisor.Suggest(analysis.values)
	if err != nil {
		return err
	}
	analysis.RecommendedBins = bins
	a.out.Log(fmt.Sprintf("Recommended bins: %d", bins))

	a.out.Log("")
	a.out.Log("RECOMMENDED METHODS:")

	a.out.Log("1. EQUAL-WIDTH BINNING")
	a.out.Log("   - Good for: uniform distributions")
	a.out.Log(fmt.Sprintf("   - Bins: %d", bins))
	if err := a.showEqualWidthRanges(analysis.values, bins); err != nil {
		return err
	}

	a.out.Log("")
	a.out.Log("2. EQUAL-FREQUENCY BINNING (quantile-based)")
	a.out.Log("   - Good for: skewed distributions")
	a.out.Log(fmt.Sprintf("   - Bins: %d", bins))
	if err := a.showQuantileRanges(analysis.values, bins); err != nil {
		return err
	}

	a.out.Log("")
	a.out.Log("3. K-MEANS BINNING")
	a.out.Log("   - Good for: clustering similar values")
	a.out.Log(fmt.Sprintf("   - Bins: %d", bins))

	if skew := summary.Skewness; skew > highSkewThreshold || skew < -highSkewThreshold {
		a.out.Log("")
		a.out.Log("SPECIAL RECOMMENDATION:")
		a.out.Log(fmt.Sprintf("   - Distribution is highly skewed (%.2f)", summary.Skewness))
		a.out.Log("   - Consider: quantile-based binning or a log transformation first")
	}
	if summary.Range > largeRangeThreshold {
		a.out.Log(fmt.Sprintf("   - Large range detected (%.0f)", summary.Range))
		a.out.Log("   - Consider: log transformation or robust scaling")
	}

	return nil
}

// showEqualWidthRanges previews the equal-width bin boundaries
func (a *Analyzer) showEqualWidthRanges(values []float64, bins int) error {
	result, err := a.disc.Discretize(values, binning.Spec{Method: binning.EqualWidth, Bins: bins})
	if err != nil {
		return err
	}

	if result.Bins >= 1 && len(result.Edges) >= 2 {
		a.out.Log(fmt.Sprintf("   Bin width: %.4f", result.Edges[1]-result.Edges[0]))
	}
	logRanges(a.out, result.Edges)
	return nil
}

// showQuantileRanges previews the quantile bin boundaries
func (a *Analyzer) showQuantileRanges(values []float64, bins int) error {
	result, err := a.disc.Discretize(values, binning.Spec{Method: binning.EqualFrequency, Bins: bins})
	if err != nil {
		return err
	}
	logRanges(a.out, result.Edges)
	return nil
}

func logRanges(out logging.LineWriter, edges []float64) {
	for i := 0; i+1 < len(edges); i++ {
		out.Log(fmt.Sprintf("   Bin %d: [%.4f, %.4f)", i+1, edges[i], edges[i+1]))
	}
}

// DemonstrateMethods runs every automatic strategy over one feature and
// reports the resulting bucket prefixes and boundaries side by side
func (a *Analyzer) DemonstrateMethods(feature string, bins int) error {
	col, ok := a.tbl.Column(feature)
	if !ok {
		return errors.MissingColumn(feature)
	}
	if col.Kind() != table.Numeric {
		return errors.InvalidConfiguration("feature " + feature + " is not numeric")
	}
	values := col.NonMissingFloats()

	a.out.Log("")
	a.out.Log(fmt.Sprintf("DISCRETIZATION DEMONSTRATION FOR: %s", feature))
	a.out.Log(strings.Repeat("=", 50))
	a.out.Log(fmt.Sprintf("Original values (first 10): %s", formatFloats(head(values, 10))))

	width, err := a.disc.Discretize(values, binning.Spec{Method: binning.EqualWidth, Bins: bins})
	if err != nil {
		return err
	}
	a.out.Log("")
	a.out.Log(fmt.Sprintf("Equal-width binning: %s", formatBuckets(headInts(width.Buckets, 10))))

	freq, err := a.disc.Discretize(values, binning.Spec{Method: binning.EqualFrequency, Bins: bins})
	if err != nil {
		return err
	}
	a.out.Log(fmt.Sprintf("Equal-frequency binning: %s", formatBuckets(headInts(freq.Buckets, 10))))

	km, err := a.disc.Discretize(values, binning.Spec{Method: binning.KMeans, Bins: bins})
	if err != nil {
		return err
	}
	a.out.Log(fmt.Sprintf("K-means binning: %s", formatBuckets(headInts(km.Buckets, 10))))

	a.out.Log("")
	a.out.Log("BIN BOUNDARIES:")
	a.out.Log(fmt.Sprintf("Equal-width: %s", formatFloats(width.Edges)))
	a.out.Log(fmt.Sprintf("Equal-frequency: %s", formatFloats(freq.Edges)))
	a.out.Log(fmt.Sprintf("K-means centers: %s", formatFloats(km.Centers)))
	return nil
}

func head(values []float64, n int) []float64 {
	if len(values) < n {
		n = len(values)
	}
	return values[:n]
}

func headInts(values []int, n int) []int {
	if len(values) < n {
		n = len(values)
	}
	return values[:n]
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatBuckets(buckets []int) string {
	parts := make([]string, len(buckets))
	for i, b := range buckets {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
