package binning

import (
	"fmt"
	"math"
	"sort"

	"causalprep/internal/errors"
)

// Method selects a discretization strategy
type Method int

const (
	EqualWidth Method = iota
	EqualFrequency
	KMeans
	Custom
)

// Method names as they appear in batch configuration
const (
	methodEqualWidth     = "equal_width"
	methodEqualFrequency = "equal_frequency"
	methodKMeans         = "kmeans"
	methodCustom         = "custom"
)

func (m Method) String() string {
	switch m {
	case EqualWidth:
		return methodEqualWidth
	case EqualFrequency:
		return methodEqualFrequency
	case KMeans:
		return methodKMeans
	case Custom:
		return methodCustom
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod maps a configuration string onto a Method. Unknown names are
// an InvalidConfiguration error, never a silent default.
func ParseMethod(s string) (Method, error) {
	switch s {
	case methodEqualWidth:
		return EqualWidth, nil
	case methodEqualFrequency:
		return EqualFrequency, nil
	case methodKMeans:
		return KMeans, nil
	case methodCustom:
		return Custom, nil
	default:
		return 0, errors.InvalidConfiguration(fmt.Sprintf("unknown discretization method %q", s))
	}
}

// Spec configures the discretization of one feature
type Spec struct {
	Method Method
	// Bins is the requested bin count. Zero means "ask the advisor".
	Bins int
	// CustomEdges supplies explicit strictly increasing boundaries for the
	// Custom method and is ignored otherwise.
	CustomEdges []float64
}

// MissingBucket marks entries whose source value was missing
const MissingBucket = -1

// Result is the outcome of discretizing one feature: a bucket id per input
// position, plus the fitted boundaries or centers that produced it
type Result struct {
	// Buckets is parallel to the input; each entry is a bucket id in
	// [0, Bins-1] or MissingBucket.
	Buckets []int
	// Edges holds the n+1 interval boundaries for edge-based strategies
	// (nil for KMeans).
	Edges []float64
	// Centers holds the ascending cluster centers for KMeans (nil otherwise).
	Centers []float64
	// Bins is the effective bin count, which can be below the request when
	// duplicate quantile edges were merged.
	Bins int
}

// Discretizer converts continuous features into small-integer bucket ids.
// It never mutates its input and holds no state between calls, so one
// instance can serve a whole session.
type Discretizer struct {
	advisor *Advisor

	// Seed switches k-means initialization from the deterministic
	// midpoint policy to seeded random sampling. Zero keeps the
	// deterministic policy.
	Seed int64
	// MaxIterations bounds the k-means refinement loop
	MaxIterations int
}

// NewDiscretizer creates a discretizer with default settings
func NewDiscretizer() *Discretizer {
	return &Discretizer{
		advisor:       NewAdvisor(),
		MaxIterations: 300,
	}
}

// Discretize applies the configured strategy to a feature column. Missing
// (NaN) entries are excluded from fitting and marked MissingBucket in the
// output at their original positions.
func (d *Discretizer) Discretize(values []float64, spec Spec) (*Result, error) {
	clean := dropMissing(values)
	if len(clean) == 0 {
		return nil, errors.DegenerateInput("feature has no non-missing values to discretize")
	}
	if spec.Bins < 0 {
		return nil, errors.InvalidConfiguration("bin count cannot be negative")
	}

	switch spec.Method {
	case EqualWidth:
		bins, err := d.resolveBins(spec, clean)
		if err != nil {
			return nil, err
		}
		return d.equalWidth(values, clean, bins)
	case EqualFrequency:
		bins, err := d.resolveBins(spec, clean)
		if err != nil {
			return nil, err
		}
		return d.equalFrequency(values, clean, bins)
	case KMeans:
		bins, err := d.resolveBins(spec, clean)
		if err != nil {
			return nil, err
		}
		return d.kmeans(values, clean, bins)
	case Custom:
		return d.custom(values, spec.CustomEdges)
	default:
		return nil, errors.InvalidConfiguration(fmt.Sprintf("unknown discretization method %q", spec.Method))
	}
}

// resolveBins returns the requested bin count, consulting the advisor when
// the caller omitted it
func (d *Discretizer) resolveBins(spec Spec, clean []float64) (int, error) {
	if spec.Bins > 0 {
		return spec.Bins, nil
	}
	return d.advisor.Suggest(clean)
}

func (d *Discretizer) equalWidth(values, clean []float64, bins int) (*Result, error) {
	min := clean[0]
	max := clean[0]
	for _, v := range clean {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	// Zero spread: all edges coincide and everything lands in bucket 0
	if min == max {
		return &Result{
			Buckets: assign(values, []float64{min, max}),
			Edges:   []float64{min, max},
			Bins:    1,
		}, nil
	}

	edges := make([]float64, bins+1)
	width := (max - min) / float64(bins)
	for i := 0; i <= bins; i++ {
		edges[i] = min + float64(i)*width
	}
	// Anchor the outer boundaries against float drift
	edges[0] = min
	edges[bins] = max

	return &Result{
		Buckets: assign(values, edges),
		Edges:   edges,
		Bins:    bins,
	}, nil
}

func (d *Discretizer) equalFrequency(values, clean []float64, bins int) (*Result, error) {
	sorted := sortedCopy(clean)

	edges := make([]float64, bins+1)
	for i := 0; i <= bins; i++ {
		edges[i] = quantile(sorted, float64(i)/float64(bins))
	}

	// Ties collapse quantile boundaries; merging them is expected behavior
	// for skewed data, not an error.
	edges = dedupeEdges(edges)

	if len(edges) < 2 {
		// Every quantile coincided: a constant column
		return &Result{
			Buckets: assign(values, []float64{sorted[0], sorted[0]}),
			Edges:   []float64{sorted[0], sorted[0]},
			Bins:    1,
		}, nil
	}

	return &Result{
		Buckets: assign(values, edges),
		Edges:   edges,
		Bins:    len(edges) - 1,
	}, nil
}

func (d *Discretizer) custom(values, edges []float64) (*Result, error) {
	if len(edges) < 2 {
		return nil, errors.InvalidConfiguration("custom method requires at least two bin edges")
	}
	if !strictlyIncreasing(edges) {
		return nil, errors.InvalidConfiguration("custom bin edges must be strictly increasing")
	}

	owned := make([]float64, len(edges))
	copy(owned, edges)

	return &Result{
		Buckets: assign(values, owned),
		Edges:   owned,
		Bins:    len(owned) - 1,
	}, nil
}

// assign maps every value onto the interval index defined by edges,
// emitting MissingBucket for NaN entries
func assign(values, edges []float64) []int {
	buckets := make([]int, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			buckets[i] = MissingBucket
			continue
		}
		buckets[i] = bucketIndex(edges, v)
	}
	return buckets
}

// assignByCenters maps values onto the nearest of the ascending centers,
// realised as midpoint boundaries so bucket ids stay monotonic with value
func assignByCenters(values, centers []float64) []int {
	boundaries := make([]float64, 0, len(centers)-1)
	for i := 1; i < len(centers); i++ {
		boundaries = append(boundaries, (centers[i-1]+centers[i])/2)
	}

	buckets := make([]int, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			buckets[i] = MissingBucket
			continue
		}
		buckets[i] = sort.SearchFloat64s(boundaries, v)
	}
	return buckets
}
