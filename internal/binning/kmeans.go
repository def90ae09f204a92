package binning

import (
	"math"
	"math/rand"
	"sort"
)

const kmeansTolerance = 1e-9

// kmeans clusters the feature into k groups along the value line and uses
// the ascending cluster index as the bucket id
func (d *Discretizer) kmeans(values, clean []float64, k int) (*Result, error) {
	centers := d.kmeansCenters(clean, k)

	return &Result{
		Buckets: assignByCenters(values, centers),
		Centers: centers,
		Bins:    len(centers),
	}, nil
}

// kmeansCenters runs one-dimensional Lloyd iteration. Initialization is
// deterministic by default (midpoints of the equal-width partition, the same
// policy sklearn's KBinsDiscretizer seeds its kmeans strategy with); setting
// Discretizer.Seed switches to seeded random sampling of distinct values so
// callers can explore alternative starts reproducibly.
func (d *Discretizer) kmeansCenters(clean []float64, k int) []float64 {
	distinct := distinctSorted(clean)

	// Fewer distinct values than clusters: each value is its own center
	if len(distinct) <= k {
		return distinct
	}

	min := distinct[0]
	max := distinct[len(distinct)-1]

	var centers []float64
	if d.Seed != 0 {
		rng := rand.New(rand.NewSource(d.Seed))
		centers = make([]float64, 0, k)
		for _, idx := range rng.Perm(len(distinct))[:k] {
			centers = append(centers, distinct[idx])
		}
		sort.Float64s(centers)
	} else {
		width := (max - min) / float64(k)
		centers = make([]float64, k)
		for i := 0; i < k; i++ {
			centers[i] = min + (float64(i)+0.5)*width
		}
	}

	maxIter := d.MaxIterations
	if maxIter <= 0 {
		maxIter = 300
	}

	sums := make([]float64, k)
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		for i := range sums {
			sums[i] = 0
			counts[i] = 0
		}

		// Ascending centers partition the line at their midpoints, so the
		// nearest-center assignment is a boundary walk.
		boundaries := make([]float64, k-1)
		for i := 1; i < k; i++ {
			boundaries[i-1] = (centers[i-1] + centers[i]) / 2
		}
		for _, v := range clean {
			c := sort.SearchFloat64s(boundaries, v)
			sums[c] += v
			counts[c]++
		}

		shift := 0.0
		for i := 0; i < k; i++ {
			if counts[i] == 0 {
				// Empty cluster keeps its center
				continue
			}
			next := sums[i] / float64(counts[i])
			shift = math.Max(shift, math.Abs(next-centers[i]))
			centers[i] = next
		}
		// Means of an ordered partition stay ordered, but float ties can
		// produce equal neighbors; keep the invariant explicit.
		sort.Float64s(centers)

		if shift < kmeansTolerance {
			break
		}
	}

	return centers
}

func distinctSorted(values []float64) []float64 {
	sorted := sortedCopy(values)
	out := sorted[:0:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
