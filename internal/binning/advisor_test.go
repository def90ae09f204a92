package binning

import (
	"math"
	"math/rand"
	"testing"
)

// TestSuggestAlwaysInBounds verifies the [3,20] clamp over varied inputs
func TestSuggestAlwaysInBounds(t *testing.T) {
	advisor := NewAdvisor()
	rng := rand.New(rand.NewSource(42))

	inputs := [][]float64{
		{1},
		{1, 2},
		{5, 5, 5},
		{-3, 0, 100, 1e6},
	}

	// Add larger synthetic samples with different shapes
	uniform := make([]float64, 5000)
	skewed := make([]float64, 5000)
	normal := make([]float64, 5000)
	for i := range uniform {
		uniform[i] = rng.Float64() * 100
		skewed[i] = math.Exp(rng.NormFloat64())
		normal[i] = rng.NormFloat64()*10 + 50
	}
	inputs = append(inputs, uniform, skewed, normal)

	for i, values := range inputs {
		suggestion, err := advisor.Suggest(values)
		if err != nil {
			t.Fatalf("input %d: Suggest failed: %v", i, err)
		}
		if suggestion < 3 || suggestion > 20 {
			t.Errorf("input %d: suggestion %d out of [3,20]", i, suggestion)
		}
	}
}

// TestSuggestKnownMedian checks the heuristic vote on 1..100: Sturges=8,
// Scott=5, Freedman-Diaconis=5, sqrt=10, median of [5,5,8,10] = 6
func TestSuggestKnownMedian(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}

	suggestion, err := NewAdvisor().Suggest(values)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if suggestion != 6 {
		t.Errorf("Expected suggestion 6 for 1..100, got %d", suggestion)
	}
}

// TestSuggestConstantColumn verifies that zero spread degenerates to the floor:
// Scott and Freedman-Diaconis fall back to the Sturges candidate
func TestSuggestConstantColumn(t *testing.T) {
	suggestion, err := NewAdvisor().Suggest([]float64{10, 10, 10, 10})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if suggestion != 3 {
		t.Errorf("Expected floor suggestion 3 for constant column, got %d", suggestion)
	}
}

// TestSuggestSingleValue verifies the n=1 edge case still yields the floor
func TestSuggestSingleValue(t *testing.T) {
	suggestion, err := NewAdvisor().Suggest([]float64{7.5})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if suggestion != 3 {
		t.Errorf("Expected 3 for single value, got %d", suggestion)
	}
}

// TestSuggestIgnoresMissing verifies NaN entries are excluded before voting
func TestSuggestIgnoresMissing(t *testing.T) {
	withMissing := []float64{10, math.NaN(), 10, 10, math.NaN(), 10}

	suggestion, err := NewAdvisor().Suggest(withMissing)
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if suggestion != 3 {
		t.Errorf("Expected 3, got %d", suggestion)
	}
}

// TestSuggestEmptyInput verifies empty and all-missing input is rejected
func TestSuggestEmptyInput(t *testing.T) {
	advisor := NewAdvisor()

	if _, err := advisor.Suggest(nil); err == nil {
		t.Error("Expected error for empty input")
	}
	if _, err := advisor.Suggest([]float64{math.NaN()}); err == nil {
		t.Error("Expected error for all-missing input")
	}
}

// TestMedianInt covers odd and even candidate counts
func TestMedianInt(t *testing.T) {
	tests := []struct {
		candidates []int
		expected   int
	}{
		{[]int{3}, 3},
		{[]int{3, 5, 9}, 5},
		{[]int{5, 5, 8, 10}, 6},
		{[]int{10, 3}, 6},
	}

	for _, test := range tests {
		if got := medianInt(test.candidates); got != test.expected {
			t.Errorf("medianInt(%v) = %d, expected %d", test.candidates, got, test.expected)
		}
	}
}
