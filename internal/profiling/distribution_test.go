package profiling

import (
	"math"
	"testing"
)

func TestSummarizeBasicStats(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	summary, err := Summarize(values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Count != 8 {
		t.Errorf("Expected count 8, got %d", summary.Count)
	}
	if math.Abs(summary.Mean-5.0) > 1e-12 {
		t.Errorf("Expected mean 5.0, got %f", summary.Mean)
	}
	if summary.Min != 2 || summary.Max != 9 {
		t.Errorf("Expected min 2 max 9, got %f and %f", summary.Min, summary.Max)
	}
	if summary.Range != 7 {
		t.Errorf("Expected range 7, got %f", summary.Range)
	}
	if summary.Unique != 5 {
		t.Errorf("Expected 5 unique values, got %d", summary.Unique)
	}
	if summary.Missing != 0 {
		t.Errorf("Expected 0 missing values, got %d", summary.Missing)
	}

	// Sample standard deviation of this set is sqrt(32/7)
	expectedStd := math.Sqrt(32.0 / 7.0)
	if math.Abs(summary.StdDev-expectedStd) > 1e-9 {
		t.Errorf("Expected std %f, got %f", expectedStd, summary.StdDev)
	}
}

func TestSummarizeExcludesMissing(t *testing.T) {
	values := []float64{1, 2, math.NaN(), 4, 5, math.NaN()}

	summary, err := Summarize(values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Count != 4 {
		t.Errorf("Expected count 4 excluding missing, got %d", summary.Count)
	}
	if summary.Missing != 2 {
		t.Errorf("Expected 2 missing values, got %d", summary.Missing)
	}
	if summary.Mean != 3.0 {
		t.Errorf("Expected mean 3.0 over non-missing values, got %f", summary.Mean)
	}
}

func TestSummarizeSymmetricSkewness(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}

	summary, err := Summarize(values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if math.Abs(summary.Skewness) > 1e-9 {
		t.Errorf("Expected zero skewness for symmetric data, got %f", summary.Skewness)
	}
}

func TestSummarizeSkewedData(t *testing.T) {
	// Heavy right tail
	values := []float64{1, 1, 1, 1, 1, 2, 2, 3, 50}

	summary, err := Summarize(values)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Skewness < 1 {
		t.Errorf("Expected strong positive skewness, got %f", summary.Skewness)
	}
	if summary.IsNormal {
		t.Error("Heavily skewed data should not pass the normality screen")
	}
}

func TestSummarizeConstantColumn(t *testing.T) {
	summary, err := Summarize([]float64{10, 10, 10, 10})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.StdDev != 0 {
		t.Errorf("Expected zero std for constant column, got %f", summary.StdDev)
	}
	if summary.Skewness != 0 || summary.Kurtosis != 0 {
		t.Errorf("Expected zero shape moments for constant column, got skew=%f kurt=%f",
			summary.Skewness, summary.Kurtosis)
	}
	if summary.Unique != 1 {
		t.Errorf("Expected 1 unique value, got %d", summary.Unique)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	if _, err := Summarize(nil); err == nil {
		t.Error("Expected error for empty input")
	}
	if _, err := Summarize([]float64{math.NaN(), math.NaN()}); err == nil {
		t.Error("Expected error for all-missing input")
	}
}
