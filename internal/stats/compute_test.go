package stats

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	if got := Mean([]float64{4}); got != 4 {
		t.Errorf("expected 4, got %f", got)
	}
	if got := Mean([]float64{1, 2, 3, 4}); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("expected 2.5, got %f", got)
	}
}

func TestStddev(t *testing.T) {
	// Fewer than two samples has no spread.
	if got := Stddev(nil, 0); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	if got := Stddev([]float64{5}, 5); got != 0 {
		t.Errorf("expected 0 for single sample, got %f", got)
	}

	// Sample stddev of [2,4,4,4,5,5,7,9] around mean 5: sqrt(32/7) ≈ 2.1381
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := Mean(values)
	if math.Abs(mean-5) > 1e-9 {
		t.Fatalf("expected mean 5, got %f", mean)
	}
	if got := Stddev(values, mean); math.Abs(got-2.1381) > 0.0001 {
		t.Errorf("expected stddev ~2.1381, got %f", got)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	if got := Percentile([]float64{7}, 0.95); got != 7 {
		t.Errorf("expected single value, got %f", got)
	}

	// Linear interpolation: p50 lands on the middle element.
	if got := Percentile(sorted, 0.50); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("expected p50 3.0, got %f", got)
	}
	// p5: index 0.05*4 = 0.2 → 1 + 0.2*(2-1) = 1.2
	if got := Percentile(sorted, 0.05); math.Abs(got-1.2) > 1e-9 {
		t.Errorf("expected p5 1.2, got %f", got)
	}
	// p95: index 3.8 → 4 + 0.8*(5-4) = 4.8
	if got := Percentile(sorted, 0.95); math.Abs(got-4.8) > 1e-9 {
		t.Errorf("expected p95 4.8, got %f", got)
	}
	// p100 clamps to the maximum.
	if got := Percentile(sorted, 1.0); got != 5 {
		t.Errorf("expected p100 5, got %f", got)
	}
	if got := Percentile(sorted, 0); got != 1 {
		t.Errorf("expected p0 1, got %f", got)
	}
}

func TestNearestRankIndex(t *testing.T) {
	if got := NearestRankIndex(0, 0.5); got != 0 {
		t.Errorf("expected 0 for empty, got %d", got)
	}
	if got := NearestRankIndex(1, 0.95); got != 0 {
		t.Errorf("expected 0 for single item, got %d", got)
	}

	// 200 items: p5 → round(9.95) = 10, p50 → round(99.5) = 100,
	// p95 → round(189.05) = 189.
	if got := NearestRankIndex(200, 0.05); got != 10 {
		t.Errorf("expected index 10, got %d", got)
	}
	if got := NearestRankIndex(200, 0.50); got != 100 {
		t.Errorf("expected index 100, got %d", got)
	}
	if got := NearestRankIndex(200, 0.95); got != 189 {
		t.Errorf("expected index 189, got %d", got)
	}
	if got := NearestRankIndex(200, 0); got != 0 {
		t.Errorf("expected index 0, got %d", got)
	}
	if got := NearestRankIndex(200, 1.0); got != 199 {
		t.Errorf("expected index 199, got %d", got)
	}
}

func TestSortedCopy(t *testing.T) {
	input := []float64{3, 1, 2}
	out := SortedCopy(input)

	if out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Errorf("expected sorted output, got %v", out)
	}
	// Input must stay untouched.
	if input[0] != 3 || input[1] != 1 || input[2] != 2 {
		t.Errorf("expected input unchanged, got %v", input)
	}
}
