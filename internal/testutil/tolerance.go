package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireAllZero fails t if any element of data is non-zero.
func RequireAllZero(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if v != 0 {
			t.Fatalf("index %d: got %v, want 0", i, v)
		}
	}
}

// RequireNoGain fails t if |out[i]| exceeds |in[i]| anywhere.
func RequireNoGain(t *testing.T, in, out []float64) {
	t.Helper()
	if len(in) != len(out) {
		t.Fatalf("length mismatch: in %d, out %d", len(in), len(out))
	}
	for i := range in {
		if math.Abs(out[i]) > math.Abs(in[i]) {
			t.Fatalf("index %d: |out| %v > |in| %v", i, math.Abs(out[i]), math.Abs(in[i]))
		}
	}
}

// MaxStep returns the largest absolute difference between neighbouring
// samples.
func MaxStep(x []float64) float64 {
	var step float64
	for i := 1; i < len(x); i++ {
		step = max(step, math.Abs(x[i]-x[i-1]))
	}
	return step
}

// MaxAbsDiff returns the maximum absolute difference between two slices of
// equal length. It returns +Inf when the lengths differ.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var maxDiff float64
	for i := range a {
		maxDiff = max(maxDiff, math.Abs(a[i]-b[i]))
	}
	return maxDiff
}
