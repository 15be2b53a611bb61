package godde

import (
	"math"
	"testing"
)

func TestWeightedNormMaxNorm(t *testing.T) {
	v := []float64{0.01, -0.2, 0.05}
	y := []float64{1, 1, 1}
	yNew := []float64{1, 1, 1}
	thr := []float64{1e-6, 1e-6, 1e-6}
	got := weightedNorm(v, y, yNew, thr, false)
	want := 0.2 // the worst component, denom = max(|y|,|yNew|,t) = 1
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("weightedNorm (max) = %v, want %v", got, want)
	}
}

func TestWeightedNormEuclideanSmallerThanMax(t *testing.T) {
	v := []float64{0.1, 0.1, 0.1, 0.1}
	y := make([]float64, 4)
	yNew := make([]float64, 4)
	thr := []float64{1, 1, 1, 1}
	euclid := weightedNorm(v, y, yNew, thr, true)
	maxn := weightedNorm(v, y, yNew, thr, false)
	if euclid > maxn+1e-12 {
		t.Errorf("euclidean norm %v should not exceed max norm %v for uniform components", euclid, maxn)
	}
	if math.Abs(euclid-0.1) > 1e-12 {
		t.Errorf("euclidean norm of uniform 0.1 components = %v, want 0.1", euclid)
	}
}

func TestDenomPicksLargestMagnitude(t *testing.T) {
	cases := []struct {
		y, yNew, thr, want float64
	}{
		{1, 2, 0.5, 2},
		{-5, 1, 0.5, 5},
		{0.1, 0.1, 3, 3},
	}
	for _, c := range cases {
		got := denom(c.y, c.yNew, c.thr)
		if got != c.want {
			t.Errorf("denom(%v,%v,%v) = %v, want %v", c.y, c.yNew, c.thr, got, c.want)
		}
	}
}
