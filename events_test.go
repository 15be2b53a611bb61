package godde

import (
	"math"
	"testing"
)

func TestSign(t *testing.T) {
	cases := []struct {
		v    float64
		want int
	}{
		{1.5, 1}, {-0.01, -1}, {0, 0},
	}
	for _, c := range cases {
		if got := sign(c.v); got != c.want {
			t.Errorf("sign(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestBracketRootLinear(t *testing.T) {
	g := func(s float64) float64 { return s - 0.7 }
	root := bracketRoot(g, 0, 1, 1e-12)
	if math.Abs(root-0.7) > 1e-9 {
		t.Errorf("bracketRoot(linear) = %v, want 0.7", root)
	}
}

func TestBracketRootNonlinear(t *testing.T) {
	// g(s) = s^2 - 0.49, root at s=0.7 within [0,1].
	g := func(s float64) float64 { return s*s - 0.49 }
	root := bracketRoot(g, 0, 1, 1e-10)
	if math.Abs(root-0.7) > 1e-6 {
		t.Errorf("bracketRoot(quadratic) = %v, want 0.7", root)
	}
}

func TestBracketRootHandlesExactEndpoint(t *testing.T) {
	g := func(s float64) float64 { return s - 1 }
	root := bracketRoot(g, 0, 1, 1e-12)
	if root != 1 {
		t.Errorf("bracketRoot should return the exact endpoint root, got %v", root)
	}
}
