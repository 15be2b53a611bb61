package godde

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// weightedNorm computes the error-control norm of v against the
// denominator max(|y|, |yNew|, T), componentwise (max-norm) or, when
// normControl is set, as the root-mean-square of the weighted components
// (their Euclidean norm divided by sqrt(n)), per the weighted-norm
// definition used throughout step acceptance, convergence and the initial
// step heuristic.
func weightedNorm(v, y, yNew, t []float64, normControl bool) float64 {
	n := len(v)
	if !normControl {
		worst := 0.0
		for i := 0; i < n; i++ {
			den := denom(y[i], yNew[i], t[i])
			r := math.Abs(v[i]) / den
			if r > worst {
				worst = r
			}
		}
		return worst
	}
	ratios := make([]float64, n)
	for i := 0; i < n; i++ {
		ratios[i] = v[i] / denom(y[i], yNew[i], t[i])
	}
	return floats.Norm(ratios, 2) / math.Sqrt(float64(n))
}

func denom(y, yNew, t float64) float64 {
	d := math.Abs(y)
	if a := math.Abs(yNew); a > d {
		d = a
	}
	if t > d {
		d = t
	}
	return d
}
