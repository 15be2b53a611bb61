package godde

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"
)

// defaultSmoothnessLevel and raisedSmoothnessLevel are the L used by
// buildDiscont: 4 ordinarily, 5 when user Jumps or an InitialY override is
// present (both introduce a discontinuity that needs one extra level of
// propagation to stay hidden past the requested smoothness order).
const (
	defaultSmoothnessLevel = 4
	raisedSmoothnessLevel  = 5
)

// buildDiscont generates the sorted, deduplicated discontinuity list D:
// seed V1 from t0, user jumps and any carried-over discontinuities, then
// propagate V_(l+1) = {v + tau_j} through the lag set up to level,
// coalescing points within 10*eps relative spacing after every level. t0
// is removed from the final list; tf is appended unless a coalesced point
// already sits within tolerance of it.
func buildDiscont(t0, tf float64, tau, jumps, carryOver []float64, level int) []float64 {
	tauMax := maxFloat(tau)
	lowerBound := t0 - tauMax

	acc := []float64{t0}
	for _, j := range jumps {
		if j >= lowerBound && j <= tf {
			acc = append(acc, j)
		}
	}
	for _, c := range carryOver {
		if c >= lowerBound {
			acc = append(acc, c)
		}
	}
	acc = coalesce(acc)

	v := append([]float64(nil), acc...)
	for level > 0 && len(v) > 0 {
		var next []float64
		for _, t := range v {
			for _, tj := range tau {
				nt := t + tj
				if nt <= tf {
					next = append(next, nt)
				}
			}
		}
		acc = coalesce(append(acc, next...))
		v = next
		level--
	}

	out := acc[:0:0]
	for _, x := range acc {
		if !withinTol(x, t0) {
			out = append(out, x)
		}
	}
	if len(out) == 0 || !withinTol(out[len(out)-1], tf) {
		out = append(out, tf)
	}
	sort.Float64s(out)
	return out
}

// coalesce sorts v and merges entries whose relative spacing is within
// 10*eps, keeping the first of each cluster.
func coalesce(v []float64) []float64 {
	if len(v) == 0 {
		return v
	}
	sort.Float64s(v)
	out := v[:1]
	for _, x := range v[1:] {
		if withinTol(x, out[len(out)-1]) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// withinTol reports whether a and b sit within the "10*eps relative
// spacing" coalescing tolerance, using gonum's combined absolute/relative
// float comparison (the absolute term covers the t0==0 anchor case, where
// a pure relative test would degenerate to requiring bit-identical zeros).
func withinTol(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, 10*eps, 10*eps)
}

// maxFloat returns the largest entry, or 0 for an empty (lag-free) set.
func maxFloat(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// minFloat returns the smallest entry, or +Inf for an empty (lag-free)
// set, so callers that treat TauMin as "how close can the argument get
// before we must iterate" naturally never trigger on a plain ODE.
func minFloat(v []float64) float64 {
	if len(v) == 0 {
		return math.Inf(1)
	}
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
