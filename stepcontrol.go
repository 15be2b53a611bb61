package godde

import "math"

// StepController is the PI-free error controller: it produces the next
// trial step size from the accepted/rejected error history, enforces
// HMin/HMax, and snaps the step to land exactly on upcoming tracked
// discontinuities or to clear the smallest lag.
type StepController struct {
	H      float64
	HMin   float64
	HMax   float64
	TauMin float64

	failCount int
}

// Success computes h' after an accepted step with error ratio
// errRatio = errNorm/RelTol (<=1): h' = h / max(0.2, 1.25*errRatio^(1/3)),
// capped at 5x growth and clamped to [HMin, HMax].
func (sc *StepController) Success(errRatio float64) {
	factor := math.Max(0.2, 1.25*math.Cbrt(errRatio))
	h := sc.H / factor
	if h > 5*sc.H {
		h = 5 * sc.H
	}
	sc.H = clamp(h, sc.HMin, sc.HMax)
	sc.failCount = 0
}

// Failure computes h' after a rejected step with error ratio errRatio =
// errNorm/RelTol (>1): the first failure shrinks by
// max(0.5, 0.8*(1/errRatio)^(1/3)), subsequent consecutive failures just
// halve.
func (sc *StepController) Failure(errRatio float64) {
	sc.failCount++
	if sc.failCount == 1 {
		factor := math.Max(0.5, 0.8*math.Cbrt(1/errRatio))
		sc.H = math.Max(sc.HMin, sc.H*factor)
	} else {
		sc.H = math.Max(sc.HMin, sc.H*0.5)
	}
}

// IterationFailure handles the inner fixed-point iteration's failure to
// converge: halve h, snapping up to TauMin if that would push h below
// 2*TauMin. This snap has no counterpart in the ordinary Failure path;
// the asymmetry is preserved from the source rather than "fixed".
func (sc *StepController) IterationFailure() {
	h := 0.5 * sc.H
	if h < 2*sc.TauMin {
		h = sc.TauMin
	}
	sc.H = h
	sc.failCount++
}

// SnapToDiscont enforces the look-ahead rule: if the next tracked
// discontinuity is within 1.1*h (clamped to HMax), jump exactly onto it;
// if it's within 2h, halve the distance instead so the following step can
// land on it precisely.
func (sc *StepController) SnapToDiscont(t, dNext float64) (hit bool) {
	delta := dNext - t
	if delta <= 0 {
		return false
	}
	if math.Min(1.1*sc.H, sc.HMax) >= delta {
		sc.H = delta
		return true
	}
	if 2*sc.H >= delta {
		sc.H = delta / 2
	}
	return false
}

// SnapToLag enforces: when not about to hit a discontinuity and
// TauMin < H < 2*TauMin, set H := TauMin, guaranteeing the inner iteration
// never has to deal with an awkwardly-sized first overshoot of the lag.
func (sc *StepController) SnapToLag() {
	if sc.H > sc.TauMin && sc.H < 2*sc.TauMin {
		sc.H = sc.TauMin
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// epsAt is the machine epsilon scaled to t's magnitude (the ULP at t),
// used for HMin = 16*epsAt(t).
func epsAt(t float64) float64 {
	if t == 0 {
		return eps
	}
	return math.Abs(math.Nextafter(t, math.Inf(1)) - t)
}

// initialStep computes h0 per the automatic-initial-step heuristic: start
// from min(HMax, tf-t0), shrink so the weighted norm of h0*f(t0) stays
// under 0.8*RelTol^(1/3), then cap at 0.5*TauMin so the very first step
// never queries inside itself.
func initialStep(t0, tf, hMax, tauMin, relTol float64, f0, y0, threshold []float64, normControl bool) float64 {
	h0 := math.Min(hMax, tf-t0)
	fnorm := weightedNorm(f0, y0, y0, threshold, normControl)
	if fnorm > 0 {
		ratio := h0 * fnorm / (0.8 * math.Cbrt(relTol))
		if ratio > 1 {
			h0 /= ratio
		}
	}
	if h0 > 0.5*tauMin {
		h0 = 0.5 * tauMin
	}
	return h0
}
