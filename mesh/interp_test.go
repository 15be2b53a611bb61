package mesh

import (
	"math"
	"testing"
)

func TestEvalMatchesEndpoints(t *testing.T) {
	// H(t) must reproduce y, and H(t+h) must reproduce ynew, to rounding
	// (s=0 kills every s term; at s=1 yp + c + d sums to slope, so the
	// terms add up to h*slope = ynew - y).
	cases := []struct {
		t, h         float64
		y, yp        []float64
		ynew, ypnew  []float64
	}{
		{0, 1, []float64{1, -2}, []float64{0.5, 1}, []float64{1.3, -1.7}, []float64{0.2, 0.4}},
		{5, 0.25, []float64{0}, []float64{1}, []float64{0.25}, []float64{1}},
	}
	for _, c := range cases {
		got := Eval(c.t, c.h, c.y, c.yp, c.ynew, c.ypnew, c.t, nil)
		for i := range got {
			if math.Abs(got[i]-c.y[i]) > 1e-12 {
				t.Errorf("Eval at t: got %v, want %v", got[i], c.y[i])
			}
		}
		got = Eval(c.t, c.h, c.y, c.yp, c.ynew, c.ypnew, c.t+c.h, nil)
		for i := range got {
			if math.Abs(got[i]-c.ynew[i]) > 1e-12 {
				t.Errorf("Eval at t+h: got %v, want %v", got[i], c.ynew[i])
			}
		}
	}
}

func TestEvalDerivMatchesEndpointSlopes(t *testing.T) {
	tt, h := 0.0, 2.0
	y := []float64{1}
	yp := []float64{0.5}
	ynew := []float64{2.3}
	ypnew := []float64{0.9}

	d0 := EvalDeriv(tt, h, y, yp, ynew, ypnew, tt, nil)
	if math.Abs(d0[0]-yp[0]*h) > 1e-9 {
		// EvalDeriv returns h*dH/dt; at s=0 that's h*yp.
		t.Errorf("EvalDeriv(s=0) = %v, want H'(0) consistent with yp*h = %v", d0[0], yp[0]*h)
	}
	d1 := EvalDeriv(tt, h, y, yp, ynew, ypnew, tt+h, nil)
	if math.Abs(d1[0]-ypnew[0]*h) > 1e-9 {
		t.Errorf("EvalDeriv(s=1) = %v, want H'(1) consistent with ypnew*h = %v", d1[0], ypnew[0]*h)
	}
}

func TestEvalLinearReproducesLine(t *testing.T) {
	// A straight line y = a + b*t must interpolate exactly regardless of
	// where it's sampled within the interval.
	a, b := 3.0, -1.5
	t0, h := 1.0, 0.5
	y := []float64{a + b*t0}
	yp := []float64{b}
	t1 := t0 + h
	ynew := []float64{a + b*t1}
	ypnew := []float64{b}

	for _, s := range []float64{t0, t0 + 0.1, t0 + 0.25, t0 + 0.4, t1} {
		got := Eval(t0, h, y, yp, ynew, ypnew, s, nil)
		want := a + b*s
		if math.Abs(got[0]-want) > 1e-10 {
			t.Errorf("Eval(%v) = %v, want %v", s, got[0], want)
		}
	}
}

func TestResizeReusesCapacity(t *testing.T) {
	buf := make([]float64, 0, 4)
	out := resize(buf, 3)
	if len(out) != 3 || cap(out) != cap(buf) {
		t.Errorf("resize grew/shrunk unexpectedly: len=%d cap=%d", len(out), cap(out))
	}
	out2 := resize(nil, 2)
	if len(out2) != 2 {
		t.Errorf("resize(nil, 2) len = %d, want 2", len(out2))
	}
}
