package godde

import (
	"math"
	"sort"

	"github.com/soypat/godde/mesh"
)

// locatedEvent is one root found within a single accepted step.
type locatedEvent struct {
	T        float64
	Y        []float64
	Index    int
	Terminal bool
}

// EventLocator detects sign changes of the user Events function across an
// accepted step and refines each one to a root on the dense output,
// classifying it terminal or continuing per the user's isTerminal flags
// and filtering by direction.
type EventLocator struct {
	Events EventsFunc
	Lag    *LagSampler
	Extras []interface{}
	VPrev  []float64
}

// Locate evaluates Events at the step endpoint (t+h) against the extended
// view (mesh plus the tentative/accepted endpoint triple), compares to
// VPrev, and bracket-refines every permitted sign change. Events are
// returned in ascending time order, ties broken by component index; the
// list stops at the first terminal event and any later ones are dropped,
// since the step will be truncated there.
func (el *EventLocator) Locate(t, h float64, y, yp, yNew, ypNew []float64, extView mesh.View) (events []locatedEvent, terminal bool) {
	tNew := t + h
	vNew, isTerminal, direction := el.Events(tNew, yNew, el.Lag.Sample(tNew, extView), el.Extras...)
	if el.VPrev == nil {
		el.VPrev = vNew
		return nil, false
	}

	type change struct {
		idx   int
		tRoot float64
		yRoot []float64
	}
	var found []change
	for i := range vNew {
		if sign(el.VPrev[i]) == sign(vNew[i]) {
			continue
		}
		if direction[i] > 0 && vNew[i] < el.VPrev[i] {
			continue
		}
		if direction[i] < 0 && vNew[i] > el.VPrev[i] {
			continue
		}
		idx := i
		g := func(s float64) float64 {
			ys := mesh.Eval(t, h, y, yp, yNew, ypNew, s, nil)
			z := el.Lag.Sample(s, extView)
			v, _, _ := el.Events(s, ys, z, el.Extras...)
			return v[idx]
		}
		tol := 1e-10 * math.Max(1, math.Abs(tNew))
		tRoot := bracketRoot(g, t, tNew, tol)
		yRoot := mesh.Eval(t, h, y, yp, yNew, ypNew, tRoot, nil)
		found = append(found, change{idx: idx, tRoot: tRoot, yRoot: yRoot})
	}
	sort.Slice(found, func(a, b int) bool {
		if found[a].tRoot != found[b].tRoot {
			return found[a].tRoot < found[b].tRoot
		}
		return found[a].idx < found[b].idx
	})

	el.VPrev = vNew
	for _, c := range found {
		events = append(events, locatedEvent{T: c.tRoot, Y: c.yRoot, Index: c.idx, Terminal: isTerminal[c.idx]})
		if isTerminal[c.idx] {
			return events, true
		}
	}
	return events, false
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// bracketRoot finds s in [a,b] with g(s) ~= 0 using a secant step bounded
// by bisection fallback (the "Illinois" variant of regula falsi), since
// the dense-output-composed g need not behave well enough for a bare
// secant iteration to stay inside the bracket.
func bracketRoot(g func(float64) float64, a, b, tol float64) float64 {
	fa, fb := g(a), g(b)
	if fa == 0 {
		return a
	}
	if fb == 0 {
		return b
	}
	side := 0 // which endpoint the previous iteration replaced: -1 a, +1 b
	for i := 0; i < 100; i++ {
		c := b - fb*(b-a)/(fb-fa)
		if c <= math.Min(a, b) || c >= math.Max(a, b) {
			c = 0.5 * (a + b)
		}
		fc := g(c)
		if math.Abs(fc) < tol || math.Abs(b-a) < tol {
			return c
		}
		if sign(fc) == sign(fa) {
			a, fa = c, fc
			if side == -1 {
				fb /= 2
			}
			side = -1
		} else {
			b, fb = c, fc
			if side == 1 {
				fa /= 2
			}
			side = 1
		}
	}
	return 0.5 * (a + b)
}
