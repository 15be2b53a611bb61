package godde

import "github.com/soypat/godde/mesh"

// EventLog records every located event in ascending time order.
type EventLog struct {
	Xe []float64   // event times
	Ye [][]float64 // solution value at each event
	Ie []int       // index of the event-function component that fired
}

// Statistics counts integration work, mirroring the shape used by
// reference ODE solvers in this ecosystem (function evaluations, accepted
// and rejected steps).
type Statistics struct {
	NSteps  int // accepted steps
	NFailed int // rejected step attempts (error control + iteration failures)
	NFEvals int // calls to the right-hand side f
}

// Solution is the result of a solve: a continuous piecewise-cubic
// approximation plus its discontinuity list, event log and statistics. It
// is self-sufficient for continuation (it satisfies History) and for
// continuous evaluation via Hermite interpolation over any subinterval.
type Solution struct {
	mesh      *mesh.Store
	SolverTag string
	History   History
	Discont   []float64
	Events    EventLog
	Stats     Statistics
	Warning   *SolverError
}

// Evaluate implements History: for s before the solution's first mesh
// time it recurses into the solution's own history; otherwise it Hermite
// interpolates the bracketing mesh interval.
func (sol *Solution) Evaluate(s float64) []float64 {
	t0, _, _ := sol.mesh.At(0)
	if s < t0 {
		return sol.History.Evaluate(s)
	}
	idx, _ := sol.mesh.Locate(s)
	t, y, yp := sol.mesh.At(idx)
	t1, y1, yp1 := sol.mesh.At(idx + 1)
	return mesh.Eval(t, t1-t, y, yp, y1, yp1, s, nil)
}

// Len reports the number of mesh points.
func (sol *Solution) Len() int { return sol.mesh.Len() }

// At returns the i-th mesh triple (t, y, y').
func (sol *Solution) At(i int) (t float64, y, yp []float64) { return sol.mesh.At(i) }

// Last returns the final mesh triple.
func (sol *Solution) Last() (t float64, y, yp []float64) { return sol.mesh.Last() }

// X returns the mesh times.
func (sol *Solution) X() []float64 {
	out := make([]float64, sol.Len())
	for i := range out {
		out[i], _, _ = sol.mesh.At(i)
	}
	return out
}

// Y returns the mesh values, one slice per mesh point.
func (sol *Solution) Y() [][]float64 {
	out := make([][]float64, sol.Len())
	for i := range out {
		_, out[i], _ = sol.mesh.At(i)
	}
	return out
}

// YP returns the mesh slopes, one slice per mesh point.
func (sol *Solution) YP() [][]float64 {
	out := make([][]float64, sol.Len())
	for i := range out {
		_, _, out[i] = sol.mesh.At(i)
	}
	return out
}
