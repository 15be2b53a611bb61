package godde

import (
	"github.com/soypat/godde/mesh"
	"gonum.org/v1/gonum/mat"
)

// LagSampler answers y(t - tau_j) for every lag, dispatching between the
// History, Hermite interpolation of the windowed mesh view, and (through
// the view's tentative tail) the in-progress step's own extrapolated
// endpoint.
type LagSampler struct {
	Hist History
	Tau  []float64
	N    int
}

// Sample returns Z, the n-by-k matrix whose j-th column is y(tNow -
// tau_j), preserving lag order. Z is nil when there are no lags (a
// plain ODE): RHS/EventsFunc implementations for that case simply
// never dereference it.
func (ls *LagSampler) Sample(tNow float64, view mesh.View) *mat.Dense {
	k := len(ls.Tau)
	if k == 0 {
		return nil
	}
	z := mat.NewDense(ls.N, k, nil)
	for j, tau := range ls.Tau {
		z.SetCol(j, ls.sampleOne(tNow-tau, view))
	}
	return z
}

func (ls *LagSampler) sampleOne(s float64, view mesh.View) []float64 {
	if view.Len() == 0 {
		return ls.Hist.Evaluate(s)
	}
	t0, _, _ := view.At(0)
	if s < t0 {
		return ls.Hist.Evaluate(s)
	}
	idx, _ := view.Locate(s)
	t, y, p := view.At(idx)
	t1, y1, p1 := view.At(idx + 1)
	return mesh.Eval(t, t1-t, y, p, y1, p1, s, nil)
}
