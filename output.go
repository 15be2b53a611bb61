package godde

// OutputSink receives the integration's output stream: an Init call before
// the loop starts, one Point call per emitted sample in non-decreasing
// time order, and exactly one Done call before Solve returns once Init has
// been called (including after an Init failure or a tolerance-not-met
// stop). Validation errors are raised before Init, so neither Init nor
// Done is called for them. Point's return status is cooperative cancellation: a
// nonzero status sets done and triggers graceful finalisation, with no
// further stages.
type OutputSink interface {
	Init(t0 float64, y0 []float64) error
	Point(t float64, y []float64) (status int)
	Done()
}

// NopSink discards all output. It is the default sink used when no
// OutputSink is supplied.
type NopSink struct{}

func (NopSink) Init(float64, []float64) error { return nil }
func (NopSink) Point(float64, []float64) int  { return 0 }
func (NopSink) Done()                         {}

// CollectSink accumulates every emitted point into slices, for callers
// that want the output stream without writing their own sink.
type CollectSink struct {
	T []float64
	Y [][]float64
}

func (c *CollectSink) Init(t0 float64, y0 []float64) error {
	c.T = append(c.T, t0)
	c.Y = append(c.Y, append([]float64(nil), y0...))
	return nil
}

func (c *CollectSink) Point(t float64, y []float64) int {
	c.T = append(c.T, t)
	c.Y = append(c.Y, append([]float64(nil), y...))
	return 0
}

func (c *CollectSink) Done() {}

// outputCursor drives the emission policy selected by t_span length and
// Refine: interior requested times take priority over Refine; otherwise
// Refine<=1 emits every accepted step and Refine>1 emits Refine-1
// equispaced interior points plus the endpoint.
type outputCursor struct {
	requested []float64 // interior tspan times, empty unless len(tspan) > 2
	idx       int
	refine    int
	sel       []int // OutputSel component indices; empty means "all"
}

func newOutputCursor(tspan []float64, refine int, sel []int) *outputCursor {
	oc := &outputCursor{refine: refine, sel: sel}
	if len(tspan) > 2 {
		oc.requested = tspan[1 : len(tspan)-1]
	}
	return oc
}

// selected projects y onto the OutputSel index list, or returns it
// unchanged when no selection was requested.
func (oc *outputCursor) selected(y []float64) []float64 {
	return selectComponents(y, oc.sel)
}

// selectComponents projects y onto sel's index list, or returns y
// unchanged when sel is empty (no OutputSel restriction requested).
func selectComponents(y []float64, sel []int) []float64 {
	if len(sel) == 0 {
		return y
	}
	out := make([]float64, len(sel))
	for i, idx := range sel {
		out[i] = y[idx]
	}
	return out
}

// emit walks the accepted interval (t, t+h] and calls sink.Point for every
// sample the policy selects, returning the first nonzero cancellation
// status encountered (0 if none).
func (oc *outputCursor) emit(sink OutputSink, t, h float64, y, yp, yNew, ypNew []float64, evalAt func(s float64) []float64) int {
	if len(oc.requested) > 0 {
		for oc.idx < len(oc.requested) && oc.requested[oc.idx] <= t+h {
			s := oc.requested[oc.idx]
			if status := sink.Point(s, oc.selected(evalAt(s))); status != 0 {
				return status
			}
			oc.idx++
		}
		return 0
	}
	if oc.refine <= 1 {
		return sink.Point(t+h, oc.selected(yNew))
	}
	for r := 1; r < oc.refine; r++ {
		s := t + float64(r)*h/float64(oc.refine)
		if status := sink.Point(s, oc.selected(evalAt(s))); status != 0 {
			return status
		}
	}
	return sink.Point(t+h, oc.selected(yNew))
}
