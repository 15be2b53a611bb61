package mesh

import "sort"

// chunkSteps is the default geometric growth hint: preallocate room for
// this many accepted steps (or 2^13/n triples, whichever is smaller, per
// the component's memory model) before the next reallocation.
const chunkSteps = 100

// Store is an append-only sequence of (t, y, y') triples: the accepted
// solution mesh. It supports bisection lookup of the interval bracketing a
// query time and a windowed, amortised-constant-time view that starts at
// the last mesh point before a caller-supplied lower bound.
//
// A Store is never rewritten in place; only Append grows it.
type Store struct {
	t []float64
	y [][]float64
	p [][]float64

	winIdx int // sliding lower-bound cursor for Window
}

// NewStore creates an empty mesh sized for n-vectors, with room for an
// initial chunk of steps preallocated.
func NewStore(n int) *Store {
	cap := chunkSteps
	if alt := (1 << 13) / max(n, 1); alt < cap {
		cap = alt
	}
	return &Store{
		t: make([]float64, 0, cap),
		y: make([][]float64, 0, cap),
		p: make([][]float64, 0, cap),
	}
}

// Append adds an accepted mesh point. y and p are copied; the caller's
// slices may be reused afterwards.
func (s *Store) Append(t float64, y, p []float64) {
	s.t = append(s.t, t)
	s.y = append(s.y, cloneVec(y))
	s.p = append(s.p, cloneVec(p))
}

// Len reports the number of mesh points.
func (s *Store) Len() int { return len(s.t) }

// At returns the i-th mesh triple.
func (s *Store) At(i int) (t float64, y, p []float64) {
	return s.t[i], s.y[i], s.p[i]
}

// Last returns the most recently appended triple. Panics if the store is
// empty.
func (s *Store) Last() (t float64, y, p []float64) {
	i := len(s.t) - 1
	return s.t[i], s.y[i], s.p[i]
}

// Locate returns the index i such that t[i] <= sQuery < t[i+1] via binary
// search. If sQuery is at or beyond the final mesh time, it returns
// len-2 (the last interval, to be used for extrapolation) and extrapolate
// is true.
func (s *Store) Locate(sQuery float64) (i int, extrapolate bool) {
	n := len(s.t)
	if sQuery >= s.t[n-1] {
		return n - 2, true
	}
	// sort.Search finds the smallest index j with t[j] > sQuery.
	j := sort.Search(n, func(j int) bool { return s.t[j] > sQuery })
	if j == 0 {
		j = 1
	}
	return j - 1, false
}

// Window returns a read-only View that starts at the last mesh point with
// time strictly before lowerBound (or at the first point, if none is), so
// the interval bracketing lowerBound stays visible. It advances a sliding
// cursor that only ever moves
// forward (the lag-evaluation windows are monotonically non-decreasing
// across a forward integration, so the search is amortised O(1) per
// call over a whole run).
func (s *Store) Window(lowerBound float64) View {
	n := len(s.t)
	for s.winIdx < n-1 && s.t[s.winIdx+1] < lowerBound {
		s.winIdx++
	}
	if s.winIdx < 0 {
		s.winIdx = 0
	}
	return View{t: s.t[s.winIdx:], y: s.y[s.winIdx:], p: s.p[s.winIdx:]}
}

// View is a read-only, index-based accessor over a windowed slice of a
// Store, optionally extended with one tentative tail triple appended by an
// in-progress step. It never copies the base slices.
type View struct {
	t []float64
	y [][]float64
	p [][]float64

	hasTail bool
	tailT   float64
	tailY   []float64
	tailP   []float64
}

// Len reports the number of points visible through the view, including any
// tentative tail.
func (v View) Len() int {
	n := len(v.t)
	if v.hasTail {
		n++
	}
	return n
}

// At returns the i-th point visible through the view.
func (v View) At(i int) (t float64, y, p []float64) {
	if i < len(v.t) {
		return v.t[i], v.y[i], v.p[i]
	}
	return v.tailT, v.tailY, v.tailP
}

// Extend returns a copy of the view with a tentative triple appended,
// modelling "mesh plus one appended tentative triple" without copying the
// base window.
func (v View) Extend(t float64, y, p []float64) View {
	ext := v
	ext.hasTail = true
	ext.tailT, ext.tailY, ext.tailP = t, y, p
	return ext
}

// Locate returns the index i such that point i brackets sQuery from below
// (point i time <= sQuery), searching the base window and, if present, the
// tentative tail. If sQuery is at or beyond the last visible time, it
// returns Len()-2 for extrapolation purposes and extrapolate is true.
func (v View) Locate(sQuery float64) (i int, extrapolate bool) {
	n := v.Len()
	if n < 2 {
		return 0, true
	}
	lastT, _, _ := v.At(n - 1)
	if sQuery >= lastT {
		return n - 2, true
	}
	j := sort.Search(n, func(j int) bool {
		t, _, _ := v.At(j)
		return t > sQuery
	})
	if j == 0 {
		j = 1
	}
	return j - 1, false
}

func cloneVec(v []float64) []float64 {
	cp := make([]float64, len(v))
	copy(cp, v)
	return cp
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
