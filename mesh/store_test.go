package mesh

import "testing"

func buildStore(t *testing.T, times []float64) *Store {
	t.Helper()
	s := NewStore(1)
	for _, tv := range times {
		s.Append(tv, []float64{tv}, []float64{1})
	}
	return s
}

func TestStoreAppendMonotone(t *testing.T) {
	s := buildStore(t, []float64{0, 1, 2, 3})
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	for i := 0; i < s.Len(); i++ {
		tv, y, p := s.At(i)
		if y[0] != tv || p[0] != 1 {
			t.Errorf("At(%d) = (%v, %v, %v), want (t, t, 1)", i, tv, y, p)
		}
	}
	last, _, _ := s.Last()
	if last != 3 {
		t.Errorf("Last() time = %v, want 3", last)
	}
}

func TestStoreLocateBrackets(t *testing.T) {
	s := buildStore(t, []float64{0, 1, 2, 3, 4})
	cases := []struct {
		query   float64
		wantIdx int
		wantExt bool
	}{
		{0.5, 0, false},
		{1.0, 1, false},
		{3.9, 3, false},
		{4.0, 3, true}, // at the final mesh time: extrapolation interval
		{10, 3, true},
	}
	for _, c := range cases {
		idx, ext := s.Locate(c.query)
		if idx != c.wantIdx || ext != c.wantExt {
			t.Errorf("Locate(%v) = (%d, %v), want (%d, %v)", c.query, idx, ext, c.wantIdx, c.wantExt)
		}
	}
}

func TestStoreWindowSlidesForward(t *testing.T) {
	s := buildStore(t, []float64{0, 1, 2, 3, 4, 5})
	v1 := s.Window(2.5)
	t0, _, _ := v1.At(0)
	if t0 > 2.5 {
		t.Errorf("Window(2.5) starts at %v, want <= 2.5", t0)
	}
	v2 := s.Window(4.5)
	t0b, _, _ := v2.At(0)
	if t0b > 4.5 {
		t.Errorf("Window(4.5) starts at %v, want <= 4.5", t0b)
	}
	// The cursor only moves forward: a later Window call must never
	// start earlier than an prior one.
	if t0b < t0 {
		t.Errorf("Window cursor moved backwards: %v then %v", t0, t0b)
	}
}

func TestViewExtendAddsTailWithoutMutatingBase(t *testing.T) {
	s := buildStore(t, []float64{0, 1, 2})
	base := s.Window(0)
	if base.Len() != 3 {
		t.Fatalf("base view Len() = %d, want 3", base.Len())
	}
	ext := base.Extend(3, []float64{3}, []float64{1})
	if ext.Len() != 4 {
		t.Errorf("extended view Len() = %d, want 4", ext.Len())
	}
	if base.Len() != 3 {
		t.Errorf("Extend mutated the base view: Len() = %d, want 3", base.Len())
	}
	tv, y, _ := ext.At(3)
	if tv != 3 || y[0] != 3 {
		t.Errorf("extended tail At(3) = (%v, %v), want (3, [3])", tv, y)
	}
}

func TestViewLocateWithTail(t *testing.T) {
	s := buildStore(t, []float64{0, 1})
	base := s.Window(0)
	ext := base.Extend(2, []float64{2}, []float64{1})
	idx, extrap := ext.Locate(1.5)
	if idx != 1 || extrap {
		t.Errorf("Locate(1.5) = (%d, %v), want (1, false)", idx, extrap)
	}
	idx, extrap = ext.Locate(2.0)
	if idx != 1 || !extrap {
		t.Errorf("Locate(2.0) = (%d, %v), want (1, true)", idx, extrap)
	}
}

func TestViewLocateDegenerateSinglePoint(t *testing.T) {
	s := buildStore(t, []float64{0})
	v := s.Window(0)
	idx, extrap := v.Locate(5)
	if idx != 0 || !extrap {
		t.Errorf("Locate on a single-point view = (%d, %v), want (0, true)", idx, extrap)
	}
}
