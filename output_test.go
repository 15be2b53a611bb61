package godde

import "testing"

func TestSelectComponentsProjectsSubset(t *testing.T) {
	y := []float64{10, 20, 30}
	got := selectComponents(y, []int{2, 0})
	want := []float64{30, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selectComponents(%v, [2 0])[%d] = %v, want %v", y, i, got[i], want[i])
		}
	}
}

func TestSelectComponentsEmptySelReturnsUnchanged(t *testing.T) {
	y := []float64{1, 2, 3}
	got := selectComponents(y, nil)
	if &got[0] != &y[0] {
		t.Error("selectComponents with an empty selector should return y unchanged, not a copy")
	}
}

func TestOutputCursorAppliesOutputSel(t *testing.T) {
	oc := newOutputCursor([]float64{0, 1}, 1, []int{1})
	sink := &CollectSink{}
	y := []float64{100, 200}
	yp := []float64{0, 0}
	evalAt := func(float64) []float64 { return y }
	if status := oc.emit(sink, 0, 1, y, yp, y, yp, evalAt); status != 0 {
		t.Fatalf("emit returned nonzero status %d", status)
	}
	if len(sink.Y) != 1 || len(sink.Y[0]) != 1 || sink.Y[0][0] != 200 {
		t.Errorf("emitted point = %v, want [[200]] (component index 1 only)", sink.Y)
	}
}
