package godde

import "github.com/soypat/godde/mesh"

// Butcher coefficients for the Bogacki-Shampine (2,3) pair used by
// Stepper, named to match the component design's b_ij / e_i labels.
const (
	bsB11 = 0.5
	bsB12 = 0.0
	bsB22 = 0.75
	bsB13 = 2.0 / 9.0
	bsB23 = 1.0 / 3.0
	bsB33 = 4.0 / 9.0

	bsE1 = -5.0 / 72.0
	bsE2 = 1.0 / 12.0
	bsE3 = 1.0 / 9.0
	bsE4 = -1.0 / 8.0
)

// maxInnerIter bounds the short-step fixed-point iteration.
const maxInnerIter = 5

// stepAttempt is the outcome of one Stepper.Attempt call.
type stepAttempt struct {
	TNew       float64
	YNew       []float64
	PNew       []float64 // p4, reused as next step's p1 under FSAL
	ErrNorm    float64
	Iterations int
	IterFailed bool
}

// Stepper evaluates one BS(2,3) step attempt: the three stage evaluations,
// the embedded error estimate, and -- when h exceeds the smallest lag --
// the inner fixed-point iteration that refines the delayed-argument
// samples against the step's own tentative endpoint.
type Stepper struct {
	F      RHS
	Lag    *LagSampler
	Extras []interface{}

	RelTol      float64
	AbsTol      []float64
	NormControl bool
	TauMin      float64

	nevals int
}

// Attempt performs one step from (t, y, p1) with trial size h against the
// base windowed mesh view (no tentative tail).
func (st *Stepper) Attempt(t float64, y, p1 []float64, h float64, view mesh.View) stepAttempt {
	n := len(y)
	t1 := t + h/2
	t2 := t + 3*h/4
	tNew := t + h

	y2 := make([]float64, n)
	y3 := make([]float64, n)
	yNew := make([]float64, n)
	var p2, p3, p4 []float64

	curView := view
	var prevYNew []float64
	iterating := st.TauMin < h
	iter := 0
	var iterFailed bool

	for {
		z1 := st.Lag.Sample(t1, curView)
		for i := 0; i < n; i++ {
			y2[i] = y[i] + h*bsB11*p1[i]
		}
		p2 = st.F(t1, y2, z1, st.Extras...)

		z2 := st.Lag.Sample(t2, curView)
		for i := 0; i < n; i++ {
			y3[i] = y[i] + h*(bsB12*p1[i]+bsB22*p2[i])
		}
		p3 = st.F(t2, y3, z2, st.Extras...)

		for i := 0; i < n; i++ {
			yNew[i] = y[i] + h*(bsB13*p1[i]+bsB23*p2[i]+bsB33*p3[i])
		}
		zNew := st.Lag.Sample(tNew, curView)
		p4 = st.F(tNew, yNew, zNew, st.Extras...)
		st.nevals += 3

		if !iterating {
			break
		}
		if iter > 0 {
			T := thresholdVector(st.AbsTol, st.RelTol, n)
			diff := make([]float64, n)
			for i := range diff {
				diff[i] = yNew[i] - prevYNew[i]
			}
			if weightedNorm(diff, y, yNew, T, st.NormControl) <= 0.1*st.RelTol {
				break
			}
		}
		iter++
		if iter >= maxInnerIter {
			iterFailed = true
			break
		}
		prevYNew = append([]float64(nil), yNew...)
		tailY := append([]float64(nil), yNew...)
		tailP := append([]float64(nil), p4...)
		curView = view.Extend(tNew, tailY, tailP)
	}

	errVec := make([]float64, n)
	for i := 0; i < n; i++ {
		errVec[i] = h * (bsE1*p1[i] + bsE2*p2[i] + bsE3*p3[i] + bsE4*p4[i])
	}
	T := thresholdVector(st.AbsTol, st.RelTol, n)
	errNorm := weightedNorm(errVec, y, yNew, T, st.NormControl)

	return stepAttempt{
		TNew:       tNew,
		YNew:       yNew,
		PNew:       p4,
		ErrNorm:    errNorm,
		Iterations: iter,
		IterFailed: iterFailed,
	}
}
