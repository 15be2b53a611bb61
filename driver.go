package godde

import (
	"math"

	"github.com/soypat/godde/mesh"
)

// Solve integrates the DDE system y'(t) = f(t, y(t), y(t-tau_1), ...,
// y(t-tau_k)) over tspan, given the lag set tau, a history for (-Inf,
// t0], and solve options. Interior entries of tspan (if any) are
// requested output points. extras are forwarded, unmodified, to f, the
// history and the event function.
//
// Unrecoverable configuration errors (bad shapes, invalid options, a
// continuation mismatch) are returned as *SolverError before any
// integration happens. ToleranceNotMet and InconsistentPrecision are
// non-fatal: Solve returns a finalised Solution with Solution.Warning set
// instead of a failing error.
func Solve(f RHS, tau []float64, history interface{}, tspan []float64, opts Options, extras ...interface{}) (sol *Solution, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SolverError); ok {
				sol, err = nil, se
				return
			}
			panic(r)
		}
	}()

	if len(tspan) < 2 {
		throwf(ErrInputShape, "t_span must have at least 2 entries, got %d", len(tspan))
	}
	t0, tf := tspan[0], tspan[len(tspan)-1]
	if tf <= t0 {
		throwf(ErrInputShape, "t_span[0] must be < t_span[end], got %v >= %v", t0, tf)
	}
	for _, tj := range tau {
		if tj <= 0 {
			throwf(ErrInputShape, "lags must be strictly positive, got %v", tj)
		}
	}

	priorSol, continuing := history.(*Solution)
	if continuing {
		lastT, _, _ := priorSol.Last()
		if !withinTol(lastT, t0) {
			throwf(ErrContinuationMismatch, "prior solution ends at %v, want t_span[0] = %v", lastT, t0)
		}
	}

	hist := newHistory(history, extras)

	var y0 []float64
	switch {
	case opts.InitialY != nil:
		y0 = append([]float64(nil), opts.InitialY...)
	default:
		y0 = hist.Evaluate(t0)
	}
	n := len(y0)
	if n == 0 {
		throwf(ErrInputShape, "history/InitialY produced an empty state vector")
	}

	opts = opts.withDefaults(t0, tf, n)
	opts.verify(n)

	level := defaultSmoothnessLevel
	if len(opts.Jumps) > 0 || opts.InitialY != nil {
		level = raisedSmoothnessLevel
	}
	var carryOver []float64
	if continuing {
		carryOver = priorSol.Discont
	}
	tauMax := maxFloat(tau)
	tauMin := minFloat(tau)
	discont := buildDiscont(t0, tf, tau, opts.Jumps, carryOver, level)

	store := mesh.NewStore(n)
	if continuing {
		for i := 0; i < priorSol.Len()-1; i++ {
			t, y, yp := priorSol.At(i)
			store.Append(t, y, yp)
		}
	}

	lag := &LagSampler{Hist: hist, Tau: tau, N: n}
	stepper := &Stepper{
		F: f, Lag: lag, Extras: extras,
		RelTol: opts.RelTol, AbsTol: opts.AbsTol, NormControl: opts.NormControl,
		TauMin: tauMin,
	}

	threshold := thresholdVector(opts.AbsTol, opts.RelTol, n)
	p0 := f(t0, y0, lag.Sample(t0, store.Window(t0-tauMax-opts.MaxStep)), extras...)
	if len(p0) != n {
		throwf(ErrInputShape, "f returned a vector of length %d at t0, want %d", len(p0), n)
	}

	sc := &StepController{
		HMin:   16 * epsAt(t0),
		HMax:   opts.MaxStep,
		TauMin: tauMin,
	}
	if opts.InitialStep > 0 {
		sc.H = opts.InitialStep
	} else {
		sc.H = initialStep(t0, tf, opts.MaxStep, tauMin, opts.RelTol, p0, y0, threshold, opts.NormControl)
	}
	sc.H = clamp(sc.H, sc.HMin, sc.HMax)

	store.Append(t0, y0, p0)

	var stats Statistics
	logger := newLogger(opts.LogOutput)

	outSel := selectComponents(y0, opts.OutputSel)
	if err := opts.Output.Init(t0, outSel); err != nil {
		sol = finalize(store, hist, discont, EventLog{}, stats, errorf(ErrNonfinite, "OutputFcn.Init: %v", err))
		opts.Output.Done()
		return sol, nil
	}

	evLoc := &EventLocator{Events: opts.Events, Lag: lag, Extras: extras}
	if opts.Events != nil {
		v0, _, _ := opts.Events(t0, y0, lag.Sample(t0, store.Window(t0-tauMax-opts.MaxStep)), extras...)
		evLoc.VPrev = v0
	}
	outCur := newOutputCursor(tspan, opts.Refine, opts.OutputSel)

	t, y, p1 := t0, y0, p0
	nextdsc := 0
	var eventLog EventLog
	var warn *SolverError
	done := false

	for !done {
		sc.HMin = 16 * epsAt(t)
		hitDsc := false
		if nextdsc < len(discont) {
			hitDsc = sc.SnapToDiscont(t, discont[nextdsc])
		}
		if !hitDsc {
			sc.SnapToLag()
		}

		var attempt stepAttempt
		for {
			view := store.Window(t + sc.H - tauMax - opts.MaxStep)
			attempt = stepper.Attempt(t, y, p1, sc.H, view)
			if attempt.IterFailed {
				stats.NFailed++
				logger.Logf("t=%v h=%v: inner iteration failed to converge after %d iterations", t, sc.H, attempt.Iterations)
				sc.IterationFailure()
				if sc.H <= sc.HMin {
					warn = errorf(ErrToleranceNotMet, "step size driven to HMin at t=%v (inner iteration)", t)
					done = true
					break
				}
				continue
			}
			errRatio := attempt.ErrNorm / opts.RelTol
			if errRatio <= 1 {
				logger.Logf("t=%v h=%v: step accepted, errRatio=%v", t, sc.H, errRatio)
				sc.Success(errRatio)
				break
			}
			stats.NFailed++
			logger.Logf("t=%v h=%v: step rejected, errRatio=%v", t, sc.H, errRatio)
			sc.Failure(errRatio)
			if sc.H <= sc.HMin {
				warn = errorf(ErrToleranceNotMet, "step size driven to HMin at t=%v (error control)", t)
				done = true
				break
			}
		}
		if done {
			break
		}

		hUsed := attempt.TNew - t
		extView := store.Window(t + hUsed - tauMax - opts.MaxStep).Extend(attempt.TNew, attempt.YNew, attempt.PNew)

		var events []locatedEvent
		terminal := false
		if opts.Events != nil {
			events, terminal = evLoc.Locate(t, hUsed, y, p1, attempt.YNew, attempt.PNew, extView)
		}

		tFinal, yFinal, pFinal := attempt.TNew, attempt.YNew, attempt.PNew
		if terminal {
			last := events[len(events)-1]
			tFinal, yFinal = last.T, last.Y
			deriv := mesh.EvalDeriv(t, hUsed, y, p1, attempt.YNew, attempt.PNew, tFinal, nil)
			pFinal = make([]float64, len(deriv))
			for i := range deriv {
				pFinal[i] = deriv[i] / hUsed
			}
			done = true
		}
		for _, ev := range events {
			eventLog.Xe = append(eventLog.Xe, ev.T)
			eventLog.Ye = append(eventLog.Ye, ev.Y)
			eventLog.Ie = append(eventLog.Ie, ev.Index)
			logger.Logf("event %d fired at t=%v (terminal=%v)", ev.Index, ev.T, ev.Terminal)
		}
		// hitDsc only reflects the snap requested before the retry loop; a
		// rejected attempt can shrink H below the snapped value, so whether
		// the discontinuity was actually reached is re-checked against the
		// accepted tFinal rather than trusted from the snap decision.
		landedOnDsc := hitDsc && nextdsc < len(discont) && withinTol(tFinal, discont[nextdsc])
		if landedOnDsc {
			logger.Logf("t=%v: hit tracked discontinuity d[%d]=%v", tFinal, nextdsc, discont[nextdsc])
		}

		evalAt := func(s float64) []float64 {
			return mesh.Eval(t, hUsed, y, p1, attempt.YNew, attempt.PNew, s, nil)
		}
		if status := outCur.emit(opts.Output, t, tFinal-t, y, p1, yFinal, pFinal, evalAt); status != 0 {
			done = true
		}

		store.Append(tFinal, yFinal, pFinal)
		stats.NSteps++

		if landedOnDsc && !terminal {
			nextdsc++
		}
		if tFinal >= tf-10*eps*math.Max(1, math.Abs(tf)) {
			done = true
		}

		t, y, p1 = tFinal, yFinal, pFinal
	}

	opts.Output.Done()
	stats.NFEvals = 1 + stepper.nevals
	if opts.Stats {
		// Printing the statistics block to a destination of the caller's
		// choosing is the external statistics-printing collaborator's job
		// (out of scope for the core); Stats=on only asks the core to
		// narrate the final counters into the log it already keeps.
		logger.Logf("stats: nsteps=%d nfailed=%d nfevals=%d", stats.NSteps, stats.NFailed, stats.NFEvals)
	}
	logger.flush()

	sol = finalize(store, hist, discont, eventLog, stats, warn)
	return sol, nil
}

func finalize(store *mesh.Store, hist History, discont []float64, events EventLog, stats Statistics, warn *SolverError) *Solution {
	solverTag := "godde.BS23"
	return &Solution{
		mesh:      store,
		SolverTag: solverTag,
		History:   hist,
		Discont:   discont,
		Events:    events,
		Stats:     stats,
		Warning:   warn,
	}
}
