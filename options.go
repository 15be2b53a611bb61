package godde

import (
	"io"

	"gonum.org/v1/gonum/mat"
)

// eps is the machine epsilon for float64, 2^-52 (distinct from the
// dlamchE/2^-53 convention some LAPACK-adjacent code uses; both are
// "machine epsilon" by different conventions, this is the ULP-at-1
// convention used throughout this package).
const eps = 2.220446049250313e-16

// RHS is the user right-hand side f(t, y, Z, extras...) -> dy/dt. Z has
// shape n-by-k, column j holding y(t - tau[j]).
type RHS func(t float64, y []float64, z *mat.Dense, extras ...interface{}) []float64

// EventsFunc evaluates the event-function vector at (t, y, Z). value[i]'s
// sign change triggers root bracketing; isTerminal[i] marks the event as
// ending the integration; direction[i] is -1, 0 or +1 and filters which
// sign changes are reported (0 means both directions are reported).
type EventsFunc func(t float64, y []float64, z *mat.Dense, extras ...interface{}) (value []float64, isTerminal []bool, direction []int)

// Options collects the recognised solve options. It is a plain struct
// populated by the caller, not a parsed command-line or config-file
// facility -- argument parsing and defaults injection belong to an
// external collaborator; Options only carries the values and the
// defaulting/validation described in the external-interfaces contract.
type Options struct {
	RelTol      float64
	AbsTol      []float64 // scalar (len 1, broadcast) or length-n
	NormControl bool
	MaxStep     float64
	InitialStep float64 // 0 means "absent, compute automatically"
	Jumps       []float64
	InitialY    []float64 // overrides history(t0) when non-nil
	Events      EventsFunc
	Output      OutputSink
	OutputSel   []int
	Refine      int
	Stats       bool

	// LogOutput, if non-nil, receives the buffered step/discontinuity/event
	// narration accumulated during the solve, flushed once at the end of
	// the run (mirroring the teacher's Logger.Output sink).
	LogOutput io.Writer
}

// withDefaults returns a copy of opts with unset fields defaulted per the
// external-interfaces contract. n is the system dimension, used to
// broadcast a scalar AbsTol to length n (except under NormControl).
func (opts Options) withDefaults(t0, tf float64, n int) Options {
	out := opts
	if out.RelTol == 0 {
		out.RelTol = 1e-3
	}
	if out.RelTol > 0 && out.RelTol < 100*eps {
		out.RelTol = 100 * eps
	}
	if len(out.AbsTol) == 0 {
		out.AbsTol = []float64{1e-6}
	}
	if len(out.AbsTol) == 1 && n > 1 && !out.NormControl {
		a := out.AbsTol[0]
		full := make([]float64, n)
		for i := range full {
			full[i] = a
		}
		out.AbsTol = full
	}
	if out.MaxStep == 0 {
		out.MaxStep = (tf - t0) / 10
	}
	if out.Refine < 1 {
		out.Refine = 1
	}
	if out.Output == nil {
		out.Output = NopSink{}
	}
	return out
}

// verify checks the populated Options and fatal-fails (via throwf) on the
// first violation, per ErrOptionInvalid / ErrInputShape.
func (opts Options) verify(n int) {
	if opts.RelTol <= 0 {
		throwf(ErrOptionInvalid, "RelTol must be positive, got %v", opts.RelTol)
	}
	if opts.NormControl && len(opts.AbsTol) != 1 {
		throwf(ErrOptionInvalid, "AbsTol must be scalar when NormControl is set")
	}
	if len(opts.AbsTol) != 1 && len(opts.AbsTol) != n {
		throwf(ErrInputShape, "AbsTol has length %d, want 1 or %d", len(opts.AbsTol), n)
	}
	for _, a := range opts.AbsTol {
		if a <= 0 {
			throwf(ErrInputShape, "AbsTol entries must be positive, got %v", a)
		}
	}
	if opts.MaxStep <= 0 {
		throwf(ErrOptionInvalid, "MaxStep must be positive, got %v", opts.MaxStep)
	}
	if opts.InitialStep < 0 {
		throwf(ErrOptionInvalid, "InitialStep must be positive, got %v", opts.InitialStep)
	}
	if opts.InitialY != nil && len(opts.InitialY) != n {
		throwf(ErrInputShape, "InitialY has length %d, want %d", len(opts.InitialY), n)
	}
}

// thresholdVector returns T = AbsTol/RelTol, broadcast to length n.
func thresholdVector(absTol []float64, relTol float64, n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		if len(absTol) == 1 {
			t[i] = absTol[0] / relTol
		} else {
			t[i] = absTol[i] / relTol
		}
	}
	return t
}
