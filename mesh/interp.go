// Package mesh implements the append-only solution mesh and the Hermite
// cubic dense-output interpolant used to evaluate it between grid points.
// It is a small, dependency-light package of pure numeric routines that
// the rest of the module builds on, kept separate so it can be tested in
// isolation.
package mesh

// Eval evaluates the Hermite cubic interpolant built from the endpoint
// values y, y' (yp) at time t and y_new, y'_new (ypnew) at time t+h, at the
// query time sQuery. dst is resized and returned; pass nil to allocate.
//
// s = (sQuery - t) / h
// H(s) = y + h*yp*s + h*c*s^2 + h*d*s^3
// slope = (ynew - y) / h
// c = 3*slope - 2*yp - ypnew
// d = yp + ypnew - 2*slope
func Eval(t, h float64, y, yp, ynew, ypnew []float64, sQuery float64, dst []float64) []float64 {
	n := len(y)
	dst = resize(dst, n)
	s := (sQuery - t) / h
	s2 := s * s
	s3 := s2 * s
	for i := 0; i < n; i++ {
		slope := (ynew[i] - y[i]) / h
		c := 3*slope - 2*yp[i] - ypnew[i]
		d := yp[i] + ypnew[i] - 2*slope
		dst[i] = y[i] + h*yp[i]*s + h*c*s2 + h*d*s3
	}
	return dst
}

// EvalDeriv evaluates the derivative of the Hermite cubic interpolant with
// respect to the normalized variable s, H'(s) = h*(yp + 2*c*s + 3*d*s^2),
// at the query time sQuery. This is h*dH/dt, not dH/dt; callers that need
// dy/dt must divide by h themselves.
func EvalDeriv(t, h float64, y, yp, ynew, ypnew []float64, sQuery float64, dst []float64) []float64 {
	n := len(y)
	dst = resize(dst, n)
	s := (sQuery - t) / h
	for i := 0; i < n; i++ {
		slope := (ynew[i] - y[i]) / h
		c := 3*slope - 2*yp[i] - ypnew[i]
		d := yp[i] + ypnew[i] - 2*slope
		dst[i] = h * (yp[i] + 2*c*s + 3*d*s*s)
	}
	return dst
}

func resize(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}
	return dst[:n]
}
