// Package godde solves systems of delay differential equations (DDEs)
// with constant positive lags,
//
//	y'(t) = f(t, y(t), y(t-tau_1), ..., y(t-tau_k)),    t in [t0, tf],
//
// given the solution on (-Inf, t0] as a history. It integrates with an
// explicit Bogacki-Shampine (2,3) Runge-Kutta pair and a Hermite cubic
// dense-output interpolant, tracking discontinuities propagated through the
// lag set and iterating short steps (h > min(tau)) to a fixed point so that
// a step's own delayed arguments are consistent with its own result.
package godde
