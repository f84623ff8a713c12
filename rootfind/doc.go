// SPDX-License-Identifier: MIT

// Package rootfind locates a root of a continuous scalar function on a
// closed interval whose endpoints bracket a sign change.
//
// 🚀 Methods:
//
//	MethodBrent      Brent's method in the "brentq" formulation: inverse
//	                 quadratic interpolation and secant steps, guarded by
//	                 bisection. Superlinear on smooth functions, never worse
//	                 than bisection. Default.
//	MethodBisection  Plain bisection. Linear, predictable, one evaluation
//	                 per halving.
//
// ✨ Contract:
//   - f(a) and f(b) must have opposite signs, or one of them must be exactly
//     zero; otherwise ErrNoSignChange. The bracket is verified before any
//     iteration.
//   - convergence when |step| < (XTol + RTol·|x|)/2 or f(x) == 0
//   - a NaN from f aborts with ErrNaN; an error from f aborts and is
//     returned wrapped
//   - running out of iterations returns ErrMaxIterations together with the
//     best estimate reached
//
// ⚙️ Usage:
//
//	res, err := rootfind.Find(func(x float64) (float64, error) {
//	    return x*x - 2, nil
//	}, 0, 2)
//	// res.Root ≈ 1.41421356
//
// Defaults: XTol = 2e-12, RTol = 4·eps, MaxIter = 100.
package rootfind
