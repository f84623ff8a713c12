// Package pchip implements the Piecewise Cubic Hermite Interpolating
// Polynomial (PCHIP) of Fritsch & Carlson, with the derivative rules used by
// SciPy's PchipInterpolator.
//
// 🚀 Why PCHIP?
//
//	A natural cubic spline through sparse lab measurements can overshoot:
//	between two samples it may invent a modulus higher than either of them.
//	PCHIP is shape-preserving. On every interval the curve stays between
//	the two knot values and follows the monotonicity of the data, so it
//	never fabricates extremes.
//
// ✨ Key features:
//   - exact knot reproduction (Eval(x[k]) == y[k])
//   - C¹ continuity, monotone wherever the data are monotone
//   - NO extrapolation: Eval outside [x0, xn] returns ErrOutOfDomain
//
// ⚙️ Usage:
//
//	ip, err := pchip.New([]float64{0, 10, 20}, []float64{128.4, 111.1, 97.26})
//	y, err := ip.Eval(5)      // inside: ok
//	_, err = ip.Eval(25)      // outside: ErrOutOfDomain
//
// Derivatives:
//
//	h_k = x_{k+1} - x_k,  δ_k = (y_{k+1} - y_k) / h_k
//	interior: d_k = 0 if δ_{k-1}·δ_k ≤ 0, else
//	          (w1+w2)/d_k = w1/δ_{k-1} + w2/δ_k,  w1 = 2h_k + h_{k-1}, w2 = h_k + 2h_{k-1}
//	ends:     non-centered three-point formula, clipped to preserve shape
//	two knots: d_0 = d_1 = δ_0 (straight line)
//
// Complexity: New O(n); Eval O(log n).
package pchip
