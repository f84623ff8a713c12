package pchip

import (
	"errors"
	"math"
	"sort"
)

// Sentinel errors returned by the pchip package.
var (
	// ErrTooFewPoints indicates fewer than two knots were supplied.
	ErrTooFewPoints = errors.New("pchip: at least two knots are required")

	// ErrLengthMismatch indicates len(xs) != len(ys).
	ErrLengthMismatch = errors.New("pchip: xs and ys must have equal length")

	// ErrNotIncreasing indicates xs is not strictly increasing.
	ErrNotIncreasing = errors.New("pchip: xs must be strictly increasing")

	// ErrNaNInf indicates a NaN or ±Inf knot coordinate.
	ErrNaNInf = errors.New("pchip: NaN or Inf knot")

	// ErrOutOfDomain indicates an evaluation point outside [x0, xn] (or NaN).
	// The interpolant never extrapolates.
	ErrOutOfDomain = errors.New("pchip: evaluation point outside knot domain")
)

// Interpolant is an immutable PCHIP curve through a set of knots.
// Safe for concurrent use.
type Interpolant struct {
	xs []float64 // knots, strictly increasing
	ys []float64 // values at knots
	ds []float64 // first derivatives at knots
}

// New builds the interpolant through (xs[i], ys[i]).
//
// Inputs are copied. xs must be strictly increasing; all values finite.
//
// Errors: ErrLengthMismatch, ErrTooFewPoints, ErrNaNInf, ErrNotIncreasing.
func New(xs, ys []float64) (*Interpolant, error) {
	n := len(xs)
	if n != len(ys) {
		return nil, ErrLengthMismatch
	}
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	for i := 0; i < n; i++ {
		if nonFinite(xs[i]) || nonFinite(ys[i]) {
			return nil, ErrNaNInf
		}
		if i > 0 && !(xs[i] > xs[i-1]) {
			return nil, ErrNotIncreasing
		}
	}

	ip := &Interpolant{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}
	ip.ds = derivatives(ip.xs, ip.ys)

	return ip, nil
}

// derivatives computes PCHIP slopes at every knot.
func derivatives(xs, ys []float64) []float64 {
	n := len(xs)
	h := make([]float64, n-1)
	delta := make([]float64, n-1)
	for k := 0; k < n-1; k++ {
		h[k] = xs[k+1] - xs[k]
		delta[k] = (ys[k+1] - ys[k]) / h[k]
	}

	d := make([]float64, n)
	if n == 2 {
		d[0], d[1] = delta[0], delta[0]
		return d
	}

	// Interior knots: weighted harmonic mean, zero at local extrema or flats.
	for k := 1; k < n-1; k++ {
		if delta[k-1] == 0 || delta[k] == 0 || sign(delta[k-1]) != sign(delta[k]) {
			d[k] = 0
			continue
		}
		w1 := 2*h[k] + h[k-1]
		w2 := h[k] + 2*h[k-1]
		d[k] = (w1 + w2) / (w1/delta[k-1] + w2/delta[k])
	}

	d[0] = endSlope(h[0], h[1], delta[0], delta[1])
	d[n-1] = endSlope(h[n-2], h[n-3], delta[n-2], delta[n-3])

	return d
}

// endSlope is the shape-preserving non-centered three-point end condition.
// h0/delta0 belong to the interval touching the end knot, h1/delta1 to its neighbour.
func endSlope(h0, h1, delta0, delta1 float64) float64 {
	d := ((2*h0+h1)*delta0 - h0*delta1) / (h0 + h1)
	switch {
	case sign(d) != sign(delta0):
		return 0
	case sign(delta0) != sign(delta1) && math.Abs(d) > 3*math.Abs(delta0):
		return 3 * delta0
	}

	return d
}

// Eval returns the interpolated value at x.
//
// Behavior:
//   - x equal to a knot returns the knot value exactly.
//   - x outside [x0, xn] or NaN → ErrOutOfDomain (no extrapolation, ever).
//
// Complexity: O(log n).
func (ip *Interpolant) Eval(x float64) (float64, error) {
	n := len(ip.xs)
	if math.IsNaN(x) || x < ip.xs[0] || x > ip.xs[n-1] {
		return 0, ErrOutOfDomain
	}

	// k: first knot >= x.
	k := sort.SearchFloat64s(ip.xs, x)
	if ip.xs[k] == x {
		return ip.ys[k], nil
	}

	return ip.hermite(k-1, x), nil
}

// hermite evaluates the cubic Hermite segment [xs[k], xs[k+1]] at x.
//
// The cubic is written in offset form around xs[k] so a flat segment
// returns ys[k] exactly, and the result is clamped to the segment's knot
// values: rounding must never push the curve past a measured value.
func (ip *Interpolant) hermite(k int, x float64) float64 {
	y0, y1 := ip.ys[k], ip.ys[k+1]
	d0, d1 := ip.ds[k], ip.ds[k+1]
	h := ip.xs[k+1] - ip.xs[k]
	s := x - ip.xs[k]

	delta := (y1 - y0) / h
	c2 := (3*delta - 2*d0 - d1) / h
	c3 := (d0 + d1 - 2*delta) / (h * h)
	y := y0 + s*(d0+s*(c2+s*c3))

	return min(max(y, min(y0, y1)), max(y0, y1))
}

// Domain returns [x0, xn].
func (ip *Interpolant) Domain() (lo, hi float64) {
	return ip.xs[0], ip.xs[len(ip.xs)-1]
}

// Knots returns copies of the knot coordinates.
func (ip *Interpolant) Knots() (xs, ys []float64) {
	return append([]float64(nil), ip.xs...), append([]float64(nil), ip.ys...)
}

// Slopes returns a copy of the knot derivatives.
func (ip *Interpolant) Slopes() []float64 {
	return append([]float64(nil), ip.ds...)
}

// sign returns -1, 0 or +1.
func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}

	return 0
}

func nonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
