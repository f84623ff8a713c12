// SPDX-License-Identifier: MIT

package rootfind

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Find.
var (
	// ErrNoSignChange indicates f(a) and f(b) share a sign and neither is zero.
	ErrNoSignChange = errors.New("rootfind: f(a) and f(b) must have different signs")

	// ErrMaxIterations indicates the iteration budget ran out before convergence.
	ErrMaxIterations = errors.New("rootfind: failed to converge within iteration budget")

	// ErrNaN indicates f returned NaN.
	ErrNaN = errors.New("rootfind: function returned NaN")

	// ErrBadInterval indicates a non-finite endpoint or a > b.
	ErrBadInterval = errors.New("rootfind: invalid interval")
)

// Func is the scalar function whose root is sought. A non-nil error aborts
// the search and is propagated to the caller.
type Func func(x float64) (float64, error)

// Method selects the root-finding algorithm.
type Method int

const (
	// MethodBrent is Brent's method (brentq). Default.
	MethodBrent Method = iota

	// MethodBisection halves the bracket every iteration.
	MethodBisection
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case MethodBrent:
		return "brent"
	case MethodBisection:
		return "bisection"
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// Default tolerances, matching the reference brentq implementation.
const (
	DefaultXTol    = 2e-12
	DefaultRTol    = 4 * epsilon
	DefaultMaxIter = 100

	epsilon = 2.220446049250313e-16
)

const (
	panicXTol    = "rootfind: WithXTol: xtol must be > 0"
	panicRTol    = "rootfind: WithRTol: rtol must be >= 4*eps"
	panicMaxIter = "rootfind: WithMaxIter: maxIter must be >= 1"
	panicMethod  = "rootfind: WithMethod: unknown method"
)

// Options configures Find.
type Options struct {
	Method  Method
	XTol    float64
	RTol    float64
	MaxIter int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns Brent with the default tolerances.
func DefaultOptions() Options {
	return Options{
		Method:  MethodBrent,
		XTol:    DefaultXTol,
		RTol:    DefaultRTol,
		MaxIter: DefaultMaxIter,
	}
}

// WithMethod selects the algorithm. Panics on an unknown method.
func WithMethod(m Method) Option {
	if m != MethodBrent && m != MethodBisection {
		panic(panicMethod)
	}

	return func(o *Options) { o.Method = m }
}

// WithXTol sets the absolute tolerance. Panics if xtol <= 0.
func WithXTol(xtol float64) Option {
	if !(xtol > 0) {
		panic(panicXTol)
	}

	return func(o *Options) { o.XTol = xtol }
}

// WithRTol sets the relative tolerance. Panics below 4·eps, where the
// stopping test could never be met.
func WithRTol(rtol float64) Option {
	if !(rtol >= DefaultRTol) {
		panic(panicRTol)
	}

	return func(o *Options) { o.RTol = rtol }
}

// WithMaxIter sets the iteration budget. Panics if n < 1.
func WithMaxIter(n int) Option {
	if n < 1 {
		panic(panicMaxIter)
	}

	return func(o *Options) { o.MaxIter = n }
}

// Result describes a converged (or best-effort) root.
type Result struct {
	Root        float64 // estimate of x with f(x) == 0
	Iterations  int     // iterations performed
	Evaluations int     // calls to f, including the two bracket checks
	Method      Method
}
