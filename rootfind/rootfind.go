// SPDX-License-Identifier: MIT

package rootfind

import (
	"fmt"
	"math"
)

// Find returns a root of f in [a, b].
//
// Steps:
//  1. Validate the interval (finite endpoints, a <= b).
//  2. Evaluate both endpoints. An exact zero is returned immediately.
//  3. Verify the sign change, then iterate with the configured method.
//
// On ErrMaxIterations the returned Result still carries the last estimate.
//
// Errors: ErrBadInterval, ErrNoSignChange, ErrNaN, ErrMaxIterations, or the
// error returned by f (wrapped).
func Find(f Func, a, b float64, opts ...Option) (Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) || a > b {
		return Result{}, fmt.Errorf("%w: [%g, %g]", ErrBadInterval, a, b)
	}

	e := &evaluator{f: f}
	res := Result{Method: o.Method}

	fa, err := e.eval(a)
	if err != nil {
		res.Evaluations = e.calls
		return res, err
	}
	fb, err := e.eval(b)
	if err != nil {
		res.Evaluations = e.calls
		return res, err
	}
	res.Evaluations = e.calls
	switch {
	case fa == 0:
		res.Root = a
		return res, nil
	case fb == 0:
		res.Root = b
		return res, nil
	case math.Signbit(fa) == math.Signbit(fb):
		return res, fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoSignChange, a, fa, b, fb)
	}

	if o.Method == MethodBisection {
		res.Root, res.Iterations, err = bisect(e, a, b, fa, o)
	} else {
		res.Root, res.Iterations, err = brent(e, a, b, fa, fb, o)
	}
	res.Evaluations = e.calls

	return res, err
}

// evaluator wraps f with NaN detection and call counting.
type evaluator struct {
	f     Func
	calls int
}

func (e *evaluator) eval(x float64) (float64, error) {
	e.calls++
	y, err := e.f(x)
	if err != nil {
		return 0, fmt.Errorf("rootfind: f(%g): %w", x, err)
	}
	if math.IsNaN(y) {
		return 0, fmt.Errorf("%w at x=%g", ErrNaN, x)
	}

	return y, nil
}

// brent is the brentq scheme. xpre/xcur are the last two iterates, xblk the
// contrapoint keeping the root bracketed; spre/scur the previous two steps.
func brent(e *evaluator, xa, xb, fa, fb float64, o Options) (float64, int, error) {
	xpre, xcur := xa, xb
	fpre, fcur := fa, fb
	var xblk, fblk, spre, scur float64

	for i := 0; i < o.MaxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (o.XTol + o.RTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, i, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				// inverse quadratic interpolation
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}

		var err error
		if fcur, err = e.eval(xcur); err != nil {
			return xcur, i + 1, err
		}
	}

	return xcur, o.MaxIter, fmt.Errorf("%w (%d iterations, x=%g)", ErrMaxIterations, o.MaxIter, xcur)
}

// bisect halves [xa, xb] keeping the half whose endpoints straddle zero.
func bisect(e *evaluator, xa, xb, fa float64, o Options) (float64, int, error) {
	dm := xb - xa
	var xm float64
	for i := 0; i < o.MaxIter; i++ {
		dm *= 0.5
		xm = xa + dm
		fm, err := e.eval(xm)
		if err != nil {
			return xm, i + 1, err
		}
		if fm*fa >= 0 {
			xa = xm
		}
		if fm == 0 || math.Abs(dm) < o.XTol+o.RTol*math.Abs(xm) {
			return xm, i + 1, nil
		}
	}

	return xm, o.MaxIter, fmt.Errorf("%w (%d iterations, x=%g)", ErrMaxIterations, o.MaxIter, xm)
}
