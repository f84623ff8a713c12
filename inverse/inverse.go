// SPDX-License-Identifier: MIT

package inverse

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/phantom/family"
	"github.com/katalvlaran/phantom/rootfind"
)

var (
	// ErrInfeasibleTarget indicates a target outside the family's measured
	// value range. Recoverable: callers report nearest bounds instead.
	ErrInfeasibleTarget = errors.New("inverse: target outside family range")

	// ErrDegenerateModel indicates a single-measurement family.
	ErrDegenerateModel = errors.New("inverse: family has fewer than two measurements")

	// ErrRootFinding indicates the solver failed or its result did not
	// reproduce the target. The underlying rootfind error is wrapped.
	ErrRootFinding = errors.New("inverse: root finding failed")
)

// Tolerance is the default relative agreement required between the
// predicted and requested values: |p − t| ≤ Tolerance·max(1, |t|).
const Tolerance = 1e-8

const panicTolerance = "inverse: WithTolerance: tolerance must be > 0"

// Options configures Invert.
type Options struct {
	Tolerance float64
	Solver    []rootfind.Option
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns Tolerance and the default solver (Brent).
func DefaultOptions() Options {
	return Options{Tolerance: Tolerance}
}

// WithTolerance sets the acceptance tolerance. Panics if tol <= 0.
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic(panicTolerance)
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithMethod selects the root-finding method.
func WithMethod(m rootfind.Method) Option {
	opt := rootfind.WithMethod(m)

	return func(o *Options) { o.Solver = append(o.Solver, opt) }
}

// WithSolverOptions passes options through to rootfind.Find.
func WithSolverOptions(opts ...rootfind.Option) Option {
	return func(o *Options) { o.Solver = append(o.Solver, opts...) }
}

// Recipe is the solution of one inversion.
type Recipe struct {
	Family        string
	Concentration float64 // thinner, % by weight of A+B
	Predicted     float64 // model value at Concentration
	Target        float64
}

// String renders the recipe line handed to the bench.
func (r Recipe) String() string {
	return fmt.Sprintf("%s (A+B) + %.2f%% thinner (by weight of A+B)", r.Family, r.Concentration)
}

// Invert finds the concentration at which m predicts target.
//
// Order of checks:
//  1. m has fewer than two measurements → ErrDegenerateModel.
//  2. target is not within m.Range() (inclusive) → ErrInfeasibleTarget.
//  3. root finding on [Domain.Min, Domain.Max] fails → ErrRootFinding.
//  4. |Predicted − target| exceeds the tolerance → ErrRootFinding.
//
// The returned concentration always lies inside m.Domain().
func Invert(m *family.Model, target float64, opts ...Option) (Recipe, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if !m.Invertible() {
		return Recipe{}, fmt.Errorf("%w: %s", ErrDegenerateModel, m.ID())
	}
	if !m.Range().Contains(target) {
		return Recipe{}, fmt.Errorf("%w: %s cannot cover %.2f (validated range %v)",
			ErrInfeasibleTarget, m.ID(), target, m.Range())
	}

	dom := m.Domain()
	res, err := rootfind.Find(func(c float64) (float64, error) {
		v, err := m.Evaluate(c)
		if err != nil {
			return 0, err
		}

		return v - target, nil
	}, dom.Min, dom.Max, o.Solver...)
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: %s: %w", ErrRootFinding, m.ID(), err)
	}

	predicted, err := m.Evaluate(res.Root)
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: %s: %w", ErrRootFinding, m.ID(), err)
	}
	if math.Abs(predicted-target) > o.Tolerance*math.Max(1, math.Abs(target)) {
		return Recipe{}, fmt.Errorf("%w: %s: predicted %g for target %g", ErrRootFinding, m.ID(), predicted, target)
	}

	return Recipe{
		Family:        m.ID(),
		Concentration: res.Root,
		Predicted:     predicted,
		Target:        target,
	}, nil
}
