// SPDX-License-Identifier: MIT

package designer

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/phantom/family"
	"github.com/katalvlaran/phantom/gap"
	"github.com/katalvlaran/phantom/inverse"
	"github.com/katalvlaran/phantom/measurement"
)

var (
	// ErrBadTarget indicates a NaN, infinite or negative target value.
	ErrBadTarget = errors.New("designer: target must be a finite non-negative number")

	// ErrUnknownFamily indicates Force was asked for a family not in the table.
	ErrUnknownFamily = errors.New("designer: unknown family")

	// ErrRejectedFamily indicates Force was asked for a family whose model
	// could not be built. The build error is wrapped.
	ErrRejectedFamily = errors.New("designer: family was rejected at build")
)

// Result answers one design query.
type Result struct {
	Target  float64
	Outcome gap.Outcome

	// Family is set in force mode.
	Family string

	// Recipes holds one recipe per feasible family, in presentation order.
	Recipes []inverse.Recipe

	// Failures maps feasible families whose inversion failed to the error.
	Failures map[string]error

	// Bounds are set when Outcome is gap.Gap, and also when every feasible
	// family failed to invert.
	Bounds gap.Bounds
}

// Query runs auto-select mode for target.
//
// Covered targets are inverted in every feasible family concurrently (at
// most Options.Workers at a time). A failure in one family never hides the
// recipes of the others.
//
// Errors: ErrBadTarget.
func (s *Snapshot) Query(target float64) (Result, error) {
	if err := checkTarget(target); err != nil {
		return Result{}, err
	}

	d := gap.Classify(s.models, s.index, target)
	res := Result{Target: target, Outcome: d.Outcome}
	if d.Outcome == gap.Gap {
		res.Bounds = d.Bounds
		return res, nil
	}

	recipes := make([]inverse.Recipe, len(d.Feasible))
	errs := make([]error, len(d.Feasible))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, id := range d.Feasible {
		m := s.byID[id]
		g.Go(func() error {
			recipes[i], errs[i] = inverse.Invert(m, target, s.opts.Inverse...)
			return nil
		})
	}
	_ = g.Wait() // per-family errors are collected in errs

	for i, id := range d.Feasible {
		if errs[i] != nil {
			if res.Failures == nil {
				res.Failures = make(map[string]error)
			}
			res.Failures[id] = errs[i]
			continue
		}
		res.Recipes = append(res.Recipes, recipes[i])
	}
	if len(res.Recipes) == 0 {
		res.Bounds = gap.NearestBounds(s.index, target)
	}

	return res, nil
}

// Force runs force-family mode: the target is solved in family id only.
//
// A family that cannot reach the target yields a gap.Gap result with the
// nearest bounds and a nil error.
//
// Errors: ErrBadTarget, ErrUnknownFamily, ErrRejectedFamily, or the
// inverse error (ErrDegenerateModel, ErrRootFinding).
func (s *Snapshot) Force(id string, target float64) (Result, error) {
	if err := checkTarget(target); err != nil {
		return Result{}, err
	}
	m, ok := s.byID[id]
	if !ok {
		if err, rejected := s.rejected[id]; rejected {
			return Result{}, fmt.Errorf("%w: %s: %w", ErrRejectedFamily, id, err)
		}
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownFamily, id)
	}

	res := Result{Target: target, Family: id}
	if !m.Range().Contains(target) {
		res.Outcome = gap.Gap
		res.Bounds = gap.NearestBounds(s.index, target)
		return res, nil
	}

	r, err := inverse.Invert(m, target, s.opts.Inverse...)
	if err != nil {
		return Result{}, err
	}
	res.Outcome = gap.Covered
	res.Recipes = []inverse.Recipe{r}

	return res, nil
}

// Curve is the sampled response of one family.
type Curve struct {
	Family string
	Domain family.Interval
	Points iter.Seq2[float64, float64] // (concentration, value), lazy
}

// Overview is the dataset view: every raw measurement plus one curve per
// family with at least two measurements.
type Overview struct {
	Measurements []measurement.Measurement
	Curves       []Curve
	Gaps         []family.Interval
}

// Overview returns the dataset view. samples <= 0 selects
// family.DefaultSamples points per curve.
func (s *Snapshot) Overview(samples int) Overview {
	ov := Overview{
		Measurements: s.table.Measurements(),
		Gaps:         s.Uncovered(),
	}
	for _, m := range s.models {
		if !m.Invertible() {
			continue
		}
		ov.Curves = append(ov.Curves, Curve{
			Family: m.ID(),
			Domain: m.Domain(),
			Points: m.Sample(samples),
		})
	}

	return ov
}

func checkTarget(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %v", ErrBadTarget, v)
	}

	return nil
}
