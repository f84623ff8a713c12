package family

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/katalvlaran/phantom/measurement"
	"github.com/katalvlaran/phantom/pchip"
)

// Model is the immutable response model of one family. Safe for concurrent use.
type Model struct {
	id     string
	points []measurement.Measurement // ascending by concentration
	curve  *pchip.Interpolant        // nil for a single measurement
	domain Interval
	rng    Interval
	dir    Direction
}

// Build constructs the model of family id from its measurements.
//
// Steps:
//  1. Copy and sort by concentration.
//  2. Reject family mismatches and duplicate concentrations.
//  3. Determine the direction; values that rise and fall → ErrNonMonotone.
//  4. With ≥2 points, fit the PCHIP curve.
//
// Errors: ErrEmptyFamily, ErrFamilyMismatch, ErrDuplicateConcentration,
// ErrNonMonotone.
func Build(id string, ms []measurement.Measurement) (*Model, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFamily, id)
	}
	pts := slices.Clone(ms)
	slices.SortStableFunc(pts, func(a, b measurement.Measurement) int {
		return cmp.Compare(a.Concentration, b.Concentration)
	})

	m := &Model{id: id, points: pts}
	m.rng = Interval{Min: pts[0].Value, Max: pts[0].Value}
	var rises, falls bool
	for i, p := range pts {
		if p.Family != id {
			return nil, fmt.Errorf("%w: %q belongs to %q, not %q", ErrFamilyMismatch, p.Label, p.Family, id)
		}
		m.rng.Min = math.Min(m.rng.Min, p.Value)
		m.rng.Max = math.Max(m.rng.Max, p.Value)
		if i == 0 {
			continue
		}
		prev := pts[i-1]
		if p.Concentration == prev.Concentration {
			return nil, fmt.Errorf("%w: %s at %g%% (%q, %q)", ErrDuplicateConcentration, id, p.Concentration, prev.Label, p.Label)
		}
		switch {
		case p.Value > prev.Value:
			rises = true
		case p.Value < prev.Value:
			falls = true
		}
	}

	switch {
	case rises && falls:
		return nil, fmt.Errorf("%w: %s", ErrNonMonotone, id)
	case rises:
		m.dir = Increasing
	case falls:
		m.dir = Decreasing
	}
	m.domain = Interval{Min: pts[0].Concentration, Max: pts[len(pts)-1].Concentration}

	if len(pts) >= 2 {
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i], ys[i] = p.Concentration, p.Value
		}
		curve, err := pchip.New(xs, ys)
		if err != nil {
			return nil, fmt.Errorf("family: %s: %w", id, err)
		}
		m.curve = curve
	}

	return m, nil
}

// ID returns the family identifier.
func (m *Model) ID() string { return m.id }

// Len returns the number of measurements behind the model.
func (m *Model) Len() int { return len(m.points) }

// Points returns the measurements sorted by concentration (a copy).
func (m *Model) Points() []measurement.Measurement { return slices.Clone(m.points) }

// Domain returns the measured concentration interval.
func (m *Model) Domain() Interval { return m.domain }

// Range returns the min/max of the raw measured values.
func (m *Model) Range() Interval { return m.rng }

// Direction returns the value trend.
func (m *Model) Direction() Direction { return m.dir }

// Invertible reports whether the model has at least two measurements.
func (m *Model) Invertible() bool { return m.curve != nil }

// Evaluate returns the predicted value at concentration c.
// Concentrations outside Domain() (or NaN) → ErrOutOfDomain.
func (m *Model) Evaluate(c float64) (float64, error) {
	if !m.domain.Contains(c) {
		return 0, fmt.Errorf("%w: %s at %g%%, domain %v", ErrOutOfDomain, m.id, c, m.domain)
	}
	if m.curve == nil {
		return m.points[0].Value, nil
	}
	v, err := m.curve.Eval(c)
	if err != nil {
		return 0, fmt.Errorf("%w: %s at %g%%", ErrOutOfDomain, m.id, c)
	}

	return v, nil
}

// Sample returns a lazy sequence of n evenly spaced (concentration, value)
// pairs covering Domain() end to end. n <= 0 selects DefaultSamples. A
// degenerate model yields its single measurement once.
//
// Each call returns a fresh, finite sequence; ranging over it twice yields
// the same pairs.
func (m *Model) Sample(n int) iter.Seq2[float64, float64] {
	if n <= 0 {
		n = DefaultSamples
	}

	return func(yield func(float64, float64) bool) {
		if m.curve == nil || n == 1 {
			c := m.domain.Min
			v, _ := m.Evaluate(c)
			yield(c, v)
			return
		}
		lo, hi := m.domain.Min, m.domain.Max
		step := (hi - lo) / float64(n-1)
		for i := 0; i < n; i++ {
			c := lo + step*float64(i)
			if i == n-1 || c > hi {
				c = hi
			}
			v, err := m.curve.Eval(c)
			if err != nil {
				return
			}
			if !yield(c, v) {
				return
			}
		}
	}
}
