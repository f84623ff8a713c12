package gap

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/katalvlaran/phantom/family"
	"github.com/katalvlaran/phantom/measurement"
)

// Outcome is the terminal state of a classification.
type Outcome int

const (
	// Covered: at least one family can reach the target.
	Covered Outcome = iota + 1
	// Gap: no family can reach the target.
	Gap
)

func (o Outcome) String() string {
	switch o {
	case Covered:
		return "covered"
	case Gap:
		return "gap"
	}

	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Bounds are the nearest validated measurements around a target.
// Either side is nil when no measurement exists on that side.
type Bounds struct {
	Lower *measurement.Measurement // greatest value ≤ target
	Upper *measurement.Measurement // least value ≥ target
}

// Decision is the result of Classify.
type Decision struct {
	Outcome  Outcome
	Target   float64
	Feasible []string // Covered only, in model order
	Bounds   Bounds   // Gap only
}

// Feasible returns the IDs of the models whose measured range contains
// target, preserving the order of models. Nil entries are skipped.
func Feasible(models []*family.Model, target float64) []string {
	var ids []string
	for _, m := range models {
		if m != nil && m.Range().Contains(target) {
			ids = append(ids, m.ID())
		}
	}

	return ids
}

// NearestBounds returns the measurement with the greatest value ≤ target and
// the one with the least value ≥ target.
//
// Ties on value resolve by index order (value, then label): Lower takes the
// last tied measurement, Upper the first. A target equal to a unique
// measured value returns that measurement on both sides.
//
// Complexity: O(log n).
func NearestBounds(idx *measurement.Index, target float64) Bounds {
	var b Bounds
	n := idx.Len()
	if n == 0 || math.IsNaN(target) {
		return b
	}
	if i := idx.Search(target); i < n {
		up := idx.At(i)
		b.Upper = &up
	}
	if j := sort.Search(n, func(k int) bool { return idx.At(k).Value > target }); j > 0 {
		lo := idx.At(j - 1)
		b.Lower = &lo
	}

	return b
}

// Classify runs the policy for one target.
func Classify(models []*family.Model, idx *measurement.Index, target float64) Decision {
	if ids := Feasible(models, target); len(ids) > 0 {
		return Decision{Outcome: Covered, Target: target, Feasible: ids}
	}

	return Decision{Outcome: Gap, Target: target, Bounds: NearestBounds(idx, target)}
}

// Uncovered returns the value intervals inside the global measured span
// [min, max] that no model range reaches. Each returned interval is a gap
// whose interior is infeasible; its endpoints are themselves covered.
//
// A single-point range is feasible at its one value, the same as Feasible
// counts it, so it splits a gap in two at that value. The result is sorted
// ascending and its intervals share at most an endpoint.
func Uncovered(models []*family.Model, idx *measurement.Index) []family.Interval {
	lo, ok := idx.Min()
	if !ok {
		return nil
	}
	hi, _ := idx.Max()

	ranges := make([]family.Interval, 0, len(models))
	for _, m := range models {
		if m == nil {
			continue
		}
		ranges = append(ranges, m.Range())
	}
	slices.SortFunc(ranges, func(a, b family.Interval) int { return cmp.Compare(a.Min, b.Min) })

	var gaps []family.Interval
	cursor := lo.Value
	for _, r := range ranges {
		if r.Min > cursor {
			gaps = append(gaps, family.Interval{Min: cursor, Max: math.Min(r.Min, hi.Value)})
		}
		cursor = math.Max(cursor, r.Max)
		if cursor >= hi.Value {
			break
		}
	}
	if cursor < hi.Value {
		gaps = append(gaps, family.Interval{Min: cursor, Max: hi.Value})
	}

	return gaps
}
