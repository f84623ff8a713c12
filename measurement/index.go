// SPDX-License-Identifier: MIT

package measurement

import (
	"cmp"
	"slices"
	"strings"
)

// Index is the global measurement index: every measurement of a Table sorted
// by Value ascending, ties broken by Label. It is derived data, rebuilt with
// every load, and read-only after construction.
type Index struct {
	byValue []Measurement
}

// NewIndex builds the value-sorted index of t.
//
// Complexity: O(n log n) time, O(n) space.
func NewIndex(t *Table) *Index {
	ms := t.Measurements()
	slices.SortFunc(ms, func(a, b Measurement) int {
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			return c
		}

		return strings.Compare(a.Label, b.Label)
	})

	return &Index{byValue: ms}
}

// Len returns the number of indexed measurements.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}

	return len(x.byValue)
}

// At returns the i-th measurement in value order. Panics when i is out of range.
func (x *Index) At(i int) Measurement { return x.byValue[i] }

// Min returns the measurement with the smallest value, false when empty.
func (x *Index) Min() (Measurement, bool) {
	if x.Len() == 0 {
		return Measurement{}, false
	}

	return x.byValue[0], true
}

// Max returns the measurement with the largest value, false when empty.
func (x *Index) Max() (Measurement, bool) {
	if x.Len() == 0 {
		return Measurement{}, false
	}

	return x.byValue[len(x.byValue)-1], true
}

// Search returns the position of the first measurement with Value >= v
// (Len() when none), following sort.Search semantics.
func (x *Index) Search(v float64) int {
	if x == nil {
		return 0
	}
	i, _ := slices.BinarySearchFunc(x.byValue, v, func(m Measurement, t float64) int {
		return cmp.Compare(m.Value, t)
	})

	return i
}
