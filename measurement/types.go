// SPDX-License-Identifier: MIT

package measurement

import (
	"errors"
	"fmt"
)

// ErrDataFormat is the single class of load failures: a required field is
// absent or non-numeric, a label cannot be decomposed, a value violates the
// numeric policy, or two records collide (label or family+concentration).
// Any ErrDataFormat aborts the whole load; no partial table is produced.
var ErrDataFormat = errors.New("measurement: malformed data")

// formatErrorf wraps ErrDataFormat with row-level context.
func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDataFormat}, args...)...)
}

// Measurement is one measured sample.
//
// Invariants (enforced by every Table constructor):
//   - Label is non-empty and unique within a Table.
//   - Family is non-empty.
//   - Concentration is finite and ≥ 0 (percent by weight).
//   - Value is finite and > 0 (elastic modulus, kPa).
//   - Within a family no two measurements share a Concentration.
type Measurement struct {
	Label         string  // sample identifier, e.g. "EF10_12_5T"
	Family        string  // base-material family, e.g. "EF10"
	Concentration float64 // thinner concentration, %
	Value         float64 // measured property value
}

// String renders the measurement the way the result panel lists bounds.
func (m Measurement) String() string {
	return fmt.Sprintf("%s (%s, %.1f%%): %.2f", m.Label, m.Family, m.Concentration, m.Value)
}

// Row is a typed (label, value) pair as delivered by a tabular source before
// label decomposition.
type Row struct {
	Label string
	Value float64
}
