// Package family builds the per-family response model: a monotone PCHIP
// curve mapping thinner concentration to the measured property, defined only
// on the measured concentration range of one base-material family.
//
// ✨ Guarantees:
//   - Evaluate reproduces every measurement exactly at its concentration
//   - Evaluate refuses concentrations outside Domain() with ErrOutOfDomain
//   - measured values are monotone in concentration (checked by Build), so
//     Range() is exactly the set of values the curve can reach
//
// ⚙️ Usage:
//
//	m, err := family.Build("EF10", tbl.Family("EF10"))
//	v, err := m.Evaluate(12.5)
//	for c, v := range m.Sample(0) { ... } // 300 points over the domain
//
// A single-measurement family is valid but degenerate: its domain and range
// collapse to one point and it cannot be inverted.
package family
