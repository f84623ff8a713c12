// SPDX-License-Identifier: MIT

// Package measurement is the measurement store: an immutable, ordered table of
// experimentally measured phantom samples.
//
// 🚀 What is a measurement?
//
//	One row of the lab table: a sample label such as "EF10_12_5T", the
//	silicone family it belongs to ("EF10"), the thinner concentration in
//	percent by weight (12.5) and the measured elastic modulus (kPa).
//
// ✨ Key features:
//   - label decomposition that accepts both "12.5" and "12_5" encodings
//   - CSV decoding with configurable column names
//   - strict validation: duplicate labels, duplicate concentrations within a
//     family, non-finite or non-positive values abort the whole load
//   - grouping by family (first-appearance order) and a value-sorted Index
//     used for nearest-bound lookups
//   - a 64-bit content fingerprint (xxhash) to detect unchanged reloads
//
// ⚙️ Usage:
//
//	tbl, err := measurement.Load(f)
//	if errors.Is(err, measurement.ErrDataFormat) {
//	    // malformed table: nothing was loaded
//	}
//	groups := tbl.Group()          // family -> measurements
//	idx := measurement.NewIndex(tbl) // sorted by value
//
// A Table never changes after construction. A new data load produces a new
// Table; callers swap references instead of mutating.
package measurement
