// SPDX-License-Identifier: MIT

// Package designer assembles everything derived from one data load into an
// immutable Snapshot and answers design queries against it.
//
// 🚀 What is a Snapshot?
//
//	The product of one load: the measurement table, one response model per
//	usable family (in presentation order), the families that were rejected
//	and why, and the value-sorted index used for nearest bounds. Nothing in
//	a Snapshot changes after Build. A new load builds a new Snapshot, and
//	callers swap the pointer (see package reload).
//
// ✨ Query modes:
//   - Query(target): auto-select. Classify the target; if covered, invert
//     every feasible family (concurrently) and return one recipe per family;
//     otherwise return the nearest validated bounds.
//   - Force(family, target): one chosen family. If it cannot reach the
//     target, return the nearest bounds.
//   - Overview(samples): raw measurements plus a lazily sampled curve per
//     usable family, for plotting.
//
// ⚙️ Usage:
//
//	snap, err := designer.Build(tbl, designer.WithFamilyOrder("EF50", "EF30", "EF10"))
//	res, err := snap.Query(45)
//	if res.Outcome == gap.Covered {
//	    for _, r := range res.Recipes {
//	        fmt.Println(r)
//	    }
//	}
//
// Build errors: only data-format errors abort the build. Any other
// per-family failure (e.g. family.ErrNonMonotone) is recorded in
// Rejected() and sibling families are built normally.
package designer
