// Package phantom maps a target elastic modulus to a silicone phantom recipe,
// using only the measurements a lab has actually validated.
//
// 🚀 What is phantom?
//
//	A small, concurrency-safe toolkit that turns a table of measured
//	phantoms into answers for the bench:
//		• measurement: load the table, parse sample labels, sort by value
//		• pchip: shape-preserving interpolation, never extrapolates
//		• rootfind: Brent and bisection on a bracket
//		• family: one monotone model per base material
//		• inverse: target modulus → thinner concentration
//		• gap: feasibility, nearest validated bounds, uncovered ranges
//		• designer: immutable snapshot answering auto and forced queries
//		• reload: hot-swap the snapshot when the table changes
//		• sqlitesource: read (and poll) the table from SQLite
//
// ✨ Guarantees
//
//   - No extrapolation: a target outside every family's measured range is a
//     gap, answered with the nearest measured phantoms below and above.
//   - Recipes always lie inside the measured concentration domain.
//   - A broken family is rejected alone; the others keep answering.
//
// Quick example:
//
//	tbl, _ := measurement.Load(f)
//	snap, _ := designer.Build(tbl, designer.WithFamilyOrder("EF50", "EF30", "EF10"))
//	res, _ := snap.Query(45)
//	fmt.Println(res.Recipes[0]) // EF10 (A+B) + 9.18% thinner (by weight of A+B)
//
// The phantom command in cmd/phantom wraps all of this for the terminal.
package phantom
