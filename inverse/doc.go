// SPDX-License-Identifier: MIT

// Package inverse turns a target property value into a manufacturing recipe
// by inverting one family's response model.
//
// Invert solves Evaluate(c) − target = 0 for the concentration c on the
// family's measured domain with a bracketed root finder (Brent by default).
// Because family models are monotone by construction, a target inside the
// measured value range always has a bracket; a target outside it is
// rejected before any root finding with ErrInfeasibleTarget.
//
// ⚙️ Usage:
//
//	r, err := inverse.Invert(model, 45)
//	switch {
//	case errors.Is(err, inverse.ErrInfeasibleTarget):
//	    // fall back to nearest bounds
//	case err != nil:
//	    // ErrDegenerateModel or ErrRootFinding
//	}
//	fmt.Println(r) // EF10 (A+B) + 9.18% thinner (by weight of A+B)
package inverse
