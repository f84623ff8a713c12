// Package gap is the feasibility and gap-reporting policy.
//
// A target value is "covered" when at least one family's measured value
// range contains it (inclusive on both ends). Otherwise it lies in a gap:
// between families, or outside everything that was measured. The policy
// never extrapolates. For a gap it reports the nearest validated
// measurements below and above the target instead.
//
//	Start ──classify──▶ Covered{feasible families}
//	                └─▶ Gap{lower, upper}
//
// Every function here is pure over immutable inputs.
package gap
