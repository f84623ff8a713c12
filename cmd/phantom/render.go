package main

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/katalvlaran/phantom/designer"
	"github.com/katalvlaran/phantom/gap"
	"github.com/katalvlaran/phantom/measurement"
)

// answer runs one query and prints the result panel.
func answer(w io.Writer, snap *designer.Snapshot, family string, target float64) error {
	if family != "" {
		res, err := snap.Force(family, target)
		if err != nil {
			return err
		}
		if res.Outcome == gap.Covered {
			fmt.Fprintf(w, "Feasible within %s\n", family)
			printRecipes(w, res)
			return nil
		}
		m, _ := snap.Model(family)
		rng := m.Range()
		fmt.Fprintf(w, "%s cannot cover %.2f kPa (validated range: %.2f-%.2f kPa)\n", family, target, rng.Min, rng.Max)
		printBounds(w, res.Bounds)
		return nil
	}

	res, err := snap.Query(target)
	if err != nil {
		return err
	}
	switch {
	case res.Outcome == gap.Covered && len(res.Recipes) > 0:
		fmt.Fprintln(w, "Covered by validated data")
		printRecipes(w, res)
	case res.Outcome == gap.Covered:
		fmt.Fprintln(w, "Covered by validated data, but no family could be inverted")
		printBounds(w, res.Bounds)
	default:
		fmt.Fprintln(w, "Target is in a non-validated gap / out of range (no extrapolation).")
		printBounds(w, res.Bounds)
	}
	for _, id := range slices.Sorted(maps.Keys(res.Failures)) {
		fmt.Fprintf(w, "%s: %v\n", id, res.Failures[id])
	}

	return nil
}

func printRecipes(w io.Writer, res designer.Result) {
	for _, r := range res.Recipes {
		fmt.Fprintf(w, "%s: predicted recipe\n", r.Family)
		fmt.Fprintf(w, "  Predicted thinner: %.2f%%\n", r.Concentration)
		fmt.Fprintf(w, "  Predicted modulus (interp): %.2f kPa\n", r.Predicted)
		fmt.Fprintf(w, "  %s\n", r)
	}
}

func printBounds(w io.Writer, b gap.Bounds) {
	fmt.Fprintln(w, "Nearest validated bounds:")
	printBound(w, "Lower", b.Lower)
	printBound(w, "Upper", b.Upper)
}

func printBound(w io.Writer, side string, m *measurement.Measurement) {
	if m == nil {
		fmt.Fprintf(w, "- %s: none\n", side)
		return
	}
	fmt.Fprintf(w, "- %s: %s kPa\n", side, m)
}

// printOverview lists the measured points, curve domains and uncovered ranges.
func printOverview(w io.Writer, snap *designer.Snapshot) {
	ov := snap.Overview(0)
	fmt.Fprintf(w, "Measured phantoms: %d\n", len(ov.Measurements))
	for _, c := range ov.Curves {
		m, _ := snap.Model(c.Family)
		fmt.Fprintf(w, "  %s: thinner %v%%, modulus %v kPa, %s\n", c.Family, c.Domain, m.Range(), m.Direction())
	}
	if len(ov.Gaps) == 0 {
		fmt.Fprintln(w, "No uncovered ranges")
		return
	}
	fmt.Fprintln(w, "Uncovered ranges (kPa):")
	for _, g := range ov.Gaps {
		fmt.Fprintf(w, "  %v\n", g)
	}
}
