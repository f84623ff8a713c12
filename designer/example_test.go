package designer_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/phantom/designer"
	"github.com/katalvlaran/phantom/gap"
	"github.com/katalvlaran/phantom/measurement"
)

// ExampleSnapshot_Query shows a covered target and a target in a gap.
func ExampleSnapshot_Query() {
	tbl, err := measurement.Load(strings.NewReader(`sample_label,elastic_modulus_mean_kPa
EF50_0T,128.40
EF50_10T,111.10
EF50_20T,97.26
EF30_0T,73.18
EF30_12_5T,61.02
EF10_0T,54.21
EF10_12_5T,41.77
EF10_25T,30.05
`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	snap, _ := designer.Build(tbl)

	for _, target := range []float64{45, 58} {
		res, _ := snap.Query(target)
		fmt.Printf("%.2f kPa: %s\n", target, res.Outcome)
		if res.Outcome == gap.Covered {
			for _, r := range res.Recipes {
				fmt.Println(" ", r)
			}
			continue
		}
		fmt.Println("  lower:", res.Bounds.Lower)
		fmt.Println("  upper:", res.Bounds.Upper)
	}
	// Output:
	// 45.00 kPa: covered
	//   EF10 (A+B) + 9.18% thinner (by weight of A+B)
	// 58.00 kPa: gap
	//   lower: EF10_0T (EF10, 0.0%): 54.21
	//   upper: EF30_12_5T (EF30, 12.5%): 61.02
}
