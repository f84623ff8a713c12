package pchip_test

import (
	"testing"

	"github.com/katalvlaran/phantom/pchip"
)

// benchmarkEval builds an n-knot interpolant and evaluates it across its domain.
func benchmarkEval(b *testing.B, n int) {
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = float64(n - i)
	}
	ip, err := pchip.New(xs, ys)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	span := float64(n - 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ip.Eval(span * float64(i%1000) / 1000); err != nil {
			b.Fatalf("Eval failed: %v", err)
		}
	}
}

// BenchmarkEval_Lab is the size of a real family (a handful of samples).
func BenchmarkEval_Lab(b *testing.B) { benchmarkEval(b, 5) }

// BenchmarkEval_Large checks the O(log n) lookup on a large table.
func BenchmarkEval_Large(b *testing.B) { benchmarkEval(b, 10_000) }
