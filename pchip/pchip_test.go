package pchip_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/phantom/pchip"
)

// TestNew_Validation checks every constructor sentinel.
func TestNew_Validation(t *testing.T) {
	_, err := pchip.New([]float64{0, 1}, []float64{1})
	assert.ErrorIs(t, err, pchip.ErrLengthMismatch)

	_, err = pchip.New([]float64{0}, []float64{1})
	assert.ErrorIs(t, err, pchip.ErrTooFewPoints)

	_, err = pchip.New([]float64{0, math.NaN()}, []float64{1, 2})
	assert.ErrorIs(t, err, pchip.ErrNaNInf)

	_, err = pchip.New([]float64{0, 1}, []float64{1, math.Inf(1)})
	assert.ErrorIs(t, err, pchip.ErrNaNInf)

	_, err = pchip.New([]float64{0, 1, 1}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, pchip.ErrNotIncreasing)

	_, err = pchip.New([]float64{2, 1}, []float64{1, 2})
	assert.ErrorIs(t, err, pchip.ErrNotIncreasing)
}

// TestEval_ReproducesKnots verifies interpolation passes through every knot exactly.
func TestEval_ReproducesKnots(t *testing.T) {
	xs := []float64{0, 10, 20, 35}
	ys := []float64{128.4, 111.1, 97.26, 80.5}
	ip, err := pchip.New(xs, ys)
	require.NoError(t, err)

	for i := range xs {
		y, err := ip.Eval(xs[i])
		require.NoError(t, err)
		assert.Equal(t, ys[i], y, "knot %d", i)
	}
}

// TestEval_TwoKnotsIsLinear checks the degenerate two-knot case is a straight line.
func TestEval_TwoKnotsIsLinear(t *testing.T) {
	ip, err := pchip.New([]float64{0, 50}, []float64{100, 20})
	require.NoError(t, err)

	for _, x := range []float64{5, 12.5, 25, 40} {
		y, err := ip.Eval(x)
		require.NoError(t, err)
		assert.InDelta(t, 100-1.6*x, y, 1e-12, "x=%v", x)
	}
	assert.Equal(t, []float64{-1.6, -1.6}, ip.Slopes())
}

// TestEval_RefusesExtrapolation ensures points outside the domain never yield a value.
func TestEval_RefusesExtrapolation(t *testing.T) {
	ip, err := pchip.New([]float64{0, 50}, []float64{100, 20})
	require.NoError(t, err)

	for _, x := range []float64{-1e-12, -5, 50.0000001, 75, math.Inf(1), math.Inf(-1), math.NaN()} {
		y, err := ip.Eval(x)
		assert.ErrorIs(t, err, pchip.ErrOutOfDomain, "x=%v", x)
		assert.Zero(t, y)
	}

	lo, hi := ip.Domain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 50.0, hi)
}

// TestEval_NoOvershoot checks the curve stays inside each interval's knot values
// on data with an abrupt step, where a natural spline would overshoot.
func TestEval_NoOvershoot(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 0, 0, 10, 10, 10}
	ip, err := pchip.New(xs, ys)
	require.NoError(t, err)

	for i := 0; i <= 500; i++ {
		x := float64(i) / 100
		y, err := ip.Eval(x)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, y, 0.0, "x=%v", x)
		assert.LessOrEqual(t, y, 10.0, "x=%v", x)
	}
}

// TestEval_FlatSegmentIsExact checks a flat stretch returns its knot value
// bit for bit, at every sample, on both plateaus of a step.
func TestEval_FlatSegmentIsExact(t *testing.T) {
	ip, err := pchip.New([]float64{0, 1, 2, 3, 4, 5}, []float64{1, 1, 1, 10, 10, 10})
	require.NoError(t, err)

	for _, x := range []float64{0.3, 1.5, 1.99, 3.18, 4.23, 4.27, 4.999} {
		y, err := ip.Eval(x)
		require.NoError(t, err)
		if x < 2 {
			assert.Equal(t, 1.0, y, "x=%v", x)
		} else if x > 3 {
			assert.Equal(t, 10.0, y, "x=%v", x)
		}
	}
}

// TestEval_LocalExtremumIsFlat verifies zero slope at a data peak.
func TestEval_LocalExtremumIsFlat(t *testing.T) {
	ip, err := pchip.New([]float64{0, 1, 2}, []float64{0, 5, 1})
	require.NoError(t, err)

	assert.Equal(t, 0.0, ip.Slopes()[1])
	for x := 0.0; x <= 2; x += 0.05 {
		y, _ := ip.Eval(x)
		assert.LessOrEqual(t, y, 5.0, "peak must not be exceeded at x=%v", x)
	}
}

// TestEval_MonotoneProperty samples random monotone data densely and asserts
// the interpolant is monotone in the same direction.
func TestEval_MonotoneProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(8)
		xs := make([]float64, n)
		ys := make([]float64, n)
		x, y := 0.0, 100.0
		for i := 0; i < n; i++ {
			x += 0.5 + rng.Float64()*10
			y -= rng.Float64() * 20 // non-increasing, flats allowed
			if rng.Intn(5) == 0 && i > 0 {
				y = ys[i-1]
			}
			xs[i], ys[i] = x, y
		}
		ip, err := pchip.New(xs, ys)
		require.NoError(t, err)

		prev := math.Inf(1)
		for s := 0; s <= 500; s++ {
			xv := math.Min(xs[0]+(xs[n-1]-xs[0])*float64(s)/500, xs[n-1])
			yv, err := ip.Eval(xv)
			require.NoError(t, err)
			assert.LessOrEqual(t, yv, prev+1e-9, "trial %d: not monotone at x=%v", trial, xv)
			prev = yv
		}
	}
}

// TestKnots_AreCopies ensures callers cannot mutate the interpolant.
func TestKnots_AreCopies(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{3, 2, 1}
	ip, err := pchip.New(xs, ys)
	require.NoError(t, err)

	xs[1] = 100
	kx, ky := ip.Knots()
	assert.Equal(t, []float64{0, 1, 2}, kx)
	ky[0] = -1
	y, _ := ip.Eval(0)
	assert.Equal(t, 3.0, y)
	assert.True(t, sort.Float64sAreSorted(kx))
}
