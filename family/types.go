package family

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/phantom/measurement"
	"github.com/katalvlaran/phantom/pchip"
)

var (
	// ErrEmptyFamily indicates Build was called without measurements.
	ErrEmptyFamily = errors.New("family: no measurements")

	// ErrFamilyMismatch indicates a measurement carrying another family ID.
	ErrFamilyMismatch = fmt.Errorf("family: measurement of a different family: %w", measurement.ErrDataFormat)

	// ErrDuplicateConcentration indicates two measurements at the same
	// concentration. It is a data-format error.
	ErrDuplicateConcentration = fmt.Errorf("family: duplicate concentration: %w", measurement.ErrDataFormat)

	// ErrNonMonotone indicates measured values that rise and fall with
	// concentration. Such a family could have several recipes per target.
	ErrNonMonotone = errors.New("family: values are not monotone in concentration")

	// ErrOutOfDomain indicates a concentration outside the measured range.
	// It wraps pchip.ErrOutOfDomain.
	ErrOutOfDomain = fmt.Errorf("family: concentration outside measured domain: %w", pchip.ErrOutOfDomain)
)

// DefaultSamples is the number of points Sample yields for n <= 0.
const DefaultSamples = 300

// Interval is a closed interval [Min, Max].
type Interval struct {
	Min, Max float64
}

// Contains reports Min <= v <= Max (inclusive on both ends).
func (iv Interval) Contains(v float64) bool { return v >= iv.Min && v <= iv.Max }

// Width returns Max - Min.
func (iv Interval) Width() float64 { return iv.Max - iv.Min }

// Degenerate reports a single-point interval.
func (iv Interval) Degenerate() bool { return iv.Min == iv.Max }

func (iv Interval) String() string { return fmt.Sprintf("[%.2f, %.2f]", iv.Min, iv.Max) }

// Direction is the trend of measured values as concentration grows.
type Direction int

const (
	// Constant: every measured value is equal (or a single measurement).
	Constant Direction = iota
	// Increasing: non-decreasing values, at least one strict rise.
	Increasing
	// Decreasing: non-increasing values, at least one strict fall.
	Decreasing
)

func (d Direction) String() string {
	switch d {
	case Constant:
		return "constant"
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}
