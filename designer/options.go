// SPDX-License-Identifier: MIT

package designer

import (
	"runtime"

	"github.com/zoobzio/clockz"

	"github.com/katalvlaran/phantom/inverse"
)

const panicWorkers = "designer: WithWorkers: n must be >= 1"

// Options configures Build and the resulting Snapshot.
type Options struct {
	// FamilyOrder lists families to present first. Families not listed
	// follow in order of first appearance in the table.
	FamilyOrder []string

	// Workers bounds concurrent inversions in Query.
	Workers int

	// Inverse is passed through to inverse.Invert.
	Inverse []inverse.Option

	// Clock stamps BuiltAt.
	Clock clockz.Clock
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns table order, GOMAXPROCS workers and the real clock.
func DefaultOptions() Options {
	return Options{
		Workers: runtime.GOMAXPROCS(0),
		Clock:   clockz.RealClock,
	}
}

// WithFamilyOrder sets the presentation order of families.
func WithFamilyOrder(ids ...string) Option {
	ids = append([]string(nil), ids...)

	return func(o *Options) { o.FamilyOrder = ids }
}

// WithWorkers bounds concurrent inversions. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkers)
	}

	return func(o *Options) { o.Workers = n }
}

// WithInverseOptions passes options to every inversion.
func WithInverseOptions(opts ...inverse.Option) Option {
	return func(o *Options) { o.Inverse = append(o.Inverse, opts...) }
}

// WithClock sets the clock used for BuiltAt.
func WithClock(c clockz.Clock) Option {
	return func(o *Options) {
		if c != nil {
			o.Clock = c
		}
	}
}
