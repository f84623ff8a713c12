// SPDX-License-Identifier: MIT

package measurement

// Defaults mirror the lab table layout ("EF10_12_5T", phantoms_table.csv).
const (
	// DefaultSeparator splits family from concentration and may also stand in
	// for the decimal point inside the concentration token.
	DefaultSeparator = "_"

	// DefaultUnitSuffix is the trailing unit marker stripped from the
	// concentration token ("T" for thinner).
	DefaultUnitSuffix = "T"

	// DefaultLabelColumn is the CSV header of the sample label column.
	DefaultLabelColumn = "sample_label"

	// DefaultValueColumn is the CSV header of the measured property column.
	DefaultValueColumn = "elastic_modulus_mean_kPa"
)

const (
	panicSeparatorEmpty = "measurement: WithSeparator: separator must be non-empty"
	panicColumnEmpty    = "measurement: column name must be non-empty"
)

// Options configures label decomposition and CSV decoding.
type Options struct {
	Separator   string
	UnitSuffix  string
	LabelColumn string
	ValueColumn string
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the lab-table defaults.
func DefaultOptions() Options {
	return Options{
		Separator:   DefaultSeparator,
		UnitSuffix:  DefaultUnitSuffix,
		LabelColumn: DefaultLabelColumn,
		ValueColumn: DefaultValueColumn,
	}
}

// WithSeparator sets the family/concentration separator. Panics on "".
func WithSeparator(sep string) Option {
	if sep == "" {
		panic(panicSeparatorEmpty)
	}

	return func(o *Options) { o.Separator = sep }
}

// WithUnitSuffix sets the trailing unit marker. An empty suffix disables
// stripping.
func WithUnitSuffix(suffix string) Option {
	return func(o *Options) { o.UnitSuffix = suffix }
}

// WithLabelColumn sets the CSV header holding sample labels.
func WithLabelColumn(name string) Option {
	if name == "" {
		panic(panicColumnEmpty)
	}

	return func(o *Options) { o.LabelColumn = name }
}

// WithValueColumn sets the CSV header holding property values.
func WithValueColumn(name string) Option {
	if name == "" {
		panic(panicColumnEmpty)
	}

	return func(o *Options) { o.ValueColumn = name }
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
