// SPDX-License-Identifier: MIT

package sqlitesource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/katalvlaran/phantom/measurement"
)

// DefaultTable is the table read by Load.
const DefaultTable = "phantoms"

// ErrBadIdentifier indicates a table or column name that is not a plain
// SQL identifier. Names are interpolated into the query, so only
// [A-Za-z_][A-Za-z0-9_]* is accepted.
var ErrBadIdentifier = errors.New("sqlitesource: invalid identifier")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options configures Load.
type Options struct {
	Table       string
	Measurement []measurement.Option
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions reads DefaultTable with the measurement column defaults.
func DefaultOptions() Options {
	return Options{Table: DefaultTable}
}

// WithTable sets the table name.
func WithTable(name string) Option {
	return func(o *Options) { o.Table = name }
}

// WithMeasurementOptions sets label decomposition and column options.
// LabelColumn and ValueColumn name the SQL columns.
func WithMeasurementOptions(opts ...measurement.Option) Option {
	return func(o *Options) { o.Measurement = append(o.Measurement, opts...) }
}

// Open opens the SQLite database at path and verifies the connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	return db, nil
}

// Load reads the measurement table from db.
//
// Errors:
//   - ErrBadIdentifier for an unsafe table or column name.
//   - measurement.ErrDataFormat for NULL values or any record that fails
//     measurement validation.
//   - driver errors (missing table, I/O) wrapped as-is.
func Load(ctx context.Context, db *sql.DB, opts ...Option) (*measurement.Table, error) {
	o := gather(opts)
	rows, err := readRows(ctx, db, o)
	if err != nil {
		return nil, err
	}

	return measurement.NewTable(rows, o.Measurement...)
}

func gather(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// readRows selects (label, value) pairs in rowid order.
func readRows(ctx context.Context, db *sql.DB, o Options) ([]measurement.Row, error) {
	mo := measurement.DefaultOptions()
	for _, opt := range o.Measurement {
		if opt != nil {
			opt(&mo)
		}
	}
	for _, id := range []string{o.Table, mo.LabelColumn, mo.ValueColumn} {
		if !identRe.MatchString(id) {
			return nil, fmt.Errorf("%w: %q", ErrBadIdentifier, id)
		}
	}

	q := fmt.Sprintf(`SELECT %q, %q FROM %q ORDER BY rowid`, mo.LabelColumn, mo.ValueColumn, o.Table)
	rs, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", o.Table, err)
	}
	defer func() { _ = rs.Close() }()

	var out []measurement.Row
	for n := 1; rs.Next(); n++ {
		var (
			label sql.NullString
			value sql.NullFloat64
		)
		if err := rs.Scan(&label, &value); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", measurement.ErrDataFormat, n, err)
		}
		if !label.Valid || !value.Valid {
			return nil, fmt.Errorf("%w: row %d: NULL label or value", measurement.ErrDataFormat, n)
		}
		out = append(out, measurement.Row{Label: label.String, Value: value.Float64})
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", o.Table, err)
	}

	return out, nil
}
