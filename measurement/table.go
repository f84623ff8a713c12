// SPDX-License-Identifier: MIT

package measurement

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Table is the immutable, ordered result of one data load.
//
// Measurements keep source order. Families are listed in order of first
// appearance. The zero Table is empty and valid.
type Table struct {
	rows        []Measurement
	families    []string
	fingerprint uint64
}

// Load decodes a CSV table with a header row.
//
// Implementation:
//   - Stage 1: read header, locate label/value columns (BOM tolerated).
//   - Stage 2: per record, parse value and decompose label.
//   - Stage 3: validate the whole set (see Measurement invariants).
//
// The fingerprint is the xxhash of the raw bytes read from r.
//
// Errors:
//   - ErrDataFormat for any malformed header, record, or invariant violation.
//   - I/O errors from r are returned wrapped.
func Load(r io.Reader, opts ...Option) (*Table, error) {
	o := gatherOptions(opts)

	digest := xxhash.New()
	cr := csv.NewReader(io.TeeReader(r, digest))
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, formatErrorf("empty source: missing header row")
	}
	if err != nil {
		return nil, wrapCSV(err)
	}
	labelAt, valueAt := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch h {
		case o.LabelColumn:
			labelAt = i
		case o.ValueColumn:
			valueAt = i
		}
	}
	if labelAt < 0 {
		return nil, formatErrorf("missing column %q", o.LabelColumn)
	}
	if valueAt < 0 {
		return nil, formatErrorf("missing column %q", o.ValueColumn)
	}

	var ms []Measurement
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSV(err)
		}
		label := strings.TrimSpace(rec[labelAt])
		if label == "" {
			return nil, formatErrorf("line %d: empty %s", line, o.LabelColumn)
		}
		raw := strings.TrimSpace(rec[valueAt])
		if raw == "" {
			return nil, formatErrorf("line %d: empty %s", line, o.ValueColumn)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, formatErrorf("line %d: %s %q is not a number", line, o.ValueColumn, raw)
		}
		fam, c, err := parseLabel(label, o)
		if err != nil {
			return nil, err
		}
		ms = append(ms, Measurement{Label: label, Family: fam, Concentration: c, Value: v})
	}

	t, err := newTable(ms)
	if err != nil {
		return nil, err
	}
	t.fingerprint = digest.Sum64()

	return t, nil
}

// NewTable decomposes typed rows into measurements and validates them.
// The fingerprint is computed over the canonical row encoding.
func NewTable(rows []Row, opts ...Option) (*Table, error) {
	o := gatherOptions(opts)
	ms := make([]Measurement, 0, len(rows))
	for i, r := range rows {
		label := strings.TrimSpace(r.Label)
		if label == "" {
			return nil, formatErrorf("row %d: empty label", i)
		}
		fam, c, err := parseLabel(label, o)
		if err != nil {
			return nil, err
		}
		ms = append(ms, Measurement{Label: label, Family: fam, Concentration: c, Value: r.Value})
	}

	return FromMeasurements(ms)
}

// FromMeasurements validates already-decomposed measurements and wraps them
// in a Table. The input slice is copied.
func FromMeasurements(ms []Measurement) (*Table, error) {
	t, err := newTable(append([]Measurement(nil), ms...))
	if err != nil {
		return nil, err
	}
	t.fingerprint = canonicalHash(t.rows)

	return t, nil
}

// newTable validates ms (taking ownership) and derives the family order.
func newTable(ms []Measurement) (*Table, error) {
	labels := make(map[string]struct{}, len(ms))
	type key struct {
		family string
		conc   float64
	}
	seen := make(map[key]string, len(ms))
	var families []string
	known := make(map[string]struct{})

	for _, m := range ms {
		if m.Label == "" {
			return nil, formatErrorf("empty label")
		}
		if m.Family == "" {
			return nil, formatErrorf("label %q: empty family", m.Label)
		}
		if isNonFinite(m.Concentration) || m.Concentration < 0 {
			return nil, formatErrorf("label %q: concentration %g must be finite and non-negative", m.Label, m.Concentration)
		}
		if isNonFinite(m.Value) || m.Value <= 0 {
			return nil, formatErrorf("label %q: value %g must be finite and positive", m.Label, m.Value)
		}
		if _, dup := labels[m.Label]; dup {
			return nil, formatErrorf("duplicate label %q", m.Label)
		}
		labels[m.Label] = struct{}{}

		k := key{m.Family, m.Concentration}
		if other, dup := seen[k]; dup {
			return nil, formatErrorf("family %s: labels %q and %q share concentration %g", m.Family, other, m.Label, m.Concentration)
		}
		seen[k] = m.Label

		if _, ok := known[m.Family]; !ok {
			known[m.Family] = struct{}{}
			families = append(families, m.Family)
		}
	}

	return &Table{rows: ms, families: families}, nil
}

// Len returns the number of measurements.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.rows)
}

// Measurements returns a copy of all measurements in source order.
func (t *Table) Measurements() []Measurement {
	if t == nil {
		return nil
	}

	return append([]Measurement(nil), t.rows...)
}

// Families returns family IDs in order of first appearance.
func (t *Table) Families() []string {
	if t == nil {
		return nil
	}

	return append([]string(nil), t.families...)
}

// Family returns the measurements of one family in source order,
// or nil when the family is unknown.
func (t *Table) Family(id string) []Measurement {
	if t == nil {
		return nil
	}
	var out []Measurement
	for _, m := range t.rows {
		if m.Family == id {
			out = append(out, m)
		}
	}

	return out
}

// Group partitions the table by family. Each slice keeps source order and is
// owned by the caller.
func (t *Table) Group() map[string][]Measurement {
	groups := make(map[string][]Measurement, len(t.Families()))
	if t == nil {
		return groups
	}
	for _, m := range t.rows {
		groups[m.Family] = append(groups[m.Family], m)
	}

	return groups
}

// Fingerprint returns the 64-bit content hash of the source.
// Equal fingerprints mean the reload brought no change.
func (t *Table) Fingerprint() uint64 {
	if t == nil {
		return 0
	}

	return t.fingerprint
}

// canonicalHash hashes label/family/concentration/value tuples in order.
func canonicalHash(ms []Measurement) uint64 {
	d := xxhash.New()
	var buf []byte
	for _, m := range ms {
		buf = buf[:0]
		buf = append(buf, m.Label...)
		buf = append(buf, 0)
		buf = append(buf, m.Family...)
		buf = append(buf, 0)
		buf = strconv.AppendFloat(buf, m.Concentration, 'g', -1, 64)
		buf = append(buf, 0)
		buf = strconv.AppendFloat(buf, m.Value, 'g', -1, 64)
		buf = append(buf, '\n')
		_, _ = d.Write(buf)
	}

	return d.Sum64()
}

// wrapCSV classifies csv parse errors as ErrDataFormat and passes I/O through.
func wrapCSV(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return formatErrorf("csv: %v", pe)
	}

	return err
}

func isNonFinite(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}
