// SPDX-License-Identifier: MIT

package measurement

import (
	"strconv"
	"strings"
)

// ParseLabel decomposes a sample label into (family, concentration).
//
// Algorithm:
//  1. Trim surrounding whitespace.
//  2. Split on the FIRST separator: family token | remainder token.
//  3. Strip one trailing unit marker from the remainder.
//  4. Replace any remaining separator in the remainder by '.'
//     ("12_5" → "12.5"); a remainder already using '.' is left as is.
//  5. Parse as float64 percent; it must be finite and ≥ 0.
//
// Examples (defaults):
//
//	"A10_12_5T" → ("A10", 12.5)
//	"A10_12.5T" → ("A10", 12.5)
//	"EF50_0T"   → ("EF50", 0)
//
// Errors:
//   - ErrDataFormat when the separator is missing, either token is empty,
//     or the remainder does not parse to a finite, non-negative number.
//
// Complexity: O(len(label)).
func ParseLabel(label string, opts ...Option) (family string, concentration float64, err error) {
	o := gatherOptions(opts)

	return parseLabel(label, o)
}

func parseLabel(label string, o Options) (string, float64, error) {
	label = strings.TrimSpace(label)
	family, rest, ok := strings.Cut(label, o.Separator)
	if !ok {
		return "", 0, formatErrorf("label %q: missing separator %q", label, o.Separator)
	}
	family = strings.TrimSpace(family)
	if family == "" {
		return "", 0, formatErrorf("label %q: empty family", label)
	}

	if o.UnitSuffix != "" {
		rest = strings.TrimSuffix(rest, o.UnitSuffix)
	}
	rest = strings.ReplaceAll(rest, o.Separator, ".")
	if rest == "" {
		return "", 0, formatErrorf("label %q: empty concentration", label)
	}

	c, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return "", 0, formatErrorf("label %q: concentration %q is not a number", label, rest)
	}
	if isNonFinite(c) || c < 0 {
		return "", 0, formatErrorf("label %q: concentration %g must be finite and non-negative", label, c)
	}

	return family, c, nil
}
