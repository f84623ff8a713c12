// SPDX-License-Identifier: MIT

package designer

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/katalvlaran/phantom/family"
	"github.com/katalvlaran/phantom/gap"
	"github.com/katalvlaran/phantom/measurement"
)

// Snapshot is the immutable state of one data load. Safe for concurrent use.
type Snapshot struct {
	table    *measurement.Table
	models   []*family.Model
	byID     map[string]*family.Model
	rejected map[string]error
	index    *measurement.Index
	builtAt  time.Time
	opts     Options
}

// Build derives a Snapshot from t.
//
// Steps:
//  1. Group measurements by family (phase one).
//  2. Order families: FamilyOrder first, then first appearance.
//  3. Build each family model independently (phase two).
//  4. Build the global value index.
//
// A nil table yields an empty snapshot.
//
// Errors: a family error that wraps measurement.ErrDataFormat aborts the
// build. Other family errors are recorded in Rejected().
func Build(t *measurement.Table, opts ...Option) (*Snapshot, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	s := &Snapshot{
		table:    t,
		byID:     make(map[string]*family.Model),
		rejected: make(map[string]error),
		index:    measurement.NewIndex(t),
		builtAt:  o.Clock.Now(),
		opts:     o,
	}

	groups := t.Group()
	for _, id := range familyOrder(o.FamilyOrder, t.Families()) {
		m, err := family.Build(id, groups[id])
		switch {
		case errors.Is(err, measurement.ErrDataFormat):
			return nil, fmt.Errorf("designer: build %s: %w", id, err)
		case err != nil:
			s.rejected[id] = err
			continue
		}
		s.models = append(s.models, m)
		s.byID[id] = m
	}

	return s, nil
}

// familyOrder puts preferred IDs that exist first, then the rest in order.
func familyOrder(preferred, present []string) []string {
	have := make(map[string]bool, len(present))
	for _, id := range present {
		have[id] = true
	}
	out := make([]string, 0, len(present))
	used := make(map[string]bool, len(present))
	for _, id := range preferred {
		if have[id] && !used[id] {
			out = append(out, id)
			used[id] = true
		}
	}
	for _, id := range present {
		if !used[id] {
			out = append(out, id)
			used[id] = true
		}
	}

	return out
}

// Table returns the source table.
func (s *Snapshot) Table() *measurement.Table { return s.table }

// Index returns the global value index.
func (s *Snapshot) Index() *measurement.Index { return s.index }

// Fingerprint returns the source table fingerprint.
func (s *Snapshot) Fingerprint() uint64 { return s.table.Fingerprint() }

// BuiltAt returns the build time.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Models returns the usable family models in presentation order.
func (s *Snapshot) Models() []*family.Model {
	return append([]*family.Model(nil), s.models...)
}

// Families returns the IDs of the usable family models in presentation order.
func (s *Snapshot) Families() []string {
	ids := make([]string, len(s.models))
	for i, m := range s.models {
		ids[i] = m.ID()
	}

	return ids
}

// Model returns the model of family id.
func (s *Snapshot) Model(id string) (*family.Model, bool) {
	m, ok := s.byID[id]

	return m, ok
}

// Rejected returns the families that could not be modelled and why.
func (s *Snapshot) Rejected() map[string]error {
	return maps.Clone(s.rejected)
}

// Uncovered returns the value gaps between the families' measured ranges.
func (s *Snapshot) Uncovered() []family.Interval {
	return gap.Uncovered(s.models, s.index)
}
