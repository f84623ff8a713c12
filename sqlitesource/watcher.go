// SPDX-License-Identifier: MIT

package sqlitesource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/zoobzio/clockz"

	"github.com/katalvlaran/phantom/measurement"
	"github.com/katalvlaran/phantom/reload"
)

// DefaultPollInterval is the polling period of Watcher.
const DefaultPollInterval = 2 * time.Second

// Watcher polls a SQLite table and emits its rows as a JSON array whenever
// they change. Decode the payload with reload.JSONDecoder using the same
// measurement options.
type Watcher struct {
	db       *sql.DB
	interval time.Duration
	clock    clockz.Clock
	opts     Options
}

var _ reload.Watcher = (*Watcher)(nil)

// NewWatcher returns a Watcher polling db every DefaultPollInterval.
func NewWatcher(db *sql.DB, opts ...Option) *Watcher {
	return &Watcher{
		db:       db,
		interval: DefaultPollInterval,
		clock:    clockz.RealClock,
		opts:     gather(opts),
	}
}

// Interval sets the polling period.
func (w *Watcher) Interval(d time.Duration) *Watcher {
	w.interval = d
	return w
}

// Clock sets the clock driving the poll timer.
func (w *Watcher) Clock(c clockz.Clock) *Watcher {
	w.clock = c
	return w
}

// Decoder returns the reload.Decoder matching the emitted payload.
func (w *Watcher) Decoder() reload.Decoder {
	return reload.JSONDecoder{Options: w.opts.Measurement}
}

// Watch reads the table once and fails if that read fails. Afterwards a
// failed poll is skipped and retried on the next tick.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	first, err := w.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []byte)
	go func() {
		defer close(out)

		last := xxhash.Sum64(first)
		select {
		case out <- first:
		case <-ctx.Done():
			return
		}

		timer := w.clock.NewTimer(w.interval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C():
			}

			if data, err := w.snapshot(ctx); err == nil {
				if sum := xxhash.Sum64(data); sum != last {
					last = sum
					select {
					case out <- data:
					case <-ctx.Done():
						return
					}
				}
			}
			timer.Reset(w.interval)
		}
	}()

	return out, nil
}

// snapshot encodes the current rows as JSON records.
func (w *Watcher) snapshot(ctx context.Context) ([]byte, error) {
	rows, err := readRows(ctx, w.db, w.opts)
	if err != nil {
		return nil, err
	}
	mo := measurement.DefaultOptions()
	for _, opt := range w.opts.Measurement {
		if opt != nil {
			opt(&mo)
		}
	}

	records := make([]map[string]any, len(rows))
	for i, r := range rows {
		records[i] = map[string]any{mo.LabelColumn: r.Label, mo.ValueColumn: r.Value}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("sqlitesource: encode rows: %w", err)
	}

	return data, nil
}
