package reload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"

	"github.com/katalvlaran/phantom/designer"
)

// DefaultDebounce coalesces bursts of writes (editors often save in
// several steps) into one load.
const DefaultDebounce = 100 * time.Millisecond

var (
	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("reload: already started")

	// ErrWatcherClosed indicates the watcher closed before its first value.
	ErrWatcherClosed = errors.New("reload: watcher closed before emitting initial value")

	// ErrNoUsableFamilies indicates a table from which no family model
	// could be built. Such a snapshot is never swapped in.
	ErrNoUsableFamilies = errors.New("reload: table has no usable family")
)

// Reloader keeps the current designer.Snapshot in sync with a Watcher.
type Reloader struct {
	watcher   Watcher
	debounce  time.Duration
	syncMode  bool
	clock     clockz.Clock
	decoder   Decoder
	metrics   MetricsProvider
	logger    *slog.Logger
	onSwap    func(ctx context.Context, prev, curr *designer.Snapshot)
	buildOpts []designer.Option

	state     atomic.Int32
	current   atomic.Pointer[designer.Snapshot]
	lastError atomic.Pointer[error]

	mu      sync.Mutex
	started bool

	// sync mode only
	changes <-chan []byte
}

// New creates a Reloader fed by w. Build options are applied to every
// snapshot. Instance configuration uses the chainable methods below and
// must happen before Start.
func New(w Watcher, opts ...designer.Option) *Reloader {
	r := &Reloader{
		watcher:   w,
		debounce:  DefaultDebounce,
		clock:     clockz.RealClock,
		decoder:   CSVDecoder{},
		metrics:   NoOpMetricsProvider{},
		logger:    slog.New(slog.DiscardHandler),
		buildOpts: opts,
	}
	r.state.Store(int32(StateLoading))

	return r
}

// Debounce sets the quiet period before a change is processed. Default 100ms.
func (r *Reloader) Debounce(d time.Duration) *Reloader {
	r.debounce = d
	return r
}

// SyncMode processes changes only when Process is called. For tests.
func (r *Reloader) SyncMode() *Reloader {
	r.syncMode = true
	return r
}

// Clock sets the clock used for debouncing and load timing.
func (r *Reloader) Clock(c clockz.Clock) *Reloader {
	r.clock = c
	return r
}

// Decoder sets the source format. Default CSVDecoder.
func (r *Reloader) Decoder(d Decoder) *Reloader {
	r.decoder = d
	return r
}

// Metrics sets the metrics provider.
func (r *Reloader) Metrics(m MetricsProvider) *Reloader {
	if m == nil {
		m = NoOpMetricsProvider{}
	}
	r.metrics = m
	return r
}

// Logger sets the structured logger. Default discards.
func (r *Reloader) Logger(l *slog.Logger) *Reloader {
	if l != nil {
		r.logger = l
	}
	return r
}

// OnSwap registers a callback invoked after each swap. prev is nil on the
// first successful load.
func (r *Reloader) OnSwap(fn func(ctx context.Context, prev, curr *designer.Snapshot)) *Reloader {
	r.onSwap = fn
	return r
}

// BuildOptions appends options applied to every snapshot build.
func (r *Reloader) BuildOptions(opts ...designer.Option) *Reloader {
	r.buildOpts = append(r.buildOpts, opts...)
	return r
}

// State returns the current state.
func (r *Reloader) State() State {
	return State(r.state.Load())
}

// Current returns the active snapshot, or nil before the first successful load.
func (r *Reloader) Current() *designer.Snapshot {
	return r.current.Load()
}

// LastError returns the error of the most recent failed load, or nil once a
// later load succeeds.
func (r *Reloader) LastError() error {
	if p := r.lastError.Load(); p != nil {
		return *p
	}

	return nil
}

// Start begins watching. It blocks until the first value is processed and
// returns that load's error, then keeps watching in the background until
// ctx is done. A failed first load leaves the Reloader in StateEmpty, still
// watching.
//
// In sync mode only the first value is processed; call Process for each
// subsequent one.
func (r *Reloader) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.mu.Unlock()

	capitan.Emit(ctx, ReloaderStarted, KeyDebounce.Field(r.debounce))
	r.logger.Debug("reload starting", "debounce", r.debounce, "format", r.decoder.ContentType())

	changes, err := r.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("reload: start watcher: %w", err)
	}

	var initialErr error
	select {
	case <-ctx.Done():
		return ctx.Err()
	case raw, ok := <-changes:
		if !ok {
			return ErrWatcherClosed
		}
		r.received(ctx)
		initialErr = r.process(ctx, raw)
	}

	if r.syncMode {
		r.changes = changes
		return initialErr
	}
	go r.watch(ctx, changes)

	return initialErr
}

// Process reads and processes the next pending value. Sync mode only.
// Returns false when no value is pending or the channel is closed.
func (r *Reloader) Process(ctx context.Context) bool {
	if !r.syncMode {
		return false
	}

	select {
	case raw, ok := <-r.changes:
		if !ok {
			return false
		}
		r.received(ctx)
		_ = r.process(ctx, raw) // stored in LastError
		return true
	default:
		return false
	}
}

func (r *Reloader) received(ctx context.Context) {
	capitan.Emit(ctx, ChangeReceived)
	r.metrics.OnChangeReceived()
}

// process decodes, builds and swaps one snapshot.
func (r *Reloader) process(ctx context.Context, raw []byte) error {
	start := r.clock.Now()
	old := r.State()

	tbl, err := r.decoder.Decode(raw)
	if err != nil {
		capitan.Emit(ctx, DecodeFailed, KeyStage.Field(string(StageDecode)), KeyError.Field(err.Error()))
		return r.fail(ctx, old, start, StageDecode, err)
	}
	fp := strconv.FormatUint(tbl.Fingerprint(), 16)

	if cur := r.current.Load(); cur != nil && cur.Fingerprint() == tbl.Fingerprint() {
		r.lastError.Store(nil)
		r.transition(ctx, old, StateHealthy)
		capitan.Emit(ctx, SnapshotUnchanged, KeyFingerprint.Field(fp))
		r.logger.Debug("table unchanged", "fingerprint", fp)
		r.metrics.OnProcessSuccess(r.clock.Since(start))
		return nil
	}

	snap, err := designer.Build(tbl, r.buildOpts...)
	if err != nil {
		capitan.Emit(ctx, BuildFailed, KeyStage.Field(string(StageBuild)), KeyError.Field(err.Error()))
		return r.fail(ctx, old, start, StageBuild, err)
	}
	rejected := snap.Rejected()
	for id, rerr := range rejected {
		r.logger.Warn("family rejected", "family", id, "err", rerr)
	}
	if len(snap.Families()) == 0 {
		capitan.Emit(ctx, BuildFailed, KeyStage.Field(string(StageValidate)), KeyError.Field(ErrNoUsableFamilies.Error()))
		return r.fail(ctx, old, start, StageValidate, ErrNoUsableFamilies)
	}

	prev := r.current.Swap(snap)
	r.lastError.Store(nil)
	r.transition(ctx, old, StateHealthy)
	capitan.Emit(ctx, SnapshotSwapped,
		KeyFingerprint.Field(fp),
		KeyFamilies.Field(len(snap.Families())),
		KeyRejected.Field(len(rejected)),
	)
	r.logger.Info("snapshot swapped",
		"fingerprint", fp,
		"measurements", tbl.Len(),
		"families", snap.Families(),
		"rejected", len(rejected),
	)
	if r.onSwap != nil {
		r.onSwap(ctx, prev, snap)
	}
	r.metrics.OnProcessSuccess(r.clock.Since(start))

	return nil
}

// fail records err, moves to the failure state and reports stage.
func (r *Reloader) fail(ctx context.Context, old State, start time.Time, stage Stage, err error) error {
	r.lastError.Store(&err)
	r.transition(ctx, old, r.failureState())
	r.logger.Error("reload failed", "stage", string(stage), "err", err)
	r.metrics.OnProcessFailure(stage, r.clock.Since(start))

	return fmt.Errorf("reload: %s: %w", stage, err)
}

func (r *Reloader) failureState() State {
	if r.current.Load() == nil {
		return StateEmpty
	}

	return StateDegraded
}

func (r *Reloader) transition(ctx context.Context, from, to State) {
	if from == to {
		return
	}
	r.state.Store(int32(to))
	capitan.Emit(ctx, ReloaderStateChanged,
		KeyOldState.Field(from.String()),
		KeyNewState.Field(to.String()),
	)
	r.metrics.OnStateChange(from, to)
}

// watch applies changes after a quiet period of r.debounce.
func (r *Reloader) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		capitan.Emit(ctx, ReloaderStopped, KeyState.Field(r.State().String()))
		r.logger.Debug("reload stopped", "state", r.State().String())
	}()

	var (
		timer      clockz.Timer
		pending    []byte
		hasPending bool
	)
	for {
		var timerC <-chan time.Time
		if timer != nil {
			timerC = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if hasPending {
					_ = r.process(ctx, pending)
				}
				return
			}
			r.received(ctx)
			pending, hasPending = raw, true

			if timer == nil {
				timer = r.clock.NewTimer(r.debounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C():
				default:
				}
			}
			timer.Reset(r.debounce)

		case <-timerC:
			if hasPending {
				_ = r.process(ctx, pending)
				hasPending = false
			}
		}
	}
}
