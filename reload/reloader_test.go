package reload_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"

	"github.com/katalvlaran/phantom/designer"
	"github.com/katalvlaran/phantom/measurement"
	"github.com/katalvlaran/phantom/reload"
)

const tableV1 = `sample_label,elastic_modulus_mean_kPa
EF30_0T,73.18
EF30_12_5T,61.02
EF10_0T,54.21
EF10_12_5T,41.77
EF10_25T,30.05
`

const tableV2 = tableV1 + `EF50_0T,128.40
EF50_10T,111.10
EF50_20T,97.26
`

// recorder is a MetricsProvider that counts callbacks.
type recorder struct {
	reload.NoOpMetricsProvider
	mu       sync.Mutex
	received int
	success  int
	failures []reload.Stage
	states   []reload.State
}

func (m *recorder) OnChangeReceived() { m.mu.Lock(); m.received++; m.mu.Unlock() }
func (m *recorder) OnProcessSuccess(time.Duration) {
	m.mu.Lock()
	m.success++
	m.mu.Unlock()
}
func (m *recorder) OnProcessFailure(stage reload.Stage, _ time.Duration) {
	m.mu.Lock()
	m.failures = append(m.failures, stage)
	m.mu.Unlock()
}
func (m *recorder) OnStateChange(_, to reload.State) {
	m.mu.Lock()
	m.states = append(m.states, to)
	m.mu.Unlock()
}

func syncReloader(ch chan []byte, opts ...designer.Option) *reload.Reloader {
	return reload.New(reload.NewSyncChannelWatcher(ch), opts...).SyncMode()
}

// TestReloader_InitialLoad builds the first snapshot and answers queries.
func TestReloader_InitialLoad(t *testing.T) {
	ctx := context.Background()
	ch := make(chan []byte, 1)
	ch <- []byte(tableV1)

	r := syncReloader(ch, designer.WithFamilyOrder("EF10"))
	require.NoError(t, r.Start(ctx))

	assert.Equal(t, reload.StateHealthy, r.State())
	snap := r.Current()
	require.NotNil(t, snap)
	assert.Equal(t, []string{"EF10", "EF30"}, snap.Families())
	res, err := snap.Query(45)
	require.NoError(t, err)
	assert.Len(t, res.Recipes, 1)
	assert.NoError(t, r.LastError())
}

// TestReloader_InitialFailureIsEmpty keeps no snapshot after a bad first load.
func TestReloader_InitialFailureIsEmpty(t *testing.T) {
	ctx := context.Background()
	ch := make(chan []byte, 2)
	ch <- []byte("sample_label,elastic_modulus_mean_kPa\nEF10,1\n")

	m := &recorder{}
	r := syncReloader(ch).Metrics(m)
	err := r.Start(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, measurement.ErrDataFormat)
	assert.Contains(t, err.Error(), "reload: decode:")
	assert.Equal(t, []reload.Stage{reload.StageDecode}, m.failures)
	assert.Equal(t, reload.StateEmpty, r.State())
	assert.Nil(t, r.Current())
	assert.ErrorIs(t, r.LastError(), measurement.ErrDataFormat)

	ch <- []byte(tableV1)
	require.True(t, r.Process(ctx))
	assert.Equal(t, reload.StateHealthy, r.State())
	assert.NotNil(t, r.Current())
	assert.NoError(t, r.LastError())
}

// TestReloader_DegradedKeepsPrevious swaps only on success.
func TestReloader_DegradedKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	ch := make(chan []byte, 3)
	ch <- []byte(tableV1)

	var swaps atomic.Int32
	r := syncReloader(ch).OnSwap(func(_ context.Context, prev, curr *designer.Snapshot) {
		swaps.Add(1)
		assert.NotSame(t, prev, curr)
	})
	require.NoError(t, r.Start(ctx))
	first := r.Current()

	ch <- []byte("sample_label,elastic_modulus_mean_kPa\nEF10_0T,oops\n")
	require.True(t, r.Process(ctx))
	assert.Equal(t, reload.StateDegraded, r.State())
	assert.Same(t, first, r.Current())
	assert.Error(t, r.LastError())

	ch <- []byte(tableV2)
	require.True(t, r.Process(ctx))
	assert.Equal(t, reload.StateHealthy, r.State())
	assert.NotSame(t, first, r.Current())
	assert.Equal(t, []string{"EF30", "EF10", "EF50"}, r.Current().Families())
	assert.Equal(t, int32(2), swaps.Load())

	assert.False(t, r.Process(ctx), "nothing pending")
}

// TestReloader_UnchangedFingerprint keeps the active snapshot.
func TestReloader_UnchangedFingerprint(t *testing.T) {
	ctx := context.Background()
	ch := make(chan []byte, 2)
	ch <- []byte(tableV1)

	m := &recorder{}
	r := syncReloader(ch).Metrics(m)
	require.NoError(t, r.Start(ctx))
	first := r.Current()

	ch <- []byte(tableV1)
	require.True(t, r.Process(ctx))
	assert.Same(t, first, r.Current())

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, 2, m.received)
	assert.Equal(t, 2, m.success)
	assert.Empty(t, m.failures)
	assert.Equal(t, []reload.State{reload.StateHealthy}, m.states)
}

// TestReloader_NoUsableFamilies refuses a table where every family is rejected.
func TestReloader_NoUsableFamilies(t *testing.T) {
	ctx := context.Background()
	ch := make(chan []byte, 1)
	ch <- []byte("sample_label,elastic_modulus_mean_kPa\nX_0T,10\nX_5T,20\nX_10T,15\n")

	m := &recorder{}
	r := syncReloader(ch).Metrics(m)
	err := r.Start(ctx)
	assert.ErrorIs(t, err, reload.ErrNoUsableFamilies)
	assert.Equal(t, reload.StateEmpty, r.State())
	assert.Equal(t, []reload.Stage{reload.StageValidate}, m.failures)
}

// TestReloader_Decoders loads the same table from JSON and YAML.
func TestReloader_Decoders(t *testing.T) {
	ctx := context.Background()
	sources := map[string]struct {
		dec reload.Decoder
		raw string
	}{
		"json": {reload.JSONDecoder{}, `[
			{"sample_label": "EF10_0T", "elastic_modulus_mean_kPa": 54.21},
			{"sample_label": "EF10_12_5T", "elastic_modulus_mean_kPa": 41.77},
			{"sample_label": "EF10_25T", "elastic_modulus_mean_kPa": "30.05"}
		]`},
		"yaml": {reload.YAMLDecoder{}, `
- sample_label: EF10_0T
  elastic_modulus_mean_kPa: 54.21
- sample_label: EF10_12_5T
  elastic_modulus_mean_kPa: 41.77
- sample_label: EF10_25T
  elastic_modulus_mean_kPa: 30
`},
	}
	for name, src := range sources {
		ch := make(chan []byte, 1)
		ch <- []byte(src.raw)
		r := syncReloader(ch).Decoder(src.dec)
		require.NoError(t, r.Start(ctx), name)
		assert.Equal(t, []string{"EF10"}, r.Current().Families(), name)
		assert.Equal(t, 3, r.Current().Table().Len(), name)
	}

	_, err := reload.JSONDecoder{}.Decode([]byte(`{"not": "an array"}`))
	assert.ErrorIs(t, err, measurement.ErrDataFormat)
	_, err = reload.JSONDecoder{}.Decode([]byte(`[{"sample_label": 12, "elastic_modulus_mean_kPa": 1}]`))
	assert.ErrorIs(t, err, measurement.ErrDataFormat)
	_, err = reload.YAMLDecoder{}.Decode([]byte("- sample_label: EF10_0T\n"))
	assert.ErrorIs(t, err, measurement.ErrDataFormat)
	assert.Equal(t, "text/csv", reload.CSVDecoder{}.ContentType())
}

// TestReloader_StartErrors covers double start and a closed watcher.
func TestReloader_StartErrors(t *testing.T) {
	ctx := context.Background()
	ch := make(chan []byte, 1)
	ch <- []byte(tableV1)
	r := syncReloader(ch)
	require.NoError(t, r.Start(ctx))
	assert.ErrorIs(t, r.Start(ctx), reload.ErrAlreadyStarted)

	closed := make(chan []byte)
	close(closed)
	assert.ErrorIs(t, syncReloader(closed).Start(ctx), reload.ErrWatcherClosed)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, syncReloader(make(chan []byte)).Start(cctx), context.Canceled)

	assert.False(t, reload.New(reload.NewSyncChannelWatcher(ch)).Process(ctx), "async reloader")
}

// TestReloader_DebounceCoalesces applies only the latest of a burst.
func TestReloader_DebounceCoalesces(t *testing.T) {
	clock := clockz.NewFakeClock()
	ch := make(chan []byte, 10)
	ch <- []byte(tableV1)

	var swaps atomic.Int32
	r := reload.New(reload.NewChannelWatcher(ch)).
		Debounce(100 * time.Millisecond).
		Clock(clock).
		OnSwap(func(context.Context, *designer.Snapshot, *designer.Snapshot) { swaps.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Start(ctx))
	require.Equal(t, int32(1), swaps.Load())

	ch <- []byte("garbage")
	ch <- []byte(strings.Replace(tableV2, "97.26", "97.00", 1))
	ch <- []byte(tableV2)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), swaps.Load(), "still debouncing")

	clock.Advance(150 * time.Millisecond)
	clock.BlockUntilReady()

	require.Eventually(t, func() bool { return swaps.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, reload.StateHealthy, r.State())
	assert.Len(t, r.Current().Families(), 3)
	assert.Equal(t, 97.26, r.Current().Table().Family("EF50")[2].Value)
}

// TestFileWatcher_ReloadsOnWrite rewrites a file and waits for the swap.
func TestFileWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phantoms_table.csv")
	require.NoError(t, os.WriteFile(path, []byte(tableV1), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := reload.New(reload.NewFileWatcher(path)).Debounce(10 * time.Millisecond)
	require.NoError(t, r.Start(ctx))
	require.Len(t, r.Current().Families(), 2)

	require.NoError(t, os.WriteFile(path, []byte(tableV2), 0o600))
	require.Eventually(t, func() bool {
		return len(r.Current().Families()) == 3
	}, 5*time.Second, 10*time.Millisecond)
}

// TestFileWatcher_MissingDirectory fails fast.
func TestFileWatcher_MissingDirectory(t *testing.T) {
	_, err := reload.NewFileWatcher(filepath.Join(t.TempDir(), "nope", "x.csv")).Watch(context.Background())
	assert.Error(t, err)
}

// TestState_String covers every state and stage label.
func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", reload.StateLoading.String())
	assert.Equal(t, "healthy", reload.StateHealthy.String())
	assert.Equal(t, "degraded", reload.StateDegraded.String())
	assert.Equal(t, "empty", reload.StateEmpty.String())
	assert.Equal(t, "unknown", reload.State(42).String())

	assert.Equal(t, "decode", string(reload.StageDecode))
	assert.Equal(t, "build", string(reload.StageBuild))
	assert.Equal(t, "validate", string(reload.StageValidate))
}

// TestSignals_Names pins the public signal names.
func TestSignals_Names(t *testing.T) {
	assert.Equal(t, "phantom.reload.snapshot.swapped", reload.SnapshotSwapped.Name())
	assert.Equal(t, "phantom.reload.state.changed", reload.ReloaderStateChanged.Name())
	assert.Equal(t, "phantom.reload.decode.failed", reload.DecodeFailed.Name())
}
