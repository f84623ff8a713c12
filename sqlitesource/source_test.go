// SPDX-License-Identifier: MIT

package sqlitesource_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/phantom/measurement"
	"github.com/katalvlaran/phantom/reload"
	"github.com/katalvlaran/phantom/sqlitesource"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlitesource.Open(context.Background(), filepath.Join(t.TempDir(), "phantoms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE phantoms (
		sample_label TEXT,
		elastic_modulus_mean_kPa REAL
	)`)
	require.NoError(t, err)
	return db
}

func insert(t *testing.T, db *sql.DB, rows ...any) {
	t.Helper()
	for i := 0; i+1 < len(rows); i += 2 {
		_, err := db.Exec(`INSERT INTO phantoms (sample_label, elastic_modulus_mean_kPa) VALUES (?, ?)`, rows[i], rows[i+1])
		require.NoError(t, err)
	}
}

// TestLoad_ReadsRowsInOrder loads the lab layout.
func TestLoad_ReadsRowsInOrder(t *testing.T) {
	db := openDB(t)
	insert(t, db,
		"EF30_0T", 73.18,
		"EF30_12_5T", 61.02,
		"EF10_0T", 54.21,
		"EF10_12.5T", 41.77,
	)

	tbl, err := sqlitesource.Load(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"EF30", "EF10"}, tbl.Families())
	assert.Equal(t, 12.5, tbl.Measurements()[3].Concentration)
}

// TestLoad_Rejects covers NULLs, invalid records and unsafe identifiers.
func TestLoad_Rejects(t *testing.T) {
	ctx := context.Background()

	db := openDB(t)
	insert(t, db, "EF10_0T", nil)
	_, err := sqlitesource.Load(ctx, db)
	assert.ErrorIs(t, err, measurement.ErrDataFormat)

	db = openDB(t)
	insert(t, db, "EF10_0T", -3.0)
	_, err = sqlitesource.Load(ctx, db)
	assert.ErrorIs(t, err, measurement.ErrDataFormat)

	db = openDB(t)
	insert(t, db, "EF10_0T", "soft")
	_, err = sqlitesource.Load(ctx, db)
	assert.ErrorIs(t, err, measurement.ErrDataFormat)

	_, err = sqlitesource.Load(ctx, db, sqlitesource.WithTable("phantoms; DROP TABLE phantoms"))
	assert.ErrorIs(t, err, sqlitesource.ErrBadIdentifier)
	_, err = sqlitesource.Load(ctx, db, sqlitesource.WithMeasurementOptions(measurement.WithValueColumn("E kPa")))
	assert.ErrorIs(t, err, sqlitesource.ErrBadIdentifier)

	_, err = sqlitesource.Load(ctx, db, sqlitesource.WithTable("missing"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, measurement.ErrDataFormat)
}

// TestLoad_CustomLayout reads a differently named table and columns.
func TestLoad_CustomLayout(t *testing.T) {
	db := openDB(t)
	_, err := db.Exec(`CREATE TABLE samples (id TEXT, e REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO samples VALUES ('F_0T', 100), ('F_50T', 20)`)
	require.NoError(t, err)

	tbl, err := sqlitesource.Load(context.Background(), db,
		sqlitesource.WithTable("samples"),
		sqlitesource.WithMeasurementOptions(
			measurement.WithLabelColumn("id"),
			measurement.WithValueColumn("e"),
		),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
}

// TestWatcher_FeedsReloader polls the table and swaps on change.
func TestWatcher_FeedsReloader(t *testing.T) {
	db := openDB(t)
	insert(t, db, "EF10_0T", 54.21, "EF10_25T", 30.05)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := sqlitesource.NewWatcher(db).Interval(20 * time.Millisecond)
	r := reload.New(w).Decoder(w.Decoder()).Debounce(time.Millisecond)
	require.NoError(t, r.Start(ctx))
	require.Equal(t, []string{"EF10"}, r.Current().Families())

	insert(t, db, "EF30_0T", 73.18, "EF30_12_5T", 61.02)
	require.Eventually(t, func() bool {
		return len(r.Current().Families()) == 2
	}, 5*time.Second, 10*time.Millisecond)
}

// TestWatcher_InitialReadFails surfaces a missing table from Watch.
func TestWatcher_InitialReadFails(t *testing.T) {
	db := openDB(t)
	_, err := sqlitesource.NewWatcher(db, sqlitesource.WithTable("missing")).Watch(context.Background())
	assert.Error(t, err)
}
