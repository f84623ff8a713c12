// SPDX-License-Identifier: MIT

// Package sqlitesource reads the measurement table from a SQLite database
// instead of a CSV file.
//
// The default layout mirrors the lab CSV:
//
//	CREATE TABLE phantoms (
//	    sample_label             TEXT NOT NULL,
//	    elastic_modulus_mean_kPa REAL NOT NULL
//	);
//
// Load reads every row in rowid order and validates it exactly as
// measurement.Load validates CSV records. Watcher polls the table and feeds
// a reload.Reloader with JSON rows whenever the content changes.
//
// The driver is modernc.org/sqlite (pure Go, no cgo).
package sqlitesource
