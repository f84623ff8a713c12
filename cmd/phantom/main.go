// Command phantom maps a target elastic modulus to a silicone phantom recipe
// using the measured phantom table, and reports the nearest validated
// measurements when the target falls in a gap.
//
//	phantom -data phantoms_table.csv -target 45
//	phantom -data phantoms_table.csv -target 45 -family EF50
//	phantom -sqlite lab.db -watch -metrics :9090   # targets from stdin
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/katalvlaran/phantom/designer"
	"github.com/katalvlaran/phantom/measurement"
	"github.com/katalvlaran/phantom/reload"
	"github.com/katalvlaran/phantom/reload/prommetrics"
	"github.com/katalvlaran/phantom/sqlitesource"
)

var exitFunc = os.Exit

type config struct {
	data     string
	sqlite   string
	table    string
	target   float64
	family   string
	order    string
	watch    bool
	gaps     bool
	metrics  string
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

// run is main without process globals. Exit codes: 0 ok, 1 runtime error,
// 2 usage error.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("phantom", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cfg config
	fs.StringVar(&cfg.data, "data", "", "measurement table file (.csv, .json, .yaml)")
	fs.StringVar(&cfg.sqlite, "sqlite", "", "SQLite database holding the measurement table")
	fs.StringVar(&cfg.table, "table", sqlitesource.DefaultTable, "SQLite table name")
	fs.Float64Var(&cfg.target, "target", math.NaN(), "target elastic modulus, kPa")
	fs.StringVar(&cfg.family, "family", "", "force a specific family instead of auto-select")
	fs.StringVar(&cfg.order, "order", "EF50,EF30,EF10", "comma separated family presentation order")
	fs.BoolVar(&cfg.watch, "watch", false, "reload the source on change and read targets from stdin")
	fs.BoolVar(&cfg.gaps, "gaps", false, "print the dataset overview and uncovered value ranges")
	fs.StringVar(&cfg.metrics, "metrics", "", "serve Prometheus metrics on this address (watch mode)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (cfg.data == "") == (cfg.sqlite == "") {
		fmt.Fprintln(stderr, "phantom: exactly one of -data or -sqlite is required")
		return 2
	}
	if !cfg.watch && !cfg.gaps && math.IsNaN(cfg.target) {
		fmt.Fprintln(stderr, "phantom: -target is required unless -watch or -gaps is set")
		return 2
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		fmt.Fprintf(stderr, "phantom: bad -log-level: %v\n", err)
		return 2
	}
	logger := slog.New(tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))

	var buildOpts []designer.Option
	if cfg.order != "" {
		buildOpts = append(buildOpts, designer.WithFamilyOrder(strings.Split(cfg.order, ",")...))
	}

	if cfg.watch {
		if err := watch(ctx, cfg, buildOpts, stdin, stdout, logger); err != nil {
			logger.Error("watch failed", "err", err)
			return 1
		}
		return 0
	}

	snap, err := loadOnce(ctx, cfg, buildOpts)
	if err != nil {
		logger.Error("load failed", "err", err)
		return 1
	}
	logRejected(logger, snap)
	if cfg.gaps {
		printOverview(stdout, snap)
	}
	if !math.IsNaN(cfg.target) {
		if err := answer(stdout, snap, cfg.family, cfg.target); err != nil {
			logger.Error("query failed", "err", err)
			return 1
		}
	}

	return 0
}

// loadOnce reads the configured source and builds one snapshot.
func loadOnce(ctx context.Context, cfg config, opts []designer.Option) (*designer.Snapshot, error) {
	var (
		tbl *measurement.Table
		err error
	)
	if cfg.sqlite != "" {
		db, oerr := sqlitesource.Open(ctx, cfg.sqlite)
		if oerr != nil {
			return nil, oerr
		}
		defer func() { _ = db.Close() }()
		tbl, err = sqlitesource.Load(ctx, db, sqlitesource.WithTable(cfg.table))
	} else {
		var raw []byte
		if raw, err = os.ReadFile(cfg.data); err != nil {
			return nil, err
		}
		tbl, err = decoderFor(cfg.data).Decode(raw)
	}
	if err != nil {
		return nil, err
	}

	return designer.Build(tbl, opts...)
}

// decoderFor picks the decoder by file extension.
func decoderFor(path string) reload.Decoder {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return reload.JSONDecoder{}
	case ".yaml", ".yml":
		return reload.YAMLDecoder{}
	default:
		return reload.CSVDecoder{}
	}
}

// watch keeps a reloader running and answers one query per stdin line.
// A line is "<target>" or "<family> <target>".
func watch(ctx context.Context, cfg config, opts []designer.Option, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var w reload.Watcher
	dec := decoderFor(cfg.data)
	if cfg.sqlite != "" {
		db, err := sqlitesource.Open(ctx, cfg.sqlite)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		sw := sqlitesource.NewWatcher(db, sqlitesource.WithTable(cfg.table))
		w, dec = sw, sw.Decoder()
	} else {
		w = reload.NewFileWatcher(cfg.data)
	}

	r := reload.New(w, opts...).Decoder(dec).Logger(logger)

	if cfg.metrics != "" {
		reg := prometheus.NewRegistry()
		r.Metrics(prommetrics.New(reg, "phantom"))
		srv := &http.Server{
			Addr:              cfg.metrics,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer func() { _ = srv.Close() }()
		logger.Info("serving metrics", "addr", cfg.metrics)
	}

	if err := r.Start(ctx); err != nil {
		logger.Warn("initial load failed, waiting for a valid table", "err", err)
	}

	if !math.IsNaN(cfg.target) {
		if snap := r.Current(); snap != nil {
			if err := answer(stdout, snap, cfg.family, cfg.target); err != nil {
				logger.Error("query failed", "err", err)
			}
		}
	}

	sc := bufio.NewScanner(stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fam, target, err := parseQuery(line)
		if err != nil {
			logger.Warn("bad query", "line", line, "err", err)
			continue
		}
		snap := r.Current()
		if snap == nil {
			logger.Warn("no valid table loaded yet", "state", r.State().String(), "err", r.LastError())
			continue
		}
		if err := answer(stdout, snap, fam, target); err != nil {
			logger.Error("query failed", "err", err)
		}
	}

	return sc.Err()
}

func parseQuery(line string) (family string, target float64, err error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 1:
		target, err = strconv.ParseFloat(fields[0], 64)
	case 2:
		family = fields[0]
		target, err = strconv.ParseFloat(fields[1], 64)
	default:
		err = fmt.Errorf("want \"<target>\" or \"<family> <target>\"")
	}

	return family, target, err
}

func logRejected(logger *slog.Logger, snap *designer.Snapshot) {
	for id, err := range snap.Rejected() {
		logger.Warn("family rejected", "family", id, "err", err)
	}
}
