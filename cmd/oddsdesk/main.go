package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/oddsdesk/config"
	"github.com/alejandrodnm/oddsdesk/internal/adapters/notify"
	"github.com/alejandrodnm/oddsdesk/internal/adapters/snapshot"
	"github.com/alejandrodnm/oddsdesk/internal/adapters/storage"
	"github.com/alejandrodnm/oddsdesk/internal/desk"
	"github.com/alejandrodnm/oddsdesk/internal/domain"
	"github.com/alejandrodnm/oddsdesk/internal/ports"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app son los flags globales y la configuración ya resuelta.
type app struct {
	out io.Writer
	cfg *config.Config

	configPath string
	verbose    bool
	logFormat  string
	now        string
	compact    bool
	files      []string
	url        string
	sqlite     bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "oddsdesk",
		Short:         "Cross-venue prediction market desk",
		Long:          `oddsdesk merges Kalshi and Polymarket quotes into one market per question, ranks them and groups the editorial calendar by day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to config file (.yaml or .toml)")
	pf.BoolVar(&a.verbose, "verbose", false, "set log level to debug")
	pf.StringVar(&a.logFormat, "format", "", "log format: text|json (overrides config)")
	pf.StringVar(&a.now, "now", "", "reference time (RFC3339 or YYYY-MM-DD); default: current time")
	pf.BoolVar(&a.compact, "compact", false, "one line per row instead of tables")
	pf.StringSliceVar(&a.files, "file", nil, "snapshot JSON file(s); repeatable")
	pf.StringVar(&a.url, "url", "", "snapshot URL (overrides config)")
	pf.BoolVar(&a.sqlite, "sqlite", false, "read the dataset imported into storage.dsn")

	root.AddCommand(
		newMarketsCmd(a),
		newCalendarCmd(a),
		newCatalystsCmd(a),
		newSummaryCmd(a),
		newImportCmd(a),
	)
	return root
}

// load carga la config, aplica los flags globales y configura el logger.
func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if len(a.files) > 0 {
		cfg.Dataset.Paths = a.files
	}
	if a.url != "" {
		cfg.Dataset.URL = a.url
	}
	if a.sqlite {
		cfg.Dataset.SQLite = true
	}
	setupLogger(cfg.Log, logOut)
	a.cfg = cfg
	return nil
}

// referenceTime devuelve el instante de referencia de las vistas.
func (a *app) referenceTime() (time.Time, error) {
	if a.now == "" {
		return time.Now().UTC(), nil
	}
	t, ok := domain.ParseTimestamp(a.now)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --now %q", a.now)
	}
	return t.UTC(), nil
}

// source elige la fuente del dataset: sqlite > url > ficheros > sample embebido.
// El closer devuelto siempre es no-nil.
func (a *app) source(allowSQLite bool) (ports.DatasetSource, func() error, error) {
	noop := func() error { return nil }
	ds := a.cfg.Dataset

	switch {
	case ds.SQLite && allowSQLite:
		store, err := storage.NewSQLiteStore(a.cfg.Storage.DSN)
		if err != nil {
			return nil, noop, err
		}
		slog.Debug("dataset source", "kind", "sqlite", "dsn", a.cfg.Storage.DSN)
		return store, store.Close, nil
	case ds.URL != "":
		slog.Debug("dataset source", "kind", "http", "url", ds.URL)
		return snapshot.NewHTTPSource(ds.URL, a.cfg.HTTPTimeout(), a.cfg.HTTP.RatePerSec), noop, nil
	case len(ds.Paths) > 0:
		slog.Debug("dataset source", "kind", "file", "paths", ds.Paths)
		return snapshot.NewFileSource(ds.Paths...), noop, nil
	default:
		slog.Debug("dataset source", "kind", "sample")
		return snapshot.Sample(), noop, nil
	}
}

// openDesk carga el snapshot y construye el Desk con los defaults de la config.
func (a *app) openDesk(ctx context.Context) (*desk.Desk, error) {
	now, err := a.referenceTime()
	if err != nil {
		return nil, err
	}
	src, closeSrc, err := a.source(true)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	cfg := desk.DefaultConfig()
	cfg.Sort = a.cfg.Ranking.Sort
	cfg.Coverage = a.cfg.Ranking.Coverage
	cfg.Limit = a.cfg.Ranking.Limit
	cfg.HorizonDays = a.cfg.CalendarHorizonDays()

	return desk.Open(ctx, cfg, src, now)
}

func (a *app) presenter() ports.Presenter {
	return notify.NewConsoleWriter(a.out, !a.compact)
}

func setupLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}
