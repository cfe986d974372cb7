package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/waterrun/internal/config"
	"github.com/roach88/waterrun/internal/ledger"
	"github.com/roach88/waterrun/internal/metrics"
	"github.com/roach88/waterrun/internal/notify"
	"github.com/roach88/waterrun/internal/tracker"
)

// app is the wiring shared by every command that touches the ledger.
type app struct {
	cfg     *config.Config
	store   *ledger.Store
	tracker *tracker.Tracker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func newLogger(verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openApp loads config, opens the ledger and builds the tracker. Failures are
// reported through f and returned as ExitCommandError.
func openApp(opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*app, error) {
	logger := newLogger(opts.Verbose, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = f.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	if dir := filepath.Dir(cfg.Database); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = f.Error(ErrCodeStorage, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to create %s", dir), err)
		}
	}

	logger.Debug("opening ledger", "path", cfg.Database)
	st, err := ledger.Open(cfg.Database, ledger.WithLogger(logger))
	if err != nil {
		_ = f.Error(ErrCodeStorage, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	m := metrics.New()
	n := notify.New(cfg.Notify, logger)
	if cfg.Notify.Enabled && !cfg.Notify.Configured() {
		logger.Warn("notifications enabled but token or destination missing")
	}
	tr := tracker.New(st, n, tracker.WithLogger(logger), tracker.WithMetrics(m))

	return &app{cfg: cfg, store: st, tracker: tr, metrics: m, logger: logger}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}
