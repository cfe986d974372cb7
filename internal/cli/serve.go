package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/waterrun/internal/httpapi"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Reconcile the roster and serve the HTTP API",
		Long: `Reconcile the ledger against the declared roster, then serve the JSON API
under /api and Prometheus metrics under /metrics until interrupted.

Example:
  waterrun serve --db ./waterrun.db --listen :8080`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	a, err := openApp(opts.RootOptions, cmd, f)
	if err != nil {
		return err
	}
	defer a.Close()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := reconcile(ctx, a, f); err != nil {
		return err
	}

	listen := a.cfg.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}

	srv := httpapi.New(a.tracker, httpapi.WithMetrics(a.metrics), httpapi.WithLogger(a.logger))
	if err := srv.Serve(ctx, listen); err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "server error", err)
	}
	a.logger.Info("server stopped gracefully")
	return nil
}
