package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/roach88/rxtrace/internal/api"
	"github.com/roach88/rxtrace/internal/config"
	"github.com/roach88/rxtrace/internal/ledger"
	"github.com/roach88/rxtrace/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string

	// RequestIDs allows overriding the request id generator (for testing).
	// If nil, the server uses UUIDv7 identifiers.
	RequestIDs api.RequestIDGenerator
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Long: `Serve the ledger over HTTP.

Opens the SQLite database (creating it if it doesn't exist) and serves the
JSON API under /v1, plus /healthz and Prometheus metrics on /metrics.
SIGINT or SIGTERM stops accepting connections and waits up to
RXTRACE_SHUTDOWN_TIMEOUT for in-flight requests.

Example:
  rxtrace serve --db ./rxtrace.db --addr :8080
  RXTRACE_LOG_LEVEL=debug rxtrace serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.Addr = opts.Config.Addr
			}
			return runServer(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (env RXTRACE_ADDR, default :8080)")

	return cmd
}

func runServer(opts *ServeOptions, cmd *cobra.Command) error {
	logger := opts.logger()

	logger.Info("opening database", "path", opts.DBPath)
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	svc, err := ledger.New(ctx, st, ledger.Options{Logger: logger, Registerer: registry})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	srv := api.New(svc, api.Options{Logger: logger, Gatherer: registry, RequestIDs: opts.RequestIDs})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
			// Parent context cancelled (e.g., from test)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start(opts.Addr)
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving ledger %s on %s\n", opts.DBPath, opts.Addr)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return WrapExitError(ExitCommandError, "http server failed", err)
	case <-ctx.Done():
	}

	timeout := opts.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "graceful shutdown failed", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "http server failed", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}
