package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"pipecheck/internal/api/server"
	"pipecheck/internal/core/app"
	"pipecheck/internal/core/config"
	"pipecheck/internal/shared/observability"
)

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	if opts.version {
		fmt.Fprintf(stdout, "pipecheck v%s\n", versionString)
		return exitOK
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitFailure
	}

	logger, level := newLogger(stderr, cfg.Log, opts.verbose)
	slog.SetDefault(logger)

	switch {
	case opts.checkPath != "":
		return runCheck(opts.checkPath, opts.format, stdout, stderr, logger)
	case opts.auditTail > 0:
		return runAuditTail(cfg, opts.auditTail, stdout, stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, cfg, opts, logger, level); err != nil {
		logger.Error("server failed", "error", err)
		return exitFailure
	}
	return exitOK
}

// loadConfig falls back to defaults only for the default path; an explicit
// path that does not exist is an error.
func loadConfig(path string) (*config.Config, error) {
	if path == config.DefaultPath {
		return config.LoadOrDefault(path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnvOverrides(cfg)
	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config, opts cliOptions, logger *slog.Logger, level *slog.LevelVar) error {
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingOptions{
		Enabled:     cfg.Observability.EnableTracing,
		Endpoint:    cfg.Observability.OTLPEndpoint,
		ServiceName: cfg.Observability.ServiceName,
		Insecure:    cfg.Observability.InsecureExporter(),
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{Config: cfg, Service: a.PipelineService(), Logger: logger})
	if err != nil {
		_ = a.Close(context.Background())
		return err
	}

	var watcher *config.Watcher
	if _, statErr := os.Stat(opts.configPath); statErr == nil {
		watcher = config.NewWatcher(opts.configPath, func(next *config.Config) {
			if err := srv.CORSPolicy().Update(next.CORS); err != nil {
				logger.Warn("config reload: keeping previous CORS origins", "error", err)
			} else {
				logger.Info("config reload: CORS origins updated", "origins", srv.CORSPolicy().Origins())
			}
			applyLogLevel(level, next.Log.Level, opts.verbose)
		})
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("config watcher disabled", "path", opts.configPath, "error", err)
			watcher = nil
		}
	}

	logger.Info("pipecheck starting",
		"version", versionString,
		"addr", cfg.Server.Address,
		"audit", cfg.Audit.Enabled,
		"rate_limit", cfg.RateLimit.Enabled,
		"tracing", cfg.Observability.EnableTracing,
	)
	serveErr := srv.Start(ctx)

	if watcher != nil {
		watcher.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Close(shutdownCtx); err != nil {
		logger.Warn("audit drain failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", "error", err)
	}
	return serveErr
}
