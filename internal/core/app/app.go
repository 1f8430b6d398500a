// Package app wires configuration, the cycle checker and the audit pipeline
// into the service consumed by the HTTP transport and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pipecheck/internal/core/config"
	"pipecheck/internal/core/ports"
	"pipecheck/internal/data/audit"
	"pipecheck/internal/engine/pipeline"
)

const defaultDrainTimeout = 5 * time.Second

type App struct {
	Config  *config.Config
	Checker *pipeline.Checker

	logger *slog.Logger

	auditStore   ports.AuditStore
	auditQueue   ports.AuditQueuePort
	workerCancel context.CancelFunc
	workerDone   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// New builds an App from cfg. When auditing is enabled the SQLite store is
// opened and the background writer is started.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	var store ports.AuditStore
	if cfg.Audit.Enabled {
		s, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
		store = s
	}
	return newApp(cfg, logger, store), nil
}

func newApp(cfg *config.Config, logger *slog.Logger, store ports.AuditStore) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		Config:     cfg,
		Checker:    pipeline.NewChecker(logger),
		logger:     logger,
		auditStore: store,
	}
	if store != nil {
		a.initAuditQueue()
	}
	return a
}

// PipelineService returns the driving port backed by this App.
func (a *App) PipelineService() ports.PipelineService {
	return NewPipelineService(a)
}

// AuditEnabled reports whether check outcomes are being recorded.
func (a *App) AuditEnabled() bool {
	return a != nil && a.auditStore != nil && a.auditQueue != nil
}

// RecentAudit lists persisted check outcomes, newest first.
func (a *App) RecentAudit(limit int) ([]ports.AuditRecord, error) {
	if a == nil || a.auditStore == nil {
		return nil, fmt.Errorf("audit log is disabled")
	}
	return a.auditStore.Recent(limit)
}

// Close stops the audit writer, drains pending records and closes the store.
// It is safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	a.closeOnce.Do(func() {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, defaultDrainTimeout)
			defer cancel()
		}
		if err := a.stopAuditWorker(ctx); err != nil {
			a.closeErr = err
			return
		}
		if a.auditStore != nil {
			if err := a.auditStore.Close(); err != nil {
				a.closeErr = fmt.Errorf("close audit store: %w", err)
			}
		}
	})
	return a.closeErr
}
