package app

import (
	"context"
	"errors"
	"io"
	"time"

	"pipecheck/internal/core/ports"
	"pipecheck/internal/data/queue"
	"pipecheck/internal/shared/observability"
)

func (a *App) initAuditQueue() {
	if a == nil || a.Config == nil || a.auditStore == nil {
		return
	}
	a.auditQueue = queue.NewMemoryQueue(a.Config.Audit.QueueCapacity)
	a.startAuditWorker()
}

func (a *App) startAuditWorker() {
	if a == nil || a.auditQueue == nil || a.workerCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel
	a.workerDone = make(chan struct{})
	go a.runAuditWorker(ctx)
}

func (a *App) auditWorkerRunning() bool {
	if a == nil || a.workerDone == nil {
		return false
	}
	select {
	case <-a.workerDone:
		return false
	default:
		return true
	}
}

func (a *App) batchSize() int {
	if a.Config == nil || a.Config.Audit.BatchSize <= 0 {
		return 1
	}
	return a.Config.Audit.BatchSize
}

func (a *App) runAuditWorker(ctx context.Context) {
	defer close(a.workerDone)

	batchSize := a.batchSize()
	flushInterval := a.Config.Audit.FlushInterval
	if flushInterval <= 0 {
		flushInterval = 100 * time.Millisecond
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		batch, err := a.auditQueue.DequeueBatch(ctx, batchSize, flushInterval)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil && !errors.Is(err, io.EOF) {
			a.logger.Warn("audit queue dequeue failed", "error", err)
			continue
		}

		a.writeAuditBatch(batch)
		a.updateQueueMetrics()
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func (a *App) writeAuditBatch(batch []ports.AuditRecord) {
	if len(batch) == 0 {
		return
	}
	if err := a.auditStore.SaveBatch(batch); err != nil {
		observability.AuditErrorsTotal.Inc()
		a.logger.Warn("audit write failed", "error", err, "batch_size", len(batch))
		return
	}
	observability.AuditWrittenTotal.Add(float64(len(batch)))
}

// recordAudit hands rec to the writer. A full queue drops the record.
func (a *App) recordAudit(rec ports.AuditRecord) {
	if !a.AuditEnabled() {
		return
	}
	switch a.auditQueue.Enqueue(rec) {
	case ports.EnqueueAccepted:
	case ports.EnqueueDropped:
		observability.AuditDroppedTotal.Inc()
		a.logger.Debug("audit queue full, record dropped", "request_id", rec.RequestID)
	}
	a.updateQueueMetrics()
}

func (a *App) stopAuditWorker(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.workerCancel != nil {
		a.workerCancel()
		a.workerCancel = nil
	}
	if a.workerDone != nil {
		select {
		case <-a.workerDone:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if a.auditQueue == nil {
		return nil
	}
	if err := a.auditQueue.Close(); err != nil {
		return err
	}
	return a.drainAuditQueue(ctx)
}

// drainAuditQueue flushes whatever is still buffered after the worker stopped.
func (a *App) drainAuditQueue(ctx context.Context) error {
	batchSize := a.batchSize()
	for {
		batch, err := a.auditQueue.DequeueBatch(ctx, batchSize, 0)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if len(batch) > 0 {
			if saveErr := a.auditStore.SaveBatch(batch); saveErr != nil {
				observability.AuditErrorsTotal.Inc()
				return saveErr
			}
			observability.AuditWrittenTotal.Add(float64(len(batch)))
		}
		if errors.Is(err, io.EOF) || len(batch) == 0 {
			a.updateQueueMetrics()
			return nil
		}
	}
}

func (a *App) updateQueueMetrics() {
	if a == nil || a.auditQueue == nil {
		return
	}
	observability.AuditQueueDepth.Set(float64(a.auditQueue.Len()))
}
