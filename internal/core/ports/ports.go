package ports

import (
	"context"
	"time"

	"pipecheck/internal/engine/pipeline"
)

// PipelineService is the driving port used by the HTTP transport and the CLI.
type PipelineService interface {
	ParsePipeline(ctx context.Context, p pipeline.Pipeline) (pipeline.Result, error)
	Health(ctx context.Context) HealthStatus
}

// HealthStatus summarizes service readiness for the health endpoint.
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
}

const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
)

// AuditRecord is the persisted outcome of one check. It never holds graph
// contents.
type AuditRecord struct {
	RequestID string
	Timestamp time.Time
	NumNodes  int
	NumEdges  int
	IsDAG     bool
	FailSafe  bool
	Duration  time.Duration
}

type EnqueueResult string

const (
	EnqueueAccepted EnqueueResult = "accepted"
	EnqueueDropped  EnqueueResult = "dropped"
)

// AuditQueuePort is the bounded buffer between request handlers and the audit
// writer.
type AuditQueuePort interface {
	Enqueue(rec AuditRecord) EnqueueResult
	DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]AuditRecord, error)
	Close() error
	Len() int
}

// AuditStore abstracts audit persistence.
type AuditStore interface {
	SaveBatch(records []AuditRecord) error
	Recent(limit int) ([]AuditRecord, error)
	Close() error
}
