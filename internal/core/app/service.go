package app

import (
	"context"
	"fmt"
	"time"

	"pipecheck/internal/core/ports"
	"pipecheck/internal/engine/pipeline"
	"pipecheck/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type pipelineService struct {
	app *App
}

var _ ports.PipelineService = (*pipelineService)(nil)

func NewPipelineService(app *App) ports.PipelineService {
	return &pipelineService{app: app}
}

func (s *pipelineService) ParsePipeline(ctx context.Context, p pipeline.Pipeline) (pipeline.Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "pipelineService.ParsePipeline", trace.WithAttributes(
		attribute.Int("pipeline.nodes", len(p.Nodes)),
		attribute.Int("pipeline.edges", len(p.Edges)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return pipeline.Result{}, err
	}
	if s.app == nil || s.app.Checker == nil {
		return pipeline.Result{}, fmt.Errorf("checker is not configured")
	}

	started := time.Now()
	res, failure := s.app.Checker.Evaluate(p)
	elapsed := time.Since(started)

	verdict := observability.ResultCyclic
	switch {
	case failure != nil:
		verdict = observability.ResultFailSafe
		span.RecordError(failure)
	case res.IsDAG:
		verdict = observability.ResultDAG
	}
	span.SetAttributes(
		attribute.Bool("pipeline.is_dag", res.IsDAG),
		attribute.String("pipeline.verdict", verdict),
	)

	observability.CheckDuration.Observe(elapsed.Seconds())
	observability.ChecksTotal.WithLabelValues(verdict).Inc()
	observability.LastGraphNodes.Set(float64(res.NumNodes))
	observability.LastGraphEdges.Set(float64(res.NumEdges))

	s.app.recordAudit(ports.AuditRecord{
		RequestID: observability.RequestID(ctx),
		Timestamp: started.UTC(),
		NumNodes:  res.NumNodes,
		NumEdges:  res.NumEdges,
		IsDAG:     res.IsDAG,
		FailSafe:  failure != nil,
		Duration:  elapsed,
	})

	return res, nil
}

func (s *pipelineService) Health(ctx context.Context) ports.HealthStatus {
	return s.app.Health(ctx)
}
