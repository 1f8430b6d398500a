package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipecheck_check_seconds",
		Help:    "Time spent building and checking a pipeline graph.",
		Buckets: prometheus.DefBuckets,
	})

	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipecheck_checks_total",
		Help: "Total number of pipeline checks by verdict (dag, cyclic, failsafe).",
	}, []string{"result"})

	LastGraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipecheck_last_graph_nodes",
		Help: "Node count of the most recently checked pipeline.",
	})

	LastGraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipecheck_last_graph_edges",
		Help: "Edge count of the most recently checked pipeline.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipecheck_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipecheck_http_request_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipecheck_rate_limited_total",
		Help: "Total number of requests rejected by the per-client rate limiter.",
	})

	AuditQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipecheck_audit_queue_depth",
		Help: "Current number of audit records waiting to be persisted.",
	})

	AuditDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipecheck_audit_dropped_total",
		Help: "Total number of audit records dropped due to backpressure.",
	})

	AuditWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipecheck_audit_written_total",
		Help: "Total number of audit records written to storage.",
	})

	AuditErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipecheck_audit_errors_total",
		Help: "Total number of audit batch write errors.",
	})
)

const (
	ResultDAG      = "dag"
	ResultCyclic   = "cyclic"
	ResultFailSafe = "failsafe"
)
