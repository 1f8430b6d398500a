package app

import (
	"context"
	"fmt"
	"time"

	"pipecheck/internal/core/ports"
	"pipecheck/internal/shared/util"
)

// Health reports per-component readiness. Any component other than "ok" or
// "disabled" degrades the overall status.
func (a *App) Health(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Status:     ports.HealthHealthy,
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if a == nil {
		status.Status = ports.HealthDegraded
		status.Components["app"] = "missing"
		return status
	}

	if a.Checker == nil {
		status.Status = ports.HealthDegraded
		status.Components["checker"] = "missing"
	} else {
		status.Components["checker"] = "ok"
	}

	switch {
	case a.Config == nil || !a.Config.Audit.Enabled:
		status.Components["audit"] = "disabled"
	case a.auditStore == nil || a.auditQueue == nil:
		status.Status = ports.HealthDegraded
		status.Components["audit"] = "missing but enabled in config"
	case !a.auditWorkerRunning():
		status.Status = ports.HealthDegraded
		status.Components["audit"] = "writer stopped"
	default:
		status.Components["audit"] = "ok"
		status.Components["audit_queue"] = fmt.Sprintf("%d/%d", a.auditQueue.Len(), a.Config.Audit.QueueCapacity)
	}

	status.Components["heap_mb"] = fmt.Sprintf("%d", util.GetHeapAllocMB())

	if err := ctx.Err(); err != nil {
		status.Status = ports.HealthDegraded
		status.Components["context"] = err.Error()
	}
	return status
}
