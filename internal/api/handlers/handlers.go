// Package handlers implements the HTTP endpoints on top of the pipeline
// service.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pipecheck/internal/api/openapi"
	"pipecheck/internal/core/ports"
)

// Ping answers GET / with {"Ping": "Pong"}.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Ping": "Pong"})
}

// Health answers GET /health. A healthy service reports only its status; a
// degraded one adds the component map and answers 503.
func Health(svc ports.PipelineService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := svc.Health(c.Request.Context())
		if status.Status == ports.HealthHealthy {
			c.JSON(http.StatusOK, gin.H{"status": status.Status})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     status.Status,
			"components": status.Components,
		})
	}
}

// OpenAPI serves the embedded API description.
func OpenAPI(doc *openapi.Document) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc.JSON())
	}
}
