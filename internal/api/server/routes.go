package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pipecheck/internal/api/handlers"
	"pipecheck/internal/api/middleware"
)

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/", handlers.Ping)
	router.GET("/health", handlers.Health(s.service))
	router.GET("/openapi.json", handlers.OpenAPI(s.doc))

	parse := []gin.HandlerFunc{}
	if s.limiter != nil {
		parse = append(parse, middleware.RateLimit(s.limiter, s.perSecond))
	}
	parse = append(parse, handlers.ParsePipeline(s.service, s.doc))

	pipelines := router.Group("/pipelines")
	{
		pipelines.POST("/parse", parse...)
	}

	if s.cfg.Observability.MetricsEnabled() {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}
