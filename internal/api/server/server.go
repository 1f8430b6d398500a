// Package server assembles the gin engine and runs the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"pipecheck/internal/api/middleware"
	"pipecheck/internal/api/openapi"
	"pipecheck/internal/core/config"
	"pipecheck/internal/core/ports"
	"pipecheck/internal/shared/util"
)

type Options struct {
	Config  *config.Config
	Service ports.PipelineService
	Logger  *slog.Logger
	// Document defaults to the embedded API description.
	Document *openapi.Document
}

type Server struct {
	cfg       *config.Config
	service   ports.PipelineService
	logger    *slog.Logger
	doc       *openapi.Document
	cors      *middleware.CORSPolicy
	limiter   *util.LimiterRegistry
	perSecond float64

	engine *gin.Engine

	mu     sync.Mutex
	server *http.Server
}

func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Service == nil {
		return nil, fmt.Errorf("pipeline service is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	doc := opts.Document
	if doc == nil {
		var err error
		if doc, err = openapi.Default(); err != nil {
			return nil, err
		}
	}
	cors, err := middleware.NewCORSPolicy(opts.Config.CORS)
	if err != nil {
		return nil, fmt.Errorf("cors policy: %w", err)
	}

	s := &Server{
		cfg:     opts.Config,
		service: opts.Service,
		logger:  logger,
		doc:     doc,
		cors:    cors,
	}

	rl := opts.Config.RateLimit
	if rl.Enabled {
		s.perSecond = float64(rl.RequestsPerMinute) / 60.0
		s.limiter = util.NewLimiterRegistry(s.perSecond, rl.Burst, rl.TTL)
	}

	s.engine = s.buildEngine()
	return s, nil
}

func (s *Server) buildEngine() *gin.Engine {
	router := gin.New()
	// Key rate limits on the socket peer, not on client-supplied headers.
	_ = router.SetTrustedProxies(nil)

	router.Use(middleware.Recovery(s.logger), middleware.RequestID())
	if s.cfg.Observability.EnableTracing {
		router.Use(otelgin.Middleware(s.cfg.Observability.ServiceName))
	}
	router.Use(
		middleware.AccessLog(s.logger),
		middleware.CORS(s.cors),
		middleware.BodyLimit(s.cfg.Server.MaxBodyBytes),
	)

	s.registerRoutes(router)
	return router
}

// Handler exposes the gin engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// CORSPolicy is the live origin policy; config reloads call Update on it.
func (s *Server) CORSPolicy() *middleware.CORSPolicy {
	return s.cors
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the server on ln until ctx is done, then shuts down within the
// configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	}
}

// Stop gracefully shuts the listener down and releases the rate limiter.
func (s *Server) Stop(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("http server shutting down")
	return srv.Shutdown(ctx)
}
