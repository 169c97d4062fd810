package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/era-engine/fibers/internal/config"
	"github.com/era-engine/fibers/internal/handlers"
)

const (
	modeProd = "prod"

	readHeaderTimeout = 10 * time.Second
)

type Server struct {
	srv    *http.Server
	engine *gin.Engine
	log    *zap.SugaredLogger
}

// NewServer builds the gin engine. registerHandlerFn receives the /api/v1 group.
func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid http port %d", cfg.Server.HTTPPort)
	}

	if cfg.Server.ServerMode == modeProd {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger := zap.L().Named("http")
	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)

	engine.GET("/health", handlers.Health)
	registerHandlerFn(engine.Group("/api/v1"))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", fmt.Sprintf("%d", cfg.Server.HTTPPort)),
			Handler:           engine,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		engine: engine,
		log:    zap.S().Named("server"),
	}, nil
}

// Handler exposes the engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving requests until Stop is called or listening fails.
// A stopped server returns nil.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	s.log.Infow("http server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Infow("http server stopping")
	return s.srv.Shutdown(ctx)
}
