// Package server provides the HTTP server of the fibers command.
//
// The server uses the Gin web framework and exposes the stats and run history
// of the fiber manager it serves.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Logger (ginzap.Ginzap, request/response logging)       │  │
//	│  │  Recovery (panic recovery with zap logging)             │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /health                                                      │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Modes
//
// Development Mode (ServerMode = "dev"):
//   - Gin runs in debug mode
//
// Production Mode (ServerMode = "prod"):
//   - Gin runs in release mode
//
// Unknown routes answer a JSON 404.
//
// # Server Lifecycle
//
// Creation:
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, h)
//	})
//
// The registerHandlerFn callback receives a RouterGroup prefixed with /api/v1.
//
// Starting:
//
//	// Blocks until error or shutdown
//	err := srv.Start(ctx)
//
// Stopping:
//
//	srv.Stop(ctx)
//
// Performs graceful shutdown, waiting for in-flight requests to complete.
//
// # Middleware
//
// Logger Middleware (ginzap.Ginzap):
//   - Logs method, path, query, IP, user-agent, status code and latency
//   - Uses zap structured logging with "http" logger name, UTC RFC3339 times
//
// Recovery Middleware (ginzap.RecoveryWithZap):
//   - Recovers from panics in handlers
//   - Logs panic details with stack trace
//   - Returns 500 Internal Server Error
//
// A full job queue panics inside the scheduler; for a POST /runs this
// surfaces as a 500 through the recovery middleware.
//
// # Usage Example
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, h)
//	})
//	if err != nil {
//	    return err
//	}
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        zap.S().Errorw("server error", "error", err)
//	    }
//	}()
//
//	<-ctx.Done()
//	srv.Stop(context.Background())
package server
