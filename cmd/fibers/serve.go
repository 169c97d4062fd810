package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/era-engine/fibers/internal/config"
	"github.com/era-engine/fibers/internal/handlers"
	"github.com/era-engine/fibers/internal/server"
	"github.com/era-engine/fibers/internal/services"
	"github.com/era-engine/fibers/pkg/fibers"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scheduler stats and workload runs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVar(&cfg.Server.HTTPPort, "http-port", cfg.Server.HTTPPort, "HTTP listen port")
	cmd.Flags().StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev or prod")
	return cmd
}

func serve(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("serve")

	st, err := openStore(ctx, cfg.Store.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	schedCfg := cfg.Scheduler
	schedCfg.ShutdownAfterMain = false
	m, err := fibers.NewManager(schedCfg)
	if err != nil {
		return err
	}

	managerDone := make(chan error, 1)
	go func() {
		managerDone <- m.Run(func(context.Context, *fibers.Manager, any) {
			log.Infow("fiber manager serving", "id", m.ID())
		}, nil)
	}()
	stopManager := func() error {
		m.Shutdown()
		return <-managerDone
	}

	srv := services.NewWorkloadService(cfg.Scheduler, st).WithManager(m)
	h := handlers.New(srv, services.NewWorkloadParams(cfg.Workload))

	httpSrv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		handlers.RegisterHandlers(router, h)
	})
	if err != nil {
		_ = stopManager()
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpSrv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Infow("shutting down")
	case err = <-serverErr:
		if err != nil {
			err = fmt.Errorf("http server failed: %w", err)
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopErr := httpSrv.Stop(stopCtx); stopErr != nil {
		log.Errorw("failed to stop http server", "error", stopErr)
	}
	if runErr := stopManager(); runErr != nil && err == nil {
		err = runErr
	}
	return err
}
