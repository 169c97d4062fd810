package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/era-engine/fibers/internal/services"
)

type Handler struct {
	workloadSrv *services.WorkloadService
	defaults    services.WorkloadParams
}

func New(workloadSrv *services.WorkloadService, defaults services.WorkloadParams) *Handler {
	return &Handler{
		workloadSrv: workloadSrv,
		defaults:    defaults,
	}
}

// RegisterHandlers mounts the API routes on router, expected to be the /api/v1 group.
func RegisterHandlers(router *gin.RouterGroup, h *Handler) {
	router.GET("/stats", h.GetStats)
	router.GET("/runs", h.ListRuns)
	router.POST("/runs", h.CreateRun)
	router.GET("/runs/:id", h.GetRun)
}
