package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/era-engine/fibers/api/v1"
	"github.com/era-engine/fibers/internal/services"
	srvErrors "github.com/era-engine/fibers/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListRuns returns saved run reports, newest first
// (GET /runs)
func (h *Handler) ListRuns(c *gin.Context) {
	var params v1.ListRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
		return
	}

	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = min(*params.PageSize, maxPageSize)
	}

	svcParams := services.RunListParams{
		Statuses: v1.ParseRunStatuses(params.Status),
		Limit:    uint64(pageSize),
		Offset:   uint64((page - 1) * pageSize),
	}
	if params.MinJobs != nil {
		svcParams.MinJobs = *params.MinJobs
	}

	result, err := h.workloadSrv.ListRuns(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("run_handler").Errorw("failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to list runs"})
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	runs := make([]v1.Run, 0, len(result.Runs))
	for _, r := range result.Runs {
		runs = append(runs, v1.NewRunFromModel(r))
	}

	c.JSON(http.StatusOK, v1.RunListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Runs:      runs,
	})
}

// GetRun returns one run report
// (GET /runs/{id})
func (h *Handler) GetRun(c *gin.Context) {
	id := c.Param("id")

	run, err := h.workloadSrv.GetRun(c.Request.Context(), id)
	if err != nil {
		if srvErrors.IsResourceNotFoundError(err) {
			c.JSON(http.StatusNotFound, v1.Error{Error: err.Error()})
			return
		}
		zap.S().Named("run_handler").Errorw("failed to get run", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to get run"})
		return
	}

	c.JSON(http.StatusOK, v1.NewRunFromModel(*run))
}

// CreateRun runs a workload on the serving manager and returns its report
// once done. Dropping the request stops the run.
// (POST /runs)
func (h *Handler) CreateRun(c *gin.Context) {
	var req v1.RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, v1.Error{Error: err.Error()})
			return
		}
	}

	future := h.workloadSrv.Submit(req.Apply(h.defaults))
	select {
	case result := <-future.C():
		switch {
		case result.Err == nil:
			c.JSON(http.StatusCreated, v1.NewRunFromModel(*result.Data))
		case srvErrors.IsConfigurationError(result.Err):
			c.JSON(http.StatusBadRequest, v1.Error{Error: result.Err.Error()})
		case srvErrors.IsManagerUnavailableError(result.Err):
			c.JSON(http.StatusServiceUnavailable, v1.Error{Error: result.Err.Error()})
		default:
			zap.S().Named("run_handler").Errorw("workload run failed", "error", result.Err)
			c.JSON(http.StatusInternalServerError, v1.Error{Error: "workload run failed"})
		}
	case <-c.Request.Context().Done():
		future.Stop()
		zap.S().Named("run_handler").Infow("workload run abandoned by client")
	}
}
