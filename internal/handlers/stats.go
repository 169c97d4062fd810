package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/era-engine/fibers/api/v1"
)

// GetStats returns the live counters of the serving fiber manager
// (GET /stats)
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.workloadSrv.Stats()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, v1.Error{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, v1.NewStatsFromModel(stats))
}

// Health reports whether the process serves requests
// (GET /health)
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
