package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/civicwatch/infra-report-api/internal/errors"
	"github.com/civicwatch/infra-report-api/internal/services"
)

// StatsHandler serves the admin statistics endpoints.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetOverview returns totals and grouped counts over all reports.
func (h *StatsHandler) GetOverview(c *gin.Context) {
	overview, err := h.statsService.GetOverview(c.Request.Context())
	if err != nil {
		respondStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetDailyCounts returns per-day report creation counts for the trailing
// window. window_days defaults to the configured window.
func (h *StatsHandler) GetDailyCounts(c *gin.Context) {
	windowDays := 0
	if raw := c.Query("window_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apierrors.BadRequest(c, "Invalid window_days")
			return
		}
		windowDays = n
	}

	counts, err := h.statsService.DailyCounts(c.Request.Context(), windowDays)
	if err != nil {
		respondStatsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"daily_counts": counts})
}

func respondStatsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.Timeout(c, "")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
