package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// metricsHandler serves the read-only ledger rollups.
type metricsHandler struct {
	metricsService portssvc.MetricsSvcFacade
}

func newMetricsHandler(metricsService portssvc.MetricsSvcFacade) *metricsHandler {
	return &metricsHandler{metricsService: metricsService}
}

// getSummary computes the ledger summary for an entity (or all entities when
// the entity query param is empty) as of a date, defaulting to today.
func (h *metricsHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	summary, err := h.metricsService.Summarize(c.Request.Context(), c.Query("entity"), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute ledger summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerSummaryResponse(summary))
}

// registerMetricsRoutes registers the metrics routes.
func registerMetricsRoutes(group *gin.RouterGroup, metricsService portssvc.MetricsSvcFacade) {
	h := newMetricsHandler(metricsService)
	group.GET("/metrics/summary", h.getSummary)
}
