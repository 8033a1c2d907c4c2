package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
	"github.com/hearthkeep/household_ledger_app/internal/middleware"
)

// reportingHandler handles the read-only reporting endpoints.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the reporting routes under a household.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
		reports.GET("/categories", h.getCategoryReport)
	}
}

// getSummary godoc
// @Summary Get the household financial summary
// @Description Aggregates total balance across non-archived accounts, income/expense flow for the period, and open goal/obligation counters.
// @Tags reports
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   from query string false "Inclusive lower bound on occurredAt (RFC 3339)"
// @Param   to query string false "Inclusive upper bound on occurredAt (RFC 3339)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build summary"
// @Security BearerAuth
// @Router /households/{household_id}/reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query params for GetSummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.reportingService.GetSummary(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getCategoryReport godoc
// @Summary Get the per-category breakdown
// @Description Breaks down period income and expense per category. Transactions without a category appear as Uncategorized.
// @Tags reports
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   from query string false "Inclusive lower bound on occurredAt (RFC 3339)"
// @Param   to query string false "Inclusive upper bound on occurredAt (RFC 3339)"
// @Success 200 {object} dto.CategoryReportResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build category report"
// @Security BearerAuth
// @Router /households/{household_id}/reports/categories [get]
func (h *reportingHandler) getCategoryReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query params for GetCategoryReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.GetCategoryReport(c.Request.Context(), householdID, userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build category report")
		return
	}
	c.JSON(http.StatusOK, report)
}
