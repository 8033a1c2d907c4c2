package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
	"github.com/hearthkeep/household_ledger_app/internal/middleware"
)

// goalHandler handles HTTP requests related to savings goals and contributions.
type goalHandler struct {
	goalService        portssvc.GoalSvcFacade
	idempotencyService portssvc.IdempotencySvcFacade
}

func newGoalHandler(gs portssvc.GoalSvcFacade, is portssvc.IdempotencySvcFacade) *goalHandler {
	return &goalHandler{
		goalService:        gs,
		idempotencyService: is,
	}
}

// registerGoalRoutes registers the goal and contribution routes under a household.
func registerGoalRoutes(rg *gin.RouterGroup, goalService portssvc.GoalSvcFacade, idempotencyService portssvc.IdempotencySvcFacade) {
	h := newGoalHandler(goalService, idempotencyService)

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:goal_id", h.getGoal)
		goals.PUT("/:goal_id", h.updateGoal)
		goals.POST("/:goal_id/cancel", h.cancelGoal)
		goals.POST("/:goal_id/rollover", h.rolloverGoal)
		goals.DELETE("/:goal_id", h.deleteGoal)

		goals.POST("/:goal_id/contributions", h.createContribution)
		goals.GET("/:goal_id/contributions", h.listContributions)
		goals.DELETE("/:goal_id/contributions/:contribution_id", h.deleteContribution)
	}
}

// statusFilterFromQuery parses an optional ?status= filter.
func statusFilterFromQuery(c *gin.Context) (*domain.ProgressStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	status := domain.ProgressStatus(raw)
	switch status {
	case domain.StatusActive, domain.StatusCompleted, domain.StatusCancelled:
		return &status, true
	default:
		return nil, false
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Description Creates a goal with zero progress. Requires MEMBER.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal body dto.CreateGoalRequest true "Goal details"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create goal"
// @Security BearerAuth
// @Router /households/{household_id}/goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGoal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), householdID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create goal")
		return
	}

	logger.Info("Goal created successfully", slog.String("goal_id", goal.GoalID))
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// getGoal godoc
// @Summary Get a goal by ID
// @Tags goals
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve goal"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.GetGoalByID(c.Request.Context(), householdID, goalID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// listGoals godoc
// @Summary List goals of a household
// @Tags goals
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   status query string false "Filter by status: ACTIVE, COMPLETED, or CANCELLED"
// @Success 200 {object} dto.ListGoalsResponse
// @Failure 400 {object} map[string]string "Invalid status filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list goals"
// @Security BearerAuth
// @Router /households/{household_id}/goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, valid := statusFilterFromQuery(c)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), householdID, userID, status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list goals")
		return
	}

	responses := make([]dto.GoalResponse, len(goals))
	for i := range goals {
		responses[i] = dto.ToGoalResponse(&goals[i])
	}
	c.JSON(http.StatusOK, dto.ListGoalsResponse{Goals: responses})
}

// updateGoal godoc
// @Summary Update a goal
// @Description Updates a goal's details. Lowering the target to or below the current amount completes the goal.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Param   goal body dto.UpdateGoalRequest true "Fields to update"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to update goal"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id} [put]
func (h *goalHandler) updateGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")

	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGoal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), householdID, goalID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update goal")
		return
	}

	logger.Info("Goal updated successfully", slog.String("goal_id", goalID))
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// cancelGoal godoc
// @Summary Cancel a goal
// @Description Moves an active goal to CANCELLED. Contributions already made are kept; a cancelled goal cannot be re-opened.
// @Tags goals
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 409 {object} map[string]string "Goal is not active"
// @Failure 500 {object} map[string]string "Failed to cancel goal"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id}/cancel [post]
func (h *goalHandler) cancelGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.CancelGoal(c.Request.Context(), householdID, goalID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel goal")
		return
	}

	logger.Info("Goal cancelled successfully", slog.String("goal_id", goalID))
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// rolloverGoal godoc
// @Summary Roll a recurring goal over into its next cycle
// @Description Creates the next cycle of a completed recurring goal: zero progress, target date advanced by the recurrence pattern. The completed goal is kept as history.
// @Tags goals
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Goal is not recurring"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 409 {object} map[string]string "Goal is not completed"
// @Failure 500 {object} map[string]string "Failed to roll over goal"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id}/rollover [post]
func (h *goalHandler) rolloverGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	goal, err := h.goalService.RolloverGoal(c.Request.Context(), householdID, goalID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to roll over goal")
		return
	}

	logger.Info("Goal rolled over successfully", slog.String("goal_id", goalID), slog.String("new_goal_id", goal.GoalID))
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// deleteGoal godoc
// @Summary Delete a goal
// @Description Removes a goal and its contribution links. The backing transactions remain as ordinary expenses. Requires ADMIN.
// @Tags goals
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to delete goal"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id} [delete]
func (h *goalHandler) deleteGoal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), householdID, goalID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete goal")
		return
	}

	logger.Info("Goal deleted successfully", slog.String("goal_id", goalID))
	c.Status(http.StatusNoContent)
}

// createContribution godoc
// @Summary Record a contribution to a goal
// @Description Records a contribution backed by an expense transaction, advancing the goal's progress atomically. Requires MEMBER and an Idempotency-Key header.
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Param   Idempotency-Key header string true "Client-chosen key making the request safe to retry"
// @Param   contribution body dto.CreateContributionRequest true "Contribution details"
// @Success 201 {object} dto.ContributionResponse
// @Failure 400 {object} map[string]string "Invalid input or missing Idempotency-Key"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal or account not found"
// @Failure 409 {object} map[string]string "Goal is not active or key reused with a different request"
// @Failure 500 {object} map[string]string "Failed to record contribution"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id}/contributions [post]
func (h *goalHandler) createContribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")

	var req dto.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateContribution", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("goal_id", goalID), slog.String("user_id", userID))

	runIdempotent(c, logger, h.idempotencyService, householdID, userID, req, "Failed to record contribution", func(ctx context.Context) (int, any, error) {
		contribution, err := h.goalService.CreateContribution(ctx, householdID, goalID, req, userID)
		if err != nil {
			return 0, nil, err
		}
		logger.Info("Contribution recorded successfully", slog.String("contribution_id", contribution.ContributionID))
		return http.StatusCreated, dto.ToContributionResponse(contribution), nil
	})
}

// listContributions godoc
// @Summary List contributions of a goal
// @Tags goals
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Success 200 {object} dto.ListContributionsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Goal not found"
// @Failure 500 {object} map[string]string "Failed to list contributions"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id}/contributions [get]
func (h *goalHandler) listContributions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	contributions, err := h.goalService.ListContributions(c.Request.Context(), householdID, goalID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list contributions")
		return
	}

	responses := make([]dto.ContributionResponse, len(contributions))
	for i := range contributions {
		responses[i] = dto.ToContributionResponse(&contributions[i])
	}
	c.JSON(http.StatusOK, dto.ListContributionsResponse{Contributions: responses})
}

// deleteContribution godoc
// @Summary Delete a contribution
// @Description Unwinds a contribution: the backing transaction and its balance effect are reversed and the goal's progress rolled back.
// @Tags goals
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   goal_id path string true "Goal ID"
// @Param   contribution_id path string true "Contribution ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Contribution not found"
// @Failure 500 {object} map[string]string "Failed to delete contribution"
// @Security BearerAuth
// @Router /households/{household_id}/goals/{goal_id}/contributions/{contribution_id} [delete]
func (h *goalHandler) deleteContribution(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	goalID := c.Param("goal_id")
	contributionID := c.Param("contribution_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.goalService.DeleteContribution(c.Request.Context(), householdID, goalID, contributionID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete contribution")
		return
	}

	logger.Info("Contribution deleted successfully", slog.String("contribution_id", contributionID))
	c.Status(http.StatusNoContent)
}
