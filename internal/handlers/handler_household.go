package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
	"github.com/hearthkeep/household_ledger_app/internal/middleware"
)

// householdHandler handles HTTP requests related to households and their members.
type householdHandler struct {
	householdService portssvc.HouseholdSvcFacade
}

func newHouseholdHandler(hs portssvc.HouseholdSvcFacade) *householdHandler {
	return &householdHandler{householdService: hs}
}

// registerHouseholdRoutes registers the household routes and nests every
// household-scoped resource under /households/:household_id.
func registerHouseholdRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newHouseholdHandler(services.Household)

	households := rg.Group("/households")
	{
		households.POST("", h.createHousehold)
		households.GET("", h.listHouseholds)
	}

	householdSpecific := rg.Group("/households/:household_id")
	{
		householdSpecific.GET("", h.getHousehold)
		householdSpecific.PUT("", h.updateHousehold)
		householdSpecific.DELETE("", h.deleteHousehold)

		members := householdSpecific.Group("/members")
		{
			members.POST("", h.addMember)
			members.GET("", h.listMembers)
			members.PUT("/:user_id", h.updateMemberRole)
			members.DELETE("/:user_id", h.removeMember)
		}

		registerAccountRoutes(householdSpecific, services.Account)
		registerCategoryRoutes(householdSpecific, services.Category)
		registerTransactionRoutes(householdSpecific, services.Transaction, services.Idempotency)
		registerGoalRoutes(householdSpecific, services.Goal, services.Idempotency)
		registerObligationRoutes(householdSpecific, services.Obligation, services.Idempotency)
		registerReportingRoutes(householdSpecific, services.Reporting)
	}
}

// createHousehold godoc
// @Summary Create a new household
// @Description Creates a new household and makes the creator its owner.
// @Tags households
// @Accept  json
// @Produce  json
// @Param   household body dto.CreateHouseholdRequest true "Household details"
// @Success 201 {object} dto.HouseholdResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create household"
// @Security BearerAuth
// @Router /households [post]
func (h *householdHandler) createHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateHousehold", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", userID))
	logger.Info("Received request to create household", slog.String("household_name", req.Name))

	household, err := h.householdService.CreateHousehold(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create household")
		return
	}

	logger.Info("Household created successfully", slog.String("household_id", household.HouseholdID))
	c.JSON(http.StatusCreated, dto.ToHouseholdResponse(household))
}

// listHouseholds godoc
// @Summary List households for current user
// @Description Retrieves the households the authenticated user belongs to.
// @Tags households
// @Produce  json
// @Success 200 {object} dto.ListHouseholdsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list households"
// @Security BearerAuth
// @Router /households [get]
func (h *householdHandler) listHouseholds(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	households, err := h.householdService.ListHouseholds(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list households")
		return
	}

	responses := make([]dto.HouseholdResponse, len(households))
	for i := range households {
		responses[i] = dto.ToHouseholdResponse(&households[i])
	}
	c.JSON(http.StatusOK, dto.ListHouseholdsResponse{Households: responses})
}

// getHousehold godoc
// @Summary Get a household by ID
// @Description Retrieves a household the authenticated user belongs to.
// @Tags households
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Success 200 {object} dto.HouseholdResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Household not found"
// @Failure 500 {object} map[string]string "Failed to retrieve household"
// @Security BearerAuth
// @Router /households/{household_id} [get]
func (h *householdHandler) getHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	household, err := h.householdService.GetHouseholdByID(c.Request.Context(), householdID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve household")
		return
	}
	c.JSON(http.StatusOK, dto.ToHouseholdResponse(household))
}

// updateHousehold godoc
// @Summary Update a household
// @Description Updates a household's name or description. Requires ADMIN.
// @Tags households
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   household body dto.UpdateHouseholdRequest true "Fields to update"
// @Success 200 {object} dto.HouseholdResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Household not found"
// @Failure 500 {object} map[string]string "Failed to update household"
// @Security BearerAuth
// @Router /households/{household_id} [put]
func (h *householdHandler) updateHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	var req dto.UpdateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateHousehold", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	household, err := h.householdService.UpdateHousehold(c.Request.Context(), householdID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update household")
		return
	}

	logger.Info("Household updated successfully", slog.String("household_id", householdID))
	c.JSON(http.StatusOK, dto.ToHouseholdResponse(household))
}

// deleteHousehold godoc
// @Summary Delete a household
// @Description Removes a household and everything it owns. Owner only.
// @Tags households
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Household not found"
// @Failure 500 {object} map[string]string "Failed to delete household"
// @Security BearerAuth
// @Router /households/{household_id} [delete]
func (h *householdHandler) deleteHousehold(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.householdService.DeleteHousehold(c.Request.Context(), householdID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete household")
		return
	}

	logger.Info("Household deleted successfully", slog.String("household_id", householdID))
	c.Status(http.StatusNoContent)
}

// addMember godoc
// @Summary Add a member to a household
// @Description Adds a user to the household with the given role. Requires ADMIN; the OWNER role cannot be granted.
// @Tags households
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   member body dto.AddMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "User is already a member"
// @Failure 500 {object} map[string]string "Failed to add member"
// @Security BearerAuth
// @Router /households/{household_id}/members [post]
func (h *householdHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.householdService.AddMember(c.Request.Context(), householdID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add member")
		return
	}

	logger.Info("Member added successfully", slog.String("household_id", householdID), slog.String("member_user_id", member.UserID))
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// listMembers godoc
// @Summary List members of a household
// @Description Retrieves all members of the household with their roles.
// @Tags households
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Success 200 {object} dto.ListMembersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Household not found"
// @Failure 500 {object} map[string]string "Failed to list members"
// @Security BearerAuth
// @Router /households/{household_id}/members [get]
func (h *householdHandler) listMembers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	members, err := h.householdService.ListMembers(c.Request.Context(), householdID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list members")
		return
	}

	responses := make([]dto.MemberResponse, len(members))
	for i := range members {
		responses[i] = dto.ToMemberResponse(&members[i])
	}
	c.JSON(http.StatusOK, dto.ListMembersResponse{Members: responses})
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Description Changes a member's role. Requires ADMIN; the owner's role is immutable and OWNER cannot be granted.
// @Tags households
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   user_id path string true "Member user ID"
// @Param   role body dto.UpdateMemberRoleRequest true "New role"
// @Success 200 {object} dto.MemberResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to update member role"
// @Security BearerAuth
// @Router /households/{household_id}/members/{user_id} [put]
func (h *householdHandler) updateMemberRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	memberUserID := c.Param("user_id")

	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateMemberRole", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	member, err := h.householdService.UpdateMemberRole(c.Request.Context(), householdID, memberUserID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update member role")
		return
	}

	logger.Info("Member role updated successfully", slog.String("household_id", householdID), slog.String("member_user_id", memberUserID))
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// removeMember godoc
// @Summary Remove a member from a household
// @Description Removes a member. Requires ADMIN unless removing oneself; the owner cannot be removed.
// @Tags households
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   user_id path string true "Member user ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 500 {object} map[string]string "Failed to remove member"
// @Security BearerAuth
// @Router /households/{household_id}/members/{user_id} [delete]
func (h *householdHandler) removeMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	memberUserID := c.Param("user_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.householdService.RemoveMember(c.Request.Context(), householdID, memberUserID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to remove member")
		return
	}

	logger.Info("Member removed successfully", slog.String("household_id", householdID), slog.String("member_user_id", memberUserID))
	c.Status(http.StatusNoContent)
}
