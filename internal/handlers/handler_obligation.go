package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
	"github.com/hearthkeep/household_ledger_app/internal/middleware"
)

// obligationHandler handles HTTP requests related to debt obligations and payments.
type obligationHandler struct {
	obligationService  portssvc.ObligationSvcFacade
	idempotencyService portssvc.IdempotencySvcFacade
}

func newObligationHandler(os portssvc.ObligationSvcFacade, is portssvc.IdempotencySvcFacade) *obligationHandler {
	return &obligationHandler{
		obligationService:  os,
		idempotencyService: is,
	}
}

// registerObligationRoutes registers the obligation and payment routes under a household.
func registerObligationRoutes(rg *gin.RouterGroup, obligationService portssvc.ObligationSvcFacade, idempotencyService portssvc.IdempotencySvcFacade) {
	h := newObligationHandler(obligationService, idempotencyService)

	obligations := rg.Group("/obligations")
	{
		obligations.POST("", h.createObligation)
		obligations.GET("", h.listObligations)
		obligations.GET("/:obligation_id", h.getObligation)
		obligations.PUT("/:obligation_id", h.updateObligation)
		obligations.POST("/:obligation_id/cancel", h.cancelObligation)
		obligations.POST("/:obligation_id/renew", h.renewObligation)
		obligations.DELETE("/:obligation_id", h.deleteObligation)

		obligations.POST("/:obligation_id/payments", h.createPayment)
		obligations.GET("/:obligation_id/payments", h.listPayments)
		obligations.DELETE("/:obligation_id/payments/:payment_id", h.deletePayment)
	}
}

// createObligation godoc
// @Summary Create a debt obligation
// @Description Creates an obligation with the full amount outstanding. Requires MEMBER.
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation body dto.CreateObligationRequest true "Obligation details"
// @Success 201 {object} dto.ObligationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create obligation"
// @Security BearerAuth
// @Router /households/{household_id}/obligations [post]
func (h *obligationHandler) createObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")

	var req dto.CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateObligation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.CreateObligation(c.Request.Context(), householdID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create obligation")
		return
	}

	logger.Info("Obligation created successfully", slog.String("obligation_id", obligation.ObligationID))
	c.JSON(http.StatusCreated, dto.ToObligationResponse(obligation))
}

// getObligation godoc
// @Summary Get an obligation by ID
// @Tags obligations
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Success 200 {object} dto.ObligationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to retrieve obligation"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id} [get]
func (h *obligationHandler) getObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.GetObligationByID(c.Request.Context(), householdID, obligationID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve obligation")
		return
	}
	c.JSON(http.StatusOK, dto.ToObligationResponse(obligation))
}

// listObligations godoc
// @Summary List obligations of a household
// @Tags obligations
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   status query string false "Filter by status: ACTIVE, COMPLETED, or CANCELLED"
// @Success 200 {object} dto.ListObligationsResponse
// @Failure 400 {object} map[string]string "Invalid status filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list obligations"
// @Security BearerAuth
// @Router /households/{household_id}/obligations [get]
func (h *obligationHandler) listObligations(c *gin.Context) {
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

	obligations, err := h.obligationService.ListObligations(c.Request.Context(), householdID, userID, status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list obligations")
		return
	}

	responses := make([]dto.ObligationResponse, len(obligations))
	for i := range obligations {
		responses[i] = dto.ToObligationResponse(&obligations[i])
	}
	c.JSON(http.StatusOK, dto.ListObligationsResponse{Obligations: responses})
}

// updateObligation godoc
// @Summary Update an obligation
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Param   obligation body dto.UpdateObligationRequest true "Fields to update"
// @Success 200 {object} dto.ObligationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to update obligation"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id} [put]
func (h *obligationHandler) updateObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")

	var req dto.UpdateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateObligation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.UpdateObligation(c.Request.Context(), householdID, obligationID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update obligation")
		return
	}

	logger.Info("Obligation updated successfully", slog.String("obligation_id", obligationID))
	c.JSON(http.StatusOK, dto.ToObligationResponse(obligation))
}

// cancelObligation godoc
// @Summary Cancel an obligation
// @Description Moves an active obligation to CANCELLED. Payments already made are kept; a cancelled obligation cannot be re-opened.
// @Tags obligations
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Success 200 {object} dto.ObligationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 409 {object} map[string]string "Obligation is not active"
// @Failure 500 {object} map[string]string "Failed to cancel obligation"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id}/cancel [post]
func (h *obligationHandler) cancelObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.CancelObligation(c.Request.Context(), householdID, obligationID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel obligation")
		return
	}

	logger.Info("Obligation cancelled successfully", slog.String("obligation_id", obligationID))
	c.JSON(http.StatusOK, dto.ToObligationResponse(obligation))
}

// renewObligation godoc
// @Summary Renew a recurring obligation for its next cycle
// @Description Creates the next cycle of a completed recurring obligation: full amount outstanding, due date advanced by the recurrence pattern. The completed obligation is kept as history.
// @Tags obligations
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Success 201 {object} dto.ObligationResponse
// @Failure 400 {object} map[string]string "Obligation is not recurring"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 409 {object} map[string]string "Obligation is not completed"
// @Failure 500 {object} map[string]string "Failed to renew obligation"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id}/renew [post]
func (h *obligationHandler) renewObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.RenewObligation(c.Request.Context(), householdID, obligationID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to renew obligation")
		return
	}

	logger.Info("Obligation renewed successfully", slog.String("obligation_id", obligationID), slog.String("new_obligation_id", obligation.ObligationID))
	c.JSON(http.StatusCreated, dto.ToObligationResponse(obligation))
}

// deleteObligation godoc
// @Summary Delete an obligation
// @Description Removes an obligation and its payment links. The backing transactions remain as ordinary expenses. Requires ADMIN.
// @Tags obligations
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to delete obligation"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id} [delete]
func (h *obligationHandler) deleteObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.obligationService.DeleteObligation(c.Request.Context(), householdID, obligationID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete obligation")
		return
	}

	logger.Info("Obligation deleted successfully", slog.String("obligation_id", obligationID))
	c.Status(http.StatusNoContent)
}

// createPayment godoc
// @Summary Record a payment towards an obligation
// @Description Records a payment backed by an expense transaction, reducing the outstanding amount atomically. Paying more than is outstanding is rejected. Requires MEMBER and an Idempotency-Key header.
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Param   Idempotency-Key header string true "Client-chosen key making the request safe to retry"
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input, overpayment, or missing Idempotency-Key"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Obligation or account not found"
// @Failure 409 {object} map[string]string "Obligation is not active or key reused with a different request"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id}/payments [post]
func (h *obligationHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("obligation_id", obligationID), slog.String("user_id", userID))

	runIdempotent(c, logger, h.idempotencyService, householdID, userID, req, "Failed to record payment", func(ctx context.Context) (int, any, error) {
		payment, err := h.obligationService.CreatePayment(ctx, householdID, obligationID, req, userID)
		if err != nil {
			return 0, nil, err
		}
		logger.Info("Payment recorded successfully", slog.String("payment_id", payment.PaymentID))
		return http.StatusCreated, dto.ToPaymentResponse(payment), nil
	})
}

// listPayments godoc
// @Summary List payments of an obligation
// @Tags obligations
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id}/payments [get]
func (h *obligationHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := h.obligationService.ListPayments(c.Request.Context(), householdID, obligationID, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}

	responses := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = dto.ToPaymentResponse(&payments[i])
	}
	c.JSON(http.StatusOK, dto.ListPaymentsResponse{Payments: responses})
}

// deletePayment godoc
// @Summary Delete a payment
// @Description Unwinds a payment: the backing transaction and its balance effect are reversed and the outstanding amount restored.
// @Tags obligations
// @Produce  json
// @Param   household_id path string true "Household ID"
// @Param   obligation_id path string true "Obligation ID"
// @Param   payment_id path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Failed to delete payment"
// @Security BearerAuth
// @Router /households/{household_id}/obligations/{obligation_id}/payments/{payment_id} [delete]
func (h *obligationHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	householdID := c.Param("household_id")
	obligationID := c.Param("obligation_id")
	paymentID := c.Param("payment_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.obligationService.DeletePayment(c.Request.Context(), householdID, obligationID, paymentID, userID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete payment")
		return
	}

	logger.Info("Payment deleted successfully", slog.String("payment_id", paymentID))
	c.Status(http.StatusNoContent)
}
