package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
)

const idempotencyKeyHeader = "Idempotency-Key"

// runIdempotent executes op through the idempotency gate and writes the
// outcome. Replays return the stored response body verbatim, so the caller
// cannot tell a replay from the first delivery.
func runIdempotent(c *gin.Context, logger *slog.Logger, idempotencySvc portssvc.IdempotencySvcFacade, householdID string, userID string, reqBody any, fallback string, op portssvc.IdempotentOp) {
	key := c.GetHeader(idempotencyKeyHeader)

	status, body, err := idempotencySvc.Execute(c.Request.Context(), key, userID, householdID, reqBody, op)
	if err != nil {
		respondServiceError(c, logger, err, fallback)
		return
	}
	c.Data(status, "application/json", body)
}
