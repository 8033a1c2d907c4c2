package services

import (
	"context"
	"encoding/json"
	"time"
)

// IdempotentOp produces the outcome of a guarded operation: the HTTP status
// to store and the response payload.
type IdempotentOp func(ctx context.Context) (int, any, error)

// IdempotencySvcFacade guards financial mutations against duplicate delivery
type IdempotencySvcFacade interface {
	// Execute runs op at most once per (key, user, household). A replay with
	// the same request body returns the stored status and body without
	// running op; a replay with a different body fails with ErrConflict.
	Execute(ctx context.Context, key string, userID string, householdID string, reqBody any, op IdempotentOp) (int, json.RawMessage, error)

	// SweepExpired removes records older than the retention window and
	// returns the number removed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
