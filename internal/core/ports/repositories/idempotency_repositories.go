package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// IdempotencyRepositoryFacade defines operations on stored idempotency records
type IdempotencyRepositoryFacade interface {
	// FindRecord retrieves the stored record for (key, user, household).
	FindRecord(ctx context.Context, key string, userID string, householdID string) (*domain.IdempotencyRecord, error)

	// SaveRecord reserves the key before the guarded mutation runs, inserting
	// a record with no response yet. Returns apperrors.ErrDuplicate when a
	// record for the same scope already exists; the loser of a concurrent
	// race gets that error before it can apply the mutation.
	SaveRecord(ctx context.Context, record domain.IdempotencyRecord) error

	// CompleteRecord fills in the outcome of a reserved key once the guarded
	// mutation has committed.
	CompleteRecord(ctx context.Context, key string, userID string, householdID string, status int, body json.RawMessage) error

	// DeleteRecord releases a reservation whose mutation failed, so the
	// client may retry with the same key.
	DeleteRecord(ctx context.Context, key string, userID string, householdID string) error

	// DeleteRecordsBefore removes records created before the cutoff and
	// returns the number deleted.
	DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
