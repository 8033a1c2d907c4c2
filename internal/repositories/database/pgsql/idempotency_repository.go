package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	"github.com/hearthkeep/household_ledger_app/internal/models"
	"github.com/hearthkeep/household_ledger_app/internal/utils/mapping"
)

const idempotencyColumns = `idempotency_key, user_id, household_id, request_hash, response_status, response_body, created_at`

// PgxIdempotencyRepository reserves idempotency keys and stores the outcomes
// of the requests they guard, scoped by (key, user, household). The primary
// key on (key, user, household) is what decides concurrent duplicate races.
type PgxIdempotencyRepository struct {
	BaseRepository
}

func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepositoryFacade {
	return &PgxIdempotencyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.IdempotencyRepositoryFacade = (*PgxIdempotencyRepository)(nil)

// FindRecord retrieves the stored record for (key, user, household).
func (r *PgxIdempotencyRepository) FindRecord(ctx context.Context, key string, userID string, householdID string) (*domain.IdempotencyRecord, error) {
	query := `SELECT ` + idempotencyColumns + ` FROM idempotency_records WHERE idempotency_key = $1 AND user_id = $2 AND household_id = $3;`
	var m models.IdempotencyRecord
	err := r.Pool.QueryRow(ctx, query, key, userID, householdID).Scan(
		&m.Key, &m.UserID, &m.HouseholdID, &m.RequestHash, &m.ResponseStatus, &m.ResponseBody, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find idempotency record: %w", err)
	}
	rec := mapping.ToDomainIdempotencyRecord(m)
	return &rec, nil
}

// SaveRecord reserves the key by inserting a record with no response yet.
// A concurrent writer that lost the race gets ErrDuplicate before it can
// apply the guarded mutation.
func (r *PgxIdempotencyRepository) SaveRecord(ctx context.Context, record domain.IdempotencyRecord) error {
	m := mapping.ToModelIdempotencyRecord(record)
	query := `
		INSERT INTO idempotency_records (` + idempotencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.Key, m.UserID, m.HouseholdID, m.RequestHash, m.ResponseStatus, m.ResponseBody, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: idempotency key %s already recorded", apperrors.ErrDuplicate, m.Key)
		}
		return fmt.Errorf("failed to insert idempotency record: %w", err)
	}
	return nil
}

// CompleteRecord fills in the outcome of a reserved key.
func (r *PgxIdempotencyRepository) CompleteRecord(ctx context.Context, key string, userID string, householdID string, status int, body json.RawMessage) error {
	query := `
		UPDATE idempotency_records
		SET response_status = $4, response_body = $5
		WHERE idempotency_key = $1 AND user_id = $2 AND household_id = $3;
	`
	ct, err := r.Pool.Exec(ctx, query, key, userID, householdID, status, []byte(body))
	if err != nil {
		return fmt.Errorf("failed to complete idempotency record: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRecord releases a reservation whose mutation failed. Deleting an
// already-released record is not an error.
func (r *PgxIdempotencyRepository) DeleteRecord(ctx context.Context, key string, userID string, householdID string) error {
	query := `DELETE FROM idempotency_records WHERE idempotency_key = $1 AND user_id = $2 AND household_id = $3;`
	if _, err := r.Pool.Exec(ctx, query, key, userID, householdID); err != nil {
		return fmt.Errorf("failed to delete idempotency record: %w", err)
	}
	return nil
}

// DeleteRecordsBefore removes records created before the cutoff.
func (r *PgxIdempotencyRepository) DeleteRecordsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM idempotency_records WHERE created_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired idempotency records: %w", err)
	}
	return ct.RowsAffected(), nil
}
