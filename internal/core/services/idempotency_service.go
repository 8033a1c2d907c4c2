package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
)

// defaultIdempotencyRetention is how long completed records are kept before
// the background sweep removes them. A retried request older than this runs
// again.
const defaultIdempotencyRetention = 30 * 24 * time.Hour

// idempotencyService implements the IdempotencySvcFacade interface. It makes
// financial mutations safe to retry: the first delivery runs the operation
// and stores its outcome, replays return the stored outcome, and a key reused
// with a different body is rejected.
type idempotencyService struct {
	BaseService
	idempotencyRepo portsrepo.IdempotencyRepositoryFacade
	retention       time.Duration
}

// IdempotencyServiceOption is a functional option for configuring the idempotency service
type IdempotencyServiceOption func(*idempotencyService)

// WithIdempotencyRetention overrides how long stored records survive before
// the sweep removes them.
func WithIdempotencyRetention(retention time.Duration) IdempotencyServiceOption {
	return func(s *idempotencyService) {
		if retention > 0 {
			s.retention = retention
		}
	}
}

// NewIdempotencyService creates a new idempotency service with the provided options
func NewIdempotencyService(repo portsrepo.IdempotencyRepositoryFacade, options ...IdempotencyServiceOption) portssvc.IdempotencySvcFacade {
	svc := &idempotencyService{
		idempotencyRepo: repo,
		retention:       defaultIdempotencyRetention,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.IdempotencySvcFacade = (*idempotencyService)(nil)

// Execute runs op at most once per (key, user, household).
//
// The key is reserved before op runs: a record with no response yet is
// inserted first, so of two concurrent deliveries only the one that wins the
// insert ever applies the mutation. The loser finds the winner's record and
// either replays its stored response or, while the winner is still in
// flight, gets ErrConflict. A failed op releases the reservation so the
// client may retry with the same key.
func (s *idempotencyService) Execute(ctx context.Context, key string, userID string, householdID string, reqBody any, op portssvc.IdempotentOp) (int, json.RawMessage, error) {
	if key == "" {
		return 0, nil, fmt.Errorf("%w: Idempotency-Key header is required", apperrors.ErrValidation)
	}

	hash, err := hashRequestBody(reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to hash request body: %w", err)
	}

	record := domain.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		HouseholdID: householdID,
		RequestHash: hash,
		CreatedAt:   time.Now(),
	}
	if err := s.idempotencyRepo.SaveRecord(ctx, record); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			existing, findErr := s.idempotencyRepo.FindRecord(ctx, key, userID, householdID)
			if findErr != nil {
				s.LogError(ctx, findErr, "Failed to read existing idempotency record", slog.String("idempotency_key", key))
				return 0, nil, fmt.Errorf("failed to resolve concurrent idempotent request: %w", findErr)
			}
			return s.replay(ctx, existing, hash, key)
		}
		s.LogError(ctx, err, "Failed to reserve idempotency key", slog.String("idempotency_key", key))
		return 0, nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}

	status, payload, err := op(ctx)
	if err != nil {
		s.release(ctx, key, userID, householdID)
		return 0, nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		// The mutation is committed; keep the reservation so a retry cannot
		// apply it again.
		s.LogError(ctx, err, "Failed to encode idempotent response", slog.String("idempotency_key", key))
		return 0, nil, fmt.Errorf("failed to encode response for idempotency store: %w", err)
	}

	if err := s.idempotencyRepo.CompleteRecord(ctx, key, userID, householdID, status, body); err != nil {
		// The mutation is committed and the key stays reserved, so a replay
		// cannot double-apply; the client still gets its response.
		s.LogError(ctx, err, "Failed to store idempotent response", slog.String("idempotency_key", key))
	}

	return status, body, nil
}

// release drops a reservation whose op did not produce a storable outcome.
func (s *idempotencyService) release(ctx context.Context, key string, userID string, householdID string) {
	if err := s.idempotencyRepo.DeleteRecord(ctx, key, userID, householdID); err != nil {
		s.LogError(ctx, err, "Failed to release idempotency reservation", slog.String("idempotency_key", key))
	}
}

// replay resolves a repeated key: the stored outcome when the first delivery
// finished, ErrConflict when it is still in flight or the key was reused
// with a different request body.
func (s *idempotencyService) replay(ctx context.Context, record *domain.IdempotencyRecord, hash string, key string) (int, json.RawMessage, error) {
	if record.RequestHash != hash {
		s.LogInfo(ctx, "Idempotency key reused with different request body", slog.String("idempotency_key", key))
		return 0, nil, fmt.Errorf("%w: idempotency key already used with a different request", apperrors.ErrConflict)
	}
	if record.Pending() {
		s.LogInfo(ctx, "Duplicate delivery while first is still in flight", slog.String("idempotency_key", key))
		return 0, nil, fmt.Errorf("%w: a request with this idempotency key is still being processed", apperrors.ErrConflict)
	}
	s.LogDebug(ctx, "Replaying stored idempotent response", slog.String("idempotency_key", key), slog.Int("status", record.ResponseStatus))
	return record.ResponseStatus, record.ResponseBody, nil
}

// SweepExpired removes records past the retention window.
func (s *idempotencyService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.retention)
	deleted, err := s.idempotencyRepo.DeleteRecordsBefore(ctx, cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to sweep expired idempotency records")
		return 0, fmt.Errorf("failed to sweep idempotency records: %w", err)
	}
	if deleted > 0 {
		s.LogInfo(ctx, "Swept expired idempotency records", slog.Int64("deleted", deleted))
	}
	return deleted, nil
}

// hashRequestBody produces the canonical fingerprint of a request body.
// Marshaling the bound struct, rather than the raw bytes, makes the hash
// insensitive to key order and whitespace differences between retries.
func hashRequestBody(reqBody any) (string, error) {
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
