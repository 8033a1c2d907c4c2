package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

func activeObligation(total int64) domain.Obligation {
	return domain.Obligation{
		ObligationID:      "obl-1",
		HouseholdID:       "hh-1",
		Name:              "Car loan",
		TotalAmount:       decimal.NewFromInt(total),
		OutstandingAmount: decimal.NewFromInt(total),
		Status:            domain.StatusActive,
	}
}

func TestApplyPayment_ReducesOutstanding(t *testing.T) {
	obligation := activeObligation(1000)
	now := time.Now()

	require.NoError(t, obligation.ApplyPayment(decimal.NewFromInt(300), "user-1", now))
	require.NoError(t, obligation.ApplyPayment(decimal.NewFromInt(200), "user-2", now))

	assert.True(t, obligation.OutstandingAmount.Equal(decimal.NewFromInt(500)),
		"expected 500, got %s", obligation.OutstandingAmount)
	assert.Equal(t, domain.StatusActive, obligation.Status)
}

func TestApplyPayment_ReachingZeroCompletes(t *testing.T) {
	obligation := activeObligation(1000)
	obligation.OutstandingAmount = decimal.NewFromInt(200)
	now := time.Now()

	require.NoError(t, obligation.ApplyPayment(decimal.NewFromInt(200), "user-1", now))

	assert.Equal(t, domain.StatusCompleted, obligation.Status)
	require.NotNil(t, obligation.CompletedAt)
	assert.True(t, obligation.CompletedAt.Equal(now))
}

func TestApplyPayment_OverpayRejected(t *testing.T) {
	obligation := activeObligation(1000)
	obligation.OutstandingAmount = decimal.NewFromInt(150)

	err := obligation.ApplyPayment(decimal.NewFromInt(151), "user-1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.True(t, obligation.OutstandingAmount.Equal(decimal.NewFromInt(150)))
}

func TestApplyPayment_NonActiveRejected(t *testing.T) {
	for _, status := range []domain.ProgressStatus{domain.StatusCompleted, domain.StatusCancelled} {
		obligation := activeObligation(1000)
		obligation.Status = status

		err := obligation.ApplyPayment(decimal.NewFromInt(10), "user-1", time.Now())
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	}
}

func TestUnapplyPayment_ReopensCompletedObligation(t *testing.T) {
	obligation := activeObligation(1000)
	completedAt := time.Now().Add(-time.Hour)
	obligation.OutstandingAmount = decimal.Zero
	obligation.Status = domain.StatusCompleted
	obligation.CompletedAt = &completedAt

	obligation.UnapplyPayment(decimal.NewFromInt(400), "user-1", time.Now())

	assert.Equal(t, domain.StatusActive, obligation.Status)
	assert.Nil(t, obligation.CompletedAt)
	assert.True(t, obligation.OutstandingAmount.Equal(decimal.NewFromInt(400)))
}

func TestUnapplyPayment_CancelledStaysCancelled(t *testing.T) {
	obligation := activeObligation(1000)
	obligation.OutstandingAmount = decimal.NewFromInt(600)
	obligation.Status = domain.StatusCancelled

	obligation.UnapplyPayment(decimal.NewFromInt(100), "user-1", time.Now())

	assert.Equal(t, domain.StatusCancelled, obligation.Status)
}

func TestObligationNextCycle_RestoresFullAmount(t *testing.T) {
	completedAt := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	obligation := activeObligation(1000)
	obligation.OutstandingAmount = decimal.Zero
	obligation.Status = domain.StatusCompleted
	obligation.CompletedAt = &completedAt
	obligation.IsRecurring = true
	obligation.RecurrencePattern = recurPtr(domain.RecurQuarterly)

	now := time.Now()
	next, err := obligation.NextCycle("obl-2", "user-1", now)
	require.NoError(t, err)

	assert.Equal(t, "obl-2", next.ObligationID)
	assert.True(t, next.OutstandingAmount.Equal(next.TotalAmount))
	assert.Equal(t, domain.StatusActive, next.Status)
	assert.Nil(t, next.CompletedAt)
	require.NotNil(t, next.DueDate)
	assert.True(t, next.DueDate.Equal(completedAt.AddDate(0, 3, 0)))
	assert.Equal(t, "user-1", next.CreatedBy)
}

func TestObligationNextCycle_NotRecurringRejected(t *testing.T) {
	obligation := activeObligation(1000)
	obligation.Status = domain.StatusCompleted

	_, err := obligation.NextCycle("obl-2", "user-1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestObligationNextCycle_NotCompletedRejected(t *testing.T) {
	obligation := activeObligation(1000)
	obligation.IsRecurring = true
	obligation.RecurrencePattern = recurPtr(domain.RecurDaily)

	_, err := obligation.NextCycle("obl-2", "user-1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
