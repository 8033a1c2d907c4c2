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

func recurPtr(p domain.RecurrencePattern) *domain.RecurrencePattern { return &p }

func activeGoal(target int64) domain.Goal {
	return domain.Goal{
		GoalID:        "goal-1",
		HouseholdID:   "hh-1",
		Name:          "Vacation",
		TargetAmount:  decimal.NewFromInt(target),
		CurrentAmount: decimal.Zero,
		Status:        domain.StatusActive,
	}
}

func TestApplyContribution_Accumulates(t *testing.T) {
	goal := activeGoal(500)
	now := time.Now()

	require.NoError(t, goal.ApplyContribution(decimal.NewFromInt(50), "user-1", now))
	require.NoError(t, goal.ApplyContribution(decimal.NewFromInt(50), "user-2", now))

	assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromInt(100)),
		"expected 100, got %s", goal.CurrentAmount)
	assert.Equal(t, domain.StatusActive, goal.Status)
	assert.Equal(t, "user-2", goal.LastUpdatedBy)
}

func TestApplyContribution_ReachingTargetCompletes(t *testing.T) {
	goal := activeGoal(500)
	goal.CurrentAmount = decimal.NewFromInt(480)
	now := time.Now()

	require.NoError(t, goal.ApplyContribution(decimal.NewFromInt(20), "user-1", now))

	assert.Equal(t, domain.StatusCompleted, goal.Status)
	require.NotNil(t, goal.CompletedAt)
	assert.True(t, goal.CompletedAt.Equal(now))
}

func TestApplyContribution_OvershootCompletes(t *testing.T) {
	goal := activeGoal(500)
	goal.CurrentAmount = decimal.NewFromInt(480)

	require.NoError(t, goal.ApplyContribution(decimal.NewFromInt(100), "user-1", time.Now()))

	assert.Equal(t, domain.StatusCompleted, goal.Status)
	assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromInt(580)))
}

func TestApplyContribution_NonActiveRejected(t *testing.T) {
	for _, status := range []domain.ProgressStatus{domain.StatusCompleted, domain.StatusCancelled} {
		goal := activeGoal(500)
		goal.Status = status

		err := goal.ApplyContribution(decimal.NewFromInt(10), "user-1", time.Now())
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	}
}

func TestUnapplyContribution_ReopensCompletedGoal(t *testing.T) {
	goal := activeGoal(500)
	completedAt := time.Now().Add(-time.Hour)
	goal.CurrentAmount = decimal.NewFromInt(500)
	goal.Status = domain.StatusCompleted
	goal.CompletedAt = &completedAt

	goal.UnapplyContribution(decimal.NewFromInt(100), "user-1", time.Now())

	assert.Equal(t, domain.StatusActive, goal.Status)
	assert.Nil(t, goal.CompletedAt)
	assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromInt(400)))
}

func TestUnapplyContribution_CancelledStaysCancelled(t *testing.T) {
	goal := activeGoal(500)
	goal.CurrentAmount = decimal.NewFromInt(200)
	goal.Status = domain.StatusCancelled

	goal.UnapplyContribution(decimal.NewFromInt(50), "user-1", time.Now())

	assert.Equal(t, domain.StatusCancelled, goal.Status)
}

func TestNextOccurrence(t *testing.T) {
	base := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		pattern domain.RecurrencePattern
		want    time.Time
	}{
		{domain.RecurDaily, base.AddDate(0, 0, 1)},
		{domain.RecurWeekly, base.AddDate(0, 0, 7)},
		{domain.RecurMonthly, base.AddDate(0, 1, 0)},
		{domain.RecurQuarterly, base.AddDate(0, 3, 0)},
		{domain.RecurYearly, base.AddDate(1, 0, 0)},
	}
	for _, tc := range cases {
		got, err := tc.pattern.NextOccurrence(base)
		require.NoError(t, err)
		assert.True(t, got.Equal(tc.want), "%s: expected %s, got %s", tc.pattern, tc.want, got)
	}
}

func TestNextOccurrence_UnknownPattern(t *testing.T) {
	_, err := domain.RecurrencePattern("FORTNIGHTLY").NextOccurrence(time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGoalNextCycle_ResetsProgress(t *testing.T) {
	completedAt := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	goal := activeGoal(500)
	goal.CurrentAmount = decimal.NewFromInt(500)
	goal.Status = domain.StatusCompleted
	goal.CompletedAt = &completedAt
	goal.IsRecurring = true
	goal.RecurrencePattern = recurPtr(domain.RecurMonthly)

	now := time.Now()
	next, err := goal.NextCycle("goal-2", "user-1", now)
	require.NoError(t, err)

	assert.Equal(t, "goal-2", next.GoalID)
	assert.True(t, next.CurrentAmount.IsZero())
	assert.True(t, next.TargetAmount.Equal(goal.TargetAmount))
	assert.Equal(t, domain.StatusActive, next.Status)
	assert.Nil(t, next.CompletedAt)
	require.NotNil(t, next.TargetDate)
	assert.True(t, next.TargetDate.Equal(completedAt.AddDate(0, 1, 0)))
	assert.Equal(t, "user-1", next.CreatedBy)
	assert.True(t, next.CreatedAt.Equal(now))
}

func TestGoalNextCycle_NotRecurringRejected(t *testing.T) {
	goal := activeGoal(500)
	goal.Status = domain.StatusCompleted

	_, err := goal.NextCycle("goal-2", "user-1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGoalNextCycle_NotCompletedRejected(t *testing.T) {
	goal := activeGoal(500)
	goal.IsRecurring = true
	goal.RecurrencePattern = recurPtr(domain.RecurWeekly)

	_, err := goal.NextCycle("goal-2", "user-1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
