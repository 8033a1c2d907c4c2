package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
)

// ProgressStatus is shared by goals and obligations.
type ProgressStatus string

const (
	StatusActive    ProgressStatus = "ACTIVE"
	StatusCompleted ProgressStatus = "COMPLETED"
	StatusCancelled ProgressStatus = "CANCELLED"
)

// Priority orders goals/obligations for display. Descriptive only.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// RecurrencePattern is how often a recurring goal or obligation repeats.
type RecurrencePattern string

const (
	RecurDaily     RecurrencePattern = "DAILY"
	RecurWeekly    RecurrencePattern = "WEEKLY"
	RecurMonthly   RecurrencePattern = "MONTHLY"
	RecurQuarterly RecurrencePattern = "QUARTERLY"
	RecurYearly    RecurrencePattern = "YEARLY"
)

// NextOccurrence advances base by one recurrence period.
func (p RecurrencePattern) NextOccurrence(base time.Time) (time.Time, error) {
	switch p {
	case RecurDaily:
		return base.AddDate(0, 0, 1), nil
	case RecurWeekly:
		return base.AddDate(0, 0, 7), nil
	case RecurMonthly:
		return base.AddDate(0, 1, 0), nil
	case RecurQuarterly:
		return base.AddDate(0, 3, 0), nil
	case RecurYearly:
		return base.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown recurrence pattern %q", apperrors.ErrValidation, string(p))
	}
}

// Goal is a household savings target.
//
// Invariant: CurrentAmount equals the sum of its contributions' amounts.
// The transition to COMPLETED happens exactly when CurrentAmount first
// reaches TargetAmount and is one-way with respect to further contributions.
type Goal struct {
	GoalID            string             `json:"goalID"` // Primary Key (UUID)
	HouseholdID       string             `json:"householdID"`
	Name              string             `json:"name"`
	TargetAmount      decimal.Decimal    `json:"targetAmount"`
	CurrentAmount     decimal.Decimal    `json:"currentAmount"`
	TargetDate        *time.Time         `json:"targetDate"`
	Description       string             `json:"description"`
	Priority          Priority           `json:"priority"`
	Status            ProgressStatus     `json:"status"`
	CompletedAt       *time.Time         `json:"completedAt"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurrencePattern *RecurrencePattern `json:"recurrencePattern"`
	AuditFields
}

// ApplyContribution advances the goal by amount. Reaching the target
// completes the goal. Only active goals accept contributions.
//
// The persistence layer calls this on a row-locked copy so that concurrent
// contributions serialize instead of overwriting each other's progress.
func (g *Goal) ApplyContribution(amount decimal.Decimal, userID string, now time.Time) error {
	if g.Status != StatusActive {
		return fmt.Errorf("%w: goal is %s, contributions require an active goal", apperrors.ErrConflict, g.Status)
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = StatusCompleted
		g.CompletedAt = &now
	}
	g.LastUpdatedAt = now
	g.LastUpdatedBy = userID
	return nil
}

// UnapplyContribution rolls the goal back by amount. A completed goal whose
// amount drops below target re-opens; a cancelled goal stays cancelled.
func (g *Goal) UnapplyContribution(amount decimal.Decimal, userID string, now time.Time) {
	g.CurrentAmount = g.CurrentAmount.Sub(amount)
	if g.Status == StatusCompleted && g.CurrentAmount.LessThan(g.TargetAmount) {
		g.Status = StatusActive
		g.CompletedAt = nil
	}
	g.LastUpdatedAt = now
	g.LastUpdatedBy = userID
}

// NextCycle builds the next instance of a recurring goal: same target,
// progress reset to zero, target date advanced by one recurrence period from
// the completion date. The goal must be recurring and completed.
func (g Goal) NextCycle(newID string, userID string, now time.Time) (Goal, error) {
	if !g.IsRecurring || g.RecurrencePattern == nil {
		return Goal{}, fmt.Errorf("%w: goal %s is not recurring", apperrors.ErrValidation, g.GoalID)
	}
	if g.Status != StatusCompleted {
		return Goal{}, fmt.Errorf("%w: only completed goals roll over, goal is %s", apperrors.ErrConflict, g.Status)
	}

	base := now
	if g.CompletedAt != nil {
		base = *g.CompletedAt
	} else if g.TargetDate != nil {
		base = *g.TargetDate
	}
	next, err := g.RecurrencePattern.NextOccurrence(base)
	if err != nil {
		return Goal{}, err
	}

	fresh := g
	fresh.GoalID = newID
	fresh.CurrentAmount = decimal.Zero
	fresh.TargetDate = &next
	fresh.Status = StatusActive
	fresh.CompletedAt = nil
	fresh.AuditFields = AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	return fresh, nil
}

// GoalContribution links a goal to the single transaction that funded it.
// A contribution always creates its backing transaction; deleting the
// transaction cascades to the contribution.
type GoalContribution struct {
	ContributionID string          `json:"contributionID"` // Primary Key (UUID)
	GoalID         string          `json:"goalID"`
	TransactionID  string          `json:"transactionID"` // unique, 1:1 with the backing transaction
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}
