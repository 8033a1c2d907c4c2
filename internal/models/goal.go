package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is the goals table row.
type Goal struct {
	GoalID            string          `db:"goal_id"`
	HouseholdID       string          `db:"household_id"`
	Name              string          `db:"name"`
	TargetAmount      decimal.Decimal `db:"target_amount"`
	CurrentAmount     decimal.Decimal `db:"current_amount"`
	TargetDate        *time.Time      `db:"target_date"`
	Description       string          `db:"description"`
	Priority          string          `db:"priority"`
	Status            string          `db:"status"`
	CompletedAt       *time.Time      `db:"completed_at"`
	IsRecurring       bool            `db:"is_recurring"`
	RecurrencePattern *string         `db:"recurrence_pattern"`
	AuditFields
}

// GoalContribution is the goal_contributions table row. transaction_id is
// unique and cascades on transaction delete.
type GoalContribution struct {
	ContributionID string          `db:"contribution_id"`
	GoalID         string          `db:"goal_id"`
	TransactionID  string          `db:"transaction_id"`
	Amount         decimal.Decimal `db:"amount"`
	CreatedAt      time.Time       `db:"created_at"`
	CreatedBy      string          `db:"created_by"`
}
