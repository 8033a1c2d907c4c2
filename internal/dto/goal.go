package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// CreateGoalRequest defines the data needed to create a savings goal.
type CreateGoalRequest struct {
	Name              string                    `json:"name" binding:"required,max=100"`
	TargetAmount      decimal.Decimal           `json:"targetAmount" binding:"required,positivedecimal"`
	TargetDate        *time.Time                `json:"targetDate"`
	Description       string                    `json:"description" binding:"max=500"`
	Priority          domain.Priority           `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurrencePattern *domain.RecurrencePattern `json:"recurrencePattern" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
}

// UpdateGoalRequest defines the mutable attributes of a goal.
type UpdateGoalRequest struct {
	Name              *string                   `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount      *decimal.Decimal          `json:"targetAmount" binding:"omitempty,positivedecimal"`
	TargetDate        *time.Time                `json:"targetDate"`
	Description       *string                   `json:"description" binding:"omitempty,max=500"`
	Priority          *domain.Priority          `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	IsRecurring       *bool                     `json:"isRecurring"`
	RecurrencePattern *domain.RecurrencePattern `json:"recurrencePattern" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
}

// GoalResponse defines the data returned for a savings goal.
type GoalResponse struct {
	GoalID            string                    `json:"goalID"`
	HouseholdID       string                    `json:"householdID"`
	Name              string                    `json:"name"`
	TargetAmount      decimal.Decimal           `json:"targetAmount"`
	CurrentAmount     decimal.Decimal           `json:"currentAmount"`
	TargetDate        *time.Time                `json:"targetDate,omitempty"`
	Description       string                    `json:"description"`
	Priority          domain.Priority           `json:"priority"`
	Status            domain.ProgressStatus     `json:"status"`
	CompletedAt       *time.Time                `json:"completedAt,omitempty"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurrencePattern *domain.RecurrencePattern `json:"recurrencePattern,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

// ToGoalResponse converts a domain.Goal to GoalResponse.
func ToGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:            g.GoalID,
		HouseholdID:       g.HouseholdID,
		Name:              g.Name,
		TargetAmount:      g.TargetAmount,
		CurrentAmount:     g.CurrentAmount,
		TargetDate:        g.TargetDate,
		Description:       g.Description,
		Priority:          g.Priority,
		Status:            g.Status,
		CompletedAt:       g.CompletedAt,
		IsRecurring:       g.IsRecurring,
		RecurrencePattern: g.RecurrencePattern,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.LastUpdatedAt,
	}
}

// ListGoalsResponse wraps the goals of a household.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// CreateContributionRequest defines the data needed to contribute to a goal.
// The contribution is backed by an expense transaction on the given account.
type CreateContributionRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,positivedecimal"`
	OccurredAt  time.Time       `json:"occurredAt" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// ContributionResponse defines the data returned for a goal contribution.
type ContributionResponse struct {
	ContributionID string          `json:"contributionID"`
	GoalID         string          `json:"goalID"`
	TransactionID  string          `json:"transactionID"`
	Amount         decimal.Decimal `json:"amount"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// ToContributionResponse converts a domain.GoalContribution to ContributionResponse.
func ToContributionResponse(c *domain.GoalContribution) ContributionResponse {
	return ContributionResponse{
		ContributionID: c.ContributionID,
		GoalID:         c.GoalID,
		TransactionID:  c.TransactionID,
		Amount:         c.Amount,
		CreatedAt:      c.CreatedAt,
		CreatedBy:      c.CreatedBy,
	}
}

// ListContributionsResponse wraps the contributions recorded against a goal.
type ListContributionsResponse struct {
	Contributions []ContributionResponse `json:"contributions"`
}
