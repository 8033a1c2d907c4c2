package services

import (
	"context"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// GoalReaderSvc defines read operations for savings goal data
type GoalReaderSvc interface {
	// GetGoalByID retrieves a specific goal by its unique identifier.
	GetGoalByID(ctx context.Context, householdID string, goalID string, userID string) (*domain.Goal, error)

	// ListGoals retrieves the goals of a household, optionally filtered by status.
	ListGoals(ctx context.Context, householdID string, userID string, status *domain.ProgressStatus) ([]domain.Goal, error)

	// ListContributions retrieves the contributions recorded against a goal.
	ListContributions(ctx context.Context, householdID string, goalID string, userID string) ([]domain.GoalContribution, error)
}

// GoalWriterSvc defines write operations for savings goal data
type GoalWriterSvc interface {
	// CreateGoal persists a new goal.
	CreateGoal(ctx context.Context, householdID string, req dto.CreateGoalRequest, userID string) (*domain.Goal, error)

	// UpdateGoal updates an existing goal's details. Lowering the target below
	// the current amount completes the goal.
	UpdateGoal(ctx context.Context, householdID string, goalID string, req dto.UpdateGoalRequest, userID string) (*domain.Goal, error)

	// CancelGoal moves an active goal to CANCELLED. Contributions are kept.
	CancelGoal(ctx context.Context, householdID string, goalID string, userID string) (*domain.Goal, error)

	// DeleteGoal removes a goal and its contribution links. Backing
	// transactions remain as ordinary expenses.
	DeleteGoal(ctx context.Context, householdID string, goalID string, userID string) error

	// RolloverGoal creates the next cycle of a completed recurring goal with
	// zero progress and the target date advanced by the recurrence pattern.
	RolloverGoal(ctx context.Context, householdID string, goalID string, userID string) (*domain.Goal, error)
}

// ContributionSvc defines the contribution operations
type ContributionSvc interface {
	// CreateContribution records a contribution backed by an expense
	// transaction, advancing the goal's progress atomically.
	CreateContribution(ctx context.Context, householdID string, goalID string, req dto.CreateContributionRequest, userID string) (*domain.GoalContribution, error)

	// DeleteContribution unwinds a contribution: the backing transaction and
	// its balance effect are reversed and the goal's progress rolled back.
	DeleteContribution(ctx context.Context, householdID string, goalID string, contributionID string, userID string) error
}

// GoalSvcFacade combines all goal-related service interfaces
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
	ContributionSvc
}
