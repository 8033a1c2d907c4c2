package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// GoalReader defines read operations for savings goal data
type GoalReader interface {
	// FindGoalByID retrieves a specific goal by its unique identifier.
	FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error)

	// ListGoals retrieves the goals of a household, optionally filtered by status.
	ListGoals(ctx context.Context, householdID string, status *domain.ProgressStatus) ([]domain.Goal, error)

	// FindContributionByID retrieves a specific contribution by its unique identifier.
	FindContributionByID(ctx context.Context, contributionID string) (*domain.GoalContribution, error)

	// ListContributions retrieves the contributions recorded against a goal, newest first.
	ListContributions(ctx context.Context, goalID string) ([]domain.GoalContribution, error)
}

// GoalWriter defines write operations for savings goal data
type GoalWriter interface {
	// SaveGoal persists a new goal.
	SaveGoal(ctx context.Context, goal domain.Goal) error

	// UpdateGoal updates an existing goal's details.
	UpdateGoal(ctx context.Context, goal domain.Goal) error

	// DeleteGoal removes a goal and, via cascade, its contribution links.
	DeleteGoal(ctx context.Context, goalID string) error
}

// ContributionWriter defines the atomic contribution operations
type ContributionWriter interface {
	// SaveContribution inserts the backing expense transaction, applies its
	// balance changes, records the contribution link, and advances the goal's
	// current amount and status, all in a single database transaction. The
	// goal row is locked and its progress recomputed under the lock, so
	// concurrent contributions serialize instead of losing updates.
	SaveContribution(ctx context.Context, contribution domain.GoalContribution, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// DeleteContribution removes the contribution link, deletes the backing
	// transaction, reverses its balance effect, and rolls the goal's progress
	// back under a row lock, all in a single database transaction.
	DeleteContribution(ctx context.Context, contribution domain.GoalContribution, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, deletedBy string, now time.Time) error
}

// GoalRepositoryFacade combines all goal-related repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
	ContributionWriter
}
