package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// goalService implements the GoalSvcFacade interface. Contributions are the
// only way a goal's current amount moves; each one is backed by an expense
// transaction written in the same database transaction as the goal update.
type goalService struct {
	BaseService
	goalRepo        portsrepo.GoalRepositoryFacade
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionReader
}

// GoalServiceOption is a functional option for configuring the goal service
type GoalServiceOption func(*goalService)

// WithGoalAuthorizer adds the household authorizer dependency
func WithGoalAuthorizer(authorizer portssvc.HouseholdAuthorizerSvc) GoalServiceOption {
	return func(s *goalService) {
		s.HouseholdAuthorizer = authorizer
	}
}

// NewGoalService creates a new goal service with the provided options
func NewGoalService(goalRepo portsrepo.GoalRepositoryFacade, accountRepo portsrepo.AccountReader, transactionRepo portsrepo.TransactionReader, options ...GoalServiceOption) portssvc.GoalSvcFacade {
	svc := &goalService{goalRepo: goalRepo, accountRepo: accountRepo, transactionRepo: transactionRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

// CreateGoal persists a new goal. Requires MEMBER.
func (s *goalService) CreateGoal(ctx context.Context, householdID string, req dto.CreateGoalRequest, userID string) (*domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if req.IsRecurring && req.RecurrencePattern == nil {
		return nil, fmt.Errorf("%w: recurring goals need a recurrence pattern", apperrors.ErrValidation)
	}

	now := time.Now()
	goal := domain.Goal{
		GoalID:            uuid.NewString(),
		HouseholdID:       householdID,
		Name:              req.Name,
		TargetAmount:      req.TargetAmount,
		TargetDate:        req.TargetDate,
		Description:       req.Description,
		Priority:          priority,
		Status:            domain.StatusActive,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal in repository", slog.String("goal_id", goal.GoalID))
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.LogInfo(ctx, "Goal created successfully", slog.String("goal_id", goal.GoalID), slog.String("household_id", householdID))
	return &goal, nil
}

// GetGoalByID retrieves a goal, checking household scope. Requires VIEWER.
func (s *goalService) GetGoalByID(ctx context.Context, householdID string, goalID string, userID string) (*domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.findHouseholdGoal(ctx, householdID, goalID)
}

// ListGoals retrieves the goals of a household. Requires VIEWER.
func (s *goalService) ListGoals(ctx context.Context, householdID string, userID string, status *domain.ProgressStatus) ([]domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	goals, err := s.goalRepo.ListGoals(ctx, householdID, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	if goals == nil {
		return []domain.Goal{}, nil
	}
	return goals, nil
}

// UpdateGoal updates a goal's details. Requires MEMBER. When the target
// amount changes the status is reconciled: a goal whose current amount now
// meets the target completes, a completed goal whose target moved above the
// current amount re-opens. Cancelled goals stay cancelled.
func (s *goalService) UpdateGoal(ctx context.Context, householdID string, goalID string, req dto.UpdateGoalRequest, userID string) (*domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	goal, err := s.findHouseholdGoal(ctx, householdID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.TargetDate != nil {
		goal.TargetDate = req.TargetDate
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}
	if req.IsRecurring != nil {
		goal.IsRecurring = *req.IsRecurring
	}
	if req.RecurrencePattern != nil {
		goal.RecurrencePattern = req.RecurrencePattern
	}
	if goal.IsRecurring && goal.RecurrencePattern == nil {
		return nil, fmt.Errorf("%w: recurring goals need a recurrence pattern", apperrors.ErrValidation)
	}

	now := time.Now()
	if req.TargetAmount != nil && goal.Status != domain.StatusCancelled {
		if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			if goal.Status != domain.StatusCompleted {
				goal.Status = domain.StatusCompleted
				goal.CompletedAt = &now
			}
		} else if goal.Status == domain.StatusCompleted {
			goal.Status = domain.StatusActive
			goal.CompletedAt = nil
		}
	}

	goal.LastUpdatedAt = now
	goal.LastUpdatedBy = userID

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to update goal in repository", slog.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	s.LogInfo(ctx, "Goal updated successfully", slog.String("goal_id", goalID), slog.String("status", string(goal.Status)))
	return goal, nil
}

// CancelGoal moves an active goal to CANCELLED. Requires MEMBER. Cancellation
// is terminal: contributions and their backing transactions are kept, but no
// further contributions are accepted and the goal never re-opens.
func (s *goalService) CancelGoal(ctx context.Context, householdID string, goalID string, userID string) (*domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	goal, err := s.findHouseholdGoal(ctx, householdID, goalID)
	if err != nil {
		return nil, err
	}

	if goal.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: only active goals can be cancelled, goal is %s", apperrors.ErrConflict, goal.Status)
	}

	goal.Status = domain.StatusCancelled
	goal.LastUpdatedAt = time.Now()
	goal.LastUpdatedBy = userID

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to cancel goal", slog.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to cancel goal: %w", err)
	}

	s.LogInfo(ctx, "Goal cancelled", slog.String("goal_id", goalID))
	return goal, nil
}

// DeleteGoal removes a goal and its contribution links. Requires ADMIN.
// Backing transactions survive as ordinary expenses; deleting the goal does
// not rewrite financial history.
func (s *goalService) DeleteGoal(ctx context.Context, householdID string, goalID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.findHouseholdGoal(ctx, householdID, goalID); err != nil {
		return err
	}

	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		s.LogError(ctx, err, "Failed to delete goal", slog.String("goal_id", goalID))
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	s.LogInfo(ctx, "Goal deleted", slog.String("goal_id", goalID))
	return nil
}

// ListContributions retrieves the contributions recorded against a goal. Requires VIEWER.
func (s *goalService) ListContributions(ctx context.Context, householdID string, goalID string, userID string) ([]domain.GoalContribution, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	if _, err := s.findHouseholdGoal(ctx, householdID, goalID); err != nil {
		return nil, err
	}

	contributions, err := s.goalRepo.ListContributions(ctx, goalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goal contributions", slog.String("goal_id", goalID))
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	if contributions == nil {
		return []domain.GoalContribution{}, nil
	}
	return contributions, nil
}

// CreateContribution records a contribution to an active goal. Requires
// MEMBER. Four effects land in one database transaction: the backing expense
// transaction, the balance debit on the funding account, the contribution
// link, and the goal's progress advance. Reaching the target completes the
// goal; completion is one-way with respect to further contributions. The
// status check here is a fast fail; the repository re-applies it on the
// locked goal row, which is what decides under concurrency.
func (s *goalService) CreateContribution(ctx context.Context, householdID string, goalID string, req dto.CreateContributionRequest, userID string) (*domain.GoalContribution, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	goal, err := s.findHouseholdGoal(ctx, householdID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	check := *goal
	if err := check.ApplyContribution(req.Amount, userID, now); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.HouseholdID != householdID {
		return nil, fmt.Errorf("%w: account %s not found", apperrors.ErrNotFound, req.AccountID)
	}
	if account.IsArchived {
		return nil, fmt.Errorf("%w: account %s is archived", apperrors.ErrValidation, req.AccountID)
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Contribution to goal %q", goal.Name)
	}

	accountID := req.AccountID
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   householdID,
		Kind:          domain.KindExpense,
		Amount:        req.Amount,
		AccountID:     &accountID,
		OccurredAt:    req.OccurredAt,
		Description:   description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	changes, err := txn.BalanceChanges()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	contribution := domain.GoalContribution{
		ContributionID: uuid.NewString(),
		GoalID:         goalID,
		TransactionID:  txn.TransactionID,
		Amount:         req.Amount,
		CreatedAt:      now,
		CreatedBy:      userID,
	}

	if err := s.goalRepo.SaveContribution(ctx, contribution, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to save goal contribution", slog.String("goal_id", goalID), slog.String("contribution_id", contribution.ContributionID))
		return nil, fmt.Errorf("failed to record contribution: %w", err)
	}

	s.LogInfo(ctx, "Contribution recorded", slog.String("goal_id", goalID), slog.String("contribution_id", contribution.ContributionID), slog.String("amount", req.Amount.String()))
	return &contribution, nil
}

// DeleteContribution unwinds a contribution. Requires MEMBER. The backing
// transaction is deleted, its balance debit reversed, and the goal's current
// amount rolled back. A completed goal whose amount drops below target
// re-opens; a cancelled goal stays cancelled.
func (s *goalService) DeleteContribution(ctx context.Context, householdID string, goalID string, contributionID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return err
	}

	if _, err := s.findHouseholdGoal(ctx, householdID, goalID); err != nil {
		return err
	}

	contribution, err := s.goalRepo.FindContributionByID(ctx, contributionID)
	if err != nil {
		return err
	}
	if contribution.GoalID != goalID {
		return apperrors.ErrNotFound
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, contribution.TransactionID)
	if err != nil {
		return err
	}

	reversal, err := txn.ReversalChanges()
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.goalRepo.DeleteContribution(ctx, *contribution, *txn, reversal, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete goal contribution", slog.String("goal_id", goalID), slog.String("contribution_id", contributionID))
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	s.LogInfo(ctx, "Contribution deleted", slog.String("goal_id", goalID), slog.String("contribution_id", contributionID))
	return nil
}

// RolloverGoal starts the next cycle of a recurring goal. Requires MEMBER.
// Only a completed recurring goal rolls over: a fresh goal is created with
// zero progress and the target date advanced by the recurrence pattern. The
// completed instance is left untouched as history.
func (s *goalService) RolloverGoal(ctx context.Context, householdID string, goalID string, userID string) (*domain.Goal, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	goal, err := s.findHouseholdGoal(ctx, householdID, goalID)
	if err != nil {
		return nil, err
	}

	next, err := goal.NextCycle(uuid.NewString(), userID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.goalRepo.SaveGoal(ctx, next); err != nil {
		s.LogError(ctx, err, "Failed to save rolled-over goal", slog.String("goal_id", goalID), slog.String("new_goal_id", next.GoalID))
		return nil, fmt.Errorf("failed to roll over goal: %w", err)
	}

	s.LogInfo(ctx, "Goal rolled over", slog.String("goal_id", goalID), slog.String("new_goal_id", next.GoalID))
	return &next, nil
}

// findHouseholdGoal loads a goal and enforces household scope.
func (s *goalService) findHouseholdGoal(ctx context.Context, householdID string, goalID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find goal by ID", slog.String("goal_id", goalID))
		}
		return nil, err
	}
	if goal.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return goal, nil
}
