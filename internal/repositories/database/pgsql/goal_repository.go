package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	"github.com/hearthkeep/household_ledger_app/internal/models"
	"github.com/hearthkeep/household_ledger_app/internal/utils/mapping"
)

const goalColumns = `goal_id, household_id, name, target_amount, current_amount, target_date, description, priority, status, completed_at, is_recurring, recurrence_pattern, created_at, created_by, last_updated_at, last_updated_by`

const contributionColumns = `contribution_id, goal_id, transaction_id, amount, created_at, created_by`

// PgxGoalRepository persists savings goals and their contributions. A
// contribution and the expense transaction backing it are written in one
// database transaction so the goal's progress can never drift from the books.
type PgxGoalRepository struct {
	BaseRepository
	accountRepo     portsrepo.AccountBalanceSupport
	transactionRepo portsrepo.TransactionRepositoryFacade
}

func newPgxGoalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountBalanceSupport, transactionRepo portsrepo.TransactionRepositoryFacade) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var m models.Goal
	err := row.Scan(
		&m.GoalID, &m.HouseholdID, &m.Name, &m.TargetAmount, &m.CurrentAmount,
		&m.TargetDate, &m.Description, &m.Priority, &m.Status, &m.CompletedAt,
		&m.IsRecurring, &m.RecurrencePattern,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveGoal persists a new goal.
func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GoalID, m.HouseholdID, m.Name, m.TargetAmount, m.CurrentAmount,
		m.TargetDate, m.Description, m.Priority, m.Status, m.CompletedAt,
		m.IsRecurring, m.RecurrencePattern,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: goal %s already exists", apperrors.ErrDuplicate, m.GoalID)
		}
		return fmt.Errorf("failed to insert goal %s: %w", m.GoalID, err)
	}
	return nil
}

// FindGoalByID retrieves a goal by its ID.
func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = $1;`
	m, err := scanGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find goal %s: %w", goalID, err)
	}
	goal := mapping.ToDomainGoal(*m)
	return &goal, nil
}

// ListGoals retrieves the goals of a household, optionally filtered by status.
func (r *PgxGoalRepository) ListGoals(ctx context.Context, householdID string, status *domain.ProgressStatus) ([]domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE household_id = $1`
	args := []any{householdID}
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals of household %s: %w", householdID, err)
	}
	defer rows.Close()

	var ms []models.Goal
	for rows.Next() {
		m, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goal rows: %w", err)
	}
	return mapping.ToDomainGoalSlice(ms), nil
}

// UpdateGoal updates an existing goal's details, progress and status included.
func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)
	query := `
		UPDATE goals
		SET name = $2, target_amount = $3, current_amount = $4, target_date = $5,
		    description = $6, priority = $7, status = $8, completed_at = $9,
		    is_recurring = $10, recurrence_pattern = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE goal_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query,
		m.GoalID, m.Name, m.TargetAmount, m.CurrentAmount, m.TargetDate,
		m.Description, m.Priority, m.Status, m.CompletedAt,
		m.IsRecurring, m.RecurrencePattern,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal %s: %w", m.GoalID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteGoal removes a goal. Contribution links cascade; the backing
// transactions stay on the books.
func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE goal_id = $1;`, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", goalID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindContributionByID retrieves a contribution by its ID.
func (r *PgxGoalRepository) FindContributionByID(ctx context.Context, contributionID string) (*domain.GoalContribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM goal_contributions WHERE contribution_id = $1;`
	var m models.GoalContribution
	err := r.Pool.QueryRow(ctx, query, contributionID).Scan(
		&m.ContributionID, &m.GoalID, &m.TransactionID, &m.Amount, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contribution %s: %w", contributionID, err)
	}
	c := mapping.ToDomainGoalContribution(m)
	return &c, nil
}

// ListContributions retrieves a goal's contributions, newest first.
func (r *PgxGoalRepository) ListContributions(ctx context.Context, goalID string) ([]domain.GoalContribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM goal_contributions WHERE goal_id = $1 ORDER BY created_at DESC, contribution_id DESC;`
	rows, err := r.Pool.Query(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions of goal %s: %w", goalID, err)
	}
	defer rows.Close()

	var ms []models.GoalContribution
	for rows.Next() {
		var m models.GoalContribution
		if err := rows.Scan(&m.ContributionID, &m.GoalID, &m.TransactionID, &m.Amount, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan contribution row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contribution rows: %w", err)
	}
	return mapping.ToDomainGoalContributionSlice(ms), nil
}

// SaveContribution records a contribution atomically: the backing expense
// transaction, the account balance change, the contribution link, and the
// goal's new progress all commit or none do. The goal row is locked and its
// progress recomputed inside the transaction, so concurrent contributions
// serialize instead of overwriting each other.
func (r *PgxGoalRepository) SaveContribution(ctx context.Context, contribution domain.GoalContribution, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.transactionRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	// Accounts are always locked before the goal row to keep lock ordering
	// consistent with DeleteContribution.
	if err := r.applyBalanceChangesInTx(ctx, tx, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	m := mapping.ToModelGoalContribution(contribution)
	query := `
		INSERT INTO goal_contributions (` + contributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := tx.Exec(ctx, query, m.ContributionID, m.GoalID, m.TransactionID, m.Amount, m.CreatedAt, m.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: contribution %s already exists", apperrors.ErrDuplicate, m.ContributionID)
		}
		return fmt.Errorf("failed to insert contribution %s: %w", m.ContributionID, err)
	}

	goal, err := r.findGoalForUpdate(ctx, tx, contribution.GoalID)
	if err != nil {
		return err
	}
	if err := goal.ApplyContribution(contribution.Amount, contribution.CreatedBy, contribution.CreatedAt); err != nil {
		return err
	}
	if err := r.updateGoalInTx(ctx, tx, *goal); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteContribution reverses a contribution atomically: the link and the
// backing transaction are removed, the balance change is undone, and the
// goal's progress is rolled back under the same row lock contributions take.
func (r *PgxGoalRepository) DeleteContribution(ctx context.Context, contribution domain.GoalContribution, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, deletedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	ct, err := tx.Exec(ctx, `DELETE FROM goal_contributions WHERE contribution_id = $1;`, contribution.ContributionID)
	if err != nil {
		return fmt.Errorf("failed to delete contribution %s: %w", contribution.ContributionID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return fmt.Errorf("failed to delete transaction %s backing contribution %s: %w", txn.TransactionID, contribution.ContributionID, err)
	}

	if err := r.applyBalanceChangesInTx(ctx, tx, balanceChanges, deletedBy, now); err != nil {
		return err
	}

	goal, err := r.findGoalForUpdate(ctx, tx, contribution.GoalID)
	if err != nil {
		return err
	}
	goal.UnapplyContribution(contribution.Amount, deletedBy, now)
	if err := r.updateGoalInTx(ctx, tx, *goal); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// findGoalForUpdate reads a goal inside tx with a row lock held until commit.
func (r *PgxGoalRepository) findGoalForUpdate(ctx context.Context, tx pgx.Tx, goalID string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = $1 FOR UPDATE;`
	m, err := scanGoal(tx.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock goal %s: %w", goalID, err)
	}
	goal := mapping.ToDomainGoal(*m)
	return &goal, nil
}

func (r *PgxGoalRepository) applyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, sortedAccountIDs(changes)); err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

func (r *PgxGoalRepository) updateGoalInTx(ctx context.Context, tx pgx.Tx, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)
	query := `
		UPDATE goals
		SET current_amount = $2, status = $3, completed_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE goal_id = $1;
	`
	ct, err := tx.Exec(ctx, query, m.GoalID, m.CurrentAmount, m.Status, m.CompletedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update goal %s: %w", m.GoalID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
