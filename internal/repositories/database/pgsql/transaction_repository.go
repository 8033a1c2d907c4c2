package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
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

const transactionColumns = `transaction_id, household_id, kind, amount, account_id, from_account_id, to_account_id, category_id, occurred_at, description, counterparty, created_at, created_by, last_updated_at, last_updated_by`

// PgxTransactionRepository persists transactions. Every write that moves
// money runs the row change and the account balance deltas in one database
// transaction, locking the affected accounts first.
type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountBalanceSupport
}

func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountBalanceSupport) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.HouseholdID, &m.Kind, &m.Amount,
		&m.AccountID, &m.FromAccountID, &m.ToAccountID, &m.CategoryID,
		&m.OccurredAt, &m.Description, &m.Counterparty,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// sortedAccountIDs returns the delta map's keys in ascending order so every
// writer locks accounts in the same order.
func sortedAccountIDs(changes map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// applyBalanceChanges locks the affected accounts and applies the deltas
// within tx.
func (r *PgxTransactionRepository) applyBalanceChanges(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
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

// SaveTransaction inserts the transaction and applies its balance changes in
// one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveTransactionInTx inserts the transaction row within an existing database
// transaction without touching balances.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID, m.HouseholdID, m.Kind, m.Amount,
		m.AccountID, m.FromAccountID, m.ToAccountID, m.CategoryID,
		m.OccurredAt, m.Description, m.Counterparty,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactions retrieves a filtered page, newest first by
// (occurred_at, created_at, transaction_id) keyset.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, householdID string, filter portsrepo.TransactionFilter, limit int, after *domain.TransactionCursor) ([]domain.Transaction, *domain.TransactionCursor, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE household_id = $1`
	args := []any{householdID}

	addArg := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.AccountID != "" {
		addArg(` AND (account_id = $%[1]d OR from_account_id = $%[1]d OR to_account_id = $%[1]d)`, filter.AccountID)
	}
	if filter.CategoryID != "" {
		addArg(` AND category_id = $%d`, filter.CategoryID)
	}
	if filter.Kind != "" {
		addArg(` AND kind = $%d`, filter.Kind)
	}
	if filter.From != nil {
		addArg(` AND occurred_at >= $%d`, *filter.From)
	}
	if filter.To != nil {
		addArg(` AND occurred_at <= $%d`, *filter.To)
	}
	if after != nil {
		args = append(args, after.OccurredAt, after.CreatedAt, after.TransactionID)
		query += fmt.Sprintf(` AND (occurred_at, created_at, transaction_id) < ($%d, $%d, $%d)`, len(args)-2, len(args)-1, len(args))
	}

	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY occurred_at DESC, created_at DESC, transaction_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions of household %s: %w", householdID, err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	// One extra row was fetched to know whether another page exists.
	var cursor *domain.TransactionCursor
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		cursor = &domain.TransactionCursor{
			OccurredAt:    last.OccurredAt,
			CreatedAt:     last.CreatedAt,
			TransactionID: last.TransactionID,
		}
	}
	return mapping.ToDomainTransactionSlice(ms), cursor, nil
}

// FindTransactionLink reports whether the transaction backs a goal
// contribution or an obligation payment.
func (r *PgxTransactionRepository) FindTransactionLink(ctx context.Context, transactionID string) (*domain.TransactionLink, error) {
	var goalID string
	err := r.Pool.QueryRow(ctx, `SELECT goal_id FROM goal_contributions WHERE transaction_id = $1;`, transactionID).Scan(&goalID)
	if err == nil {
		return &domain.TransactionLink{GoalID: &goalID}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check goal contribution link for transaction %s: %w", transactionID, err)
	}

	var obligationID string
	err = r.Pool.QueryRow(ctx, `SELECT obligation_id FROM obligation_payments WHERE transaction_id = $1;`, transactionID).Scan(&obligationID)
	if err == nil {
		return &domain.TransactionLink{ObligationID: &obligationID}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check obligation payment link for transaction %s: %w", transactionID, err)
	}
	return nil, apperrors.ErrNotFound
}

// UpdateTransaction updates mutable attributes and applies compensating
// balance deltas in one database transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET amount = $2, category_id = $3, occurred_at = $4, description = $5, counterparty = $6, last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1;
	`
	ct, err := tx.Exec(ctx, query,
		m.TransactionID, m.Amount, m.CategoryID, m.OccurredAt,
		m.Description, m.Counterparty, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, txn.LastUpdatedBy, txn.LastUpdatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTransaction removes a transaction, reverses its balance effect, and
// unwinds any goal contribution or obligation payment it backs, all in one
// database transaction. Progress objects re-open from COMPLETED when the
// reversal drops them under their target again; CANCELLED is terminal.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.unwindGoalContribution(ctx, tx, txn.TransactionID, userID, now); err != nil {
		return err
	}
	if err := r.unwindObligationPayment(ctx, tx, txn.TransactionID, userID, now); err != nil {
		return err
	}

	// Link rows cascade from this delete.
	ct, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, txn.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", txn.TransactionID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// unwindGoalContribution rolls back the progress a contribution backed by
// this transaction added to its goal, if any.
func (r *PgxTransactionRepository) unwindGoalContribution(ctx context.Context, tx pgx.Tx, transactionID string, userID string, now time.Time) error {
	var goalID string
	var amount decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT goal_id, amount FROM goal_contributions WHERE transaction_id = $1;`, transactionID).Scan(&goalID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check goal contribution for transaction %s: %w", transactionID, err)
	}

	query := `
		UPDATE goals
		SET current_amount = current_amount - $2,
		    status = CASE WHEN status = 'COMPLETED' AND current_amount - $2 < target_amount THEN 'ACTIVE' ELSE status END,
		    completed_at = CASE WHEN status = 'COMPLETED' AND current_amount - $2 < target_amount THEN NULL ELSE completed_at END,
		    last_updated_at = $3, last_updated_by = $4
		WHERE goal_id = $1;
	`
	if _, err := tx.Exec(ctx, query, goalID, amount, now, userID); err != nil {
		return fmt.Errorf("failed to unwind contribution on goal %s: %w", goalID, err)
	}
	return nil
}

// unwindObligationPayment restores the outstanding amount a payment backed by
// this transaction had reduced, if any.
func (r *PgxTransactionRepository) unwindObligationPayment(ctx context.Context, tx pgx.Tx, transactionID string, userID string, now time.Time) error {
	var obligationID string
	var amount decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT obligation_id, amount FROM obligation_payments WHERE transaction_id = $1;`, transactionID).Scan(&obligationID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check obligation payment for transaction %s: %w", transactionID, err)
	}

	query := `
		UPDATE obligations
		SET outstanding_amount = outstanding_amount + $2,
		    status = CASE WHEN status = 'COMPLETED' THEN 'ACTIVE' ELSE status END,
		    completed_at = CASE WHEN status = 'COMPLETED' THEN NULL ELSE completed_at END,
		    last_updated_at = $3, last_updated_by = $4
		WHERE obligation_id = $1;
	`
	if _, err := tx.Exec(ctx, query, obligationID, amount, now, userID); err != nil {
		return fmt.Errorf("failed to unwind payment on obligation %s: %w", obligationID, err)
	}
	return nil
}
