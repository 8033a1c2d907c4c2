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

const obligationColumns = `obligation_id, household_id, name, total_amount, outstanding_amount, due_date, creditor, description, priority, status, completed_at, is_recurring, recurrence_pattern, created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, obligation_id, transaction_id, amount, created_at, created_by`

// PgxObligationRepository persists debt obligations and their payments. A
// payment and the expense transaction backing it commit in one database
// transaction, keeping the outstanding amount in step with the books.
type PgxObligationRepository struct {
	BaseRepository
	accountRepo     portsrepo.AccountBalanceSupport
	transactionRepo portsrepo.TransactionRepositoryFacade
}

func newPgxObligationRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountBalanceSupport, transactionRepo portsrepo.TransactionRepositoryFacade) portsrepo.ObligationRepositoryFacade {
	return &PgxObligationRepository{
		BaseRepository:  BaseRepository{Pool: pool},
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portsrepo.ObligationRepositoryFacade = (*PgxObligationRepository)(nil)

func scanObligation(row pgx.Row) (*models.Obligation, error) {
	var m models.Obligation
	err := row.Scan(
		&m.ObligationID, &m.HouseholdID, &m.Name, &m.TotalAmount, &m.OutstandingAmount,
		&m.DueDate, &m.Creditor, &m.Description, &m.Priority, &m.Status, &m.CompletedAt,
		&m.IsRecurring, &m.RecurrencePattern,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveObligation persists a new obligation.
func (r *PgxObligationRepository) SaveObligation(ctx context.Context, obligation domain.Obligation) error {
	m := mapping.ToModelObligation(obligation)
	query := `
		INSERT INTO obligations (` + obligationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ObligationID, m.HouseholdID, m.Name, m.TotalAmount, m.OutstandingAmount,
		m.DueDate, m.Creditor, m.Description, m.Priority, m.Status, m.CompletedAt,
		m.IsRecurring, m.RecurrencePattern,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: obligation %s already exists", apperrors.ErrDuplicate, m.ObligationID)
		}
		return fmt.Errorf("failed to insert obligation %s: %w", m.ObligationID, err)
	}
	return nil
}

// FindObligationByID retrieves an obligation by its ID.
func (r *PgxObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE obligation_id = $1;`
	m, err := scanObligation(r.Pool.QueryRow(ctx, query, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find obligation %s: %w", obligationID, err)
	}
	o := mapping.ToDomainObligation(*m)
	return &o, nil
}

// ListObligations retrieves the obligations of a household, optionally
// filtered by status.
func (r *PgxObligationRepository) ListObligations(ctx context.Context, householdID string, status *domain.ProgressStatus) ([]domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE household_id = $1`
	args := []any{householdID}
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations of household %s: %w", householdID, err)
	}
	defer rows.Close()

	var ms []models.Obligation
	for rows.Next() {
		m, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating obligation rows: %w", err)
	}
	return mapping.ToDomainObligationSlice(ms), nil
}

// UpdateObligation updates an existing obligation's details, outstanding
// amount and status included.
func (r *PgxObligationRepository) UpdateObligation(ctx context.Context, obligation domain.Obligation) error {
	m := mapping.ToModelObligation(obligation)
	query := `
		UPDATE obligations
		SET name = $2, total_amount = $3, outstanding_amount = $4, due_date = $5,
		    creditor = $6, description = $7, priority = $8, status = $9, completed_at = $10,
		    is_recurring = $11, recurrence_pattern = $12,
		    last_updated_at = $13, last_updated_by = $14
		WHERE obligation_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query,
		m.ObligationID, m.Name, m.TotalAmount, m.OutstandingAmount, m.DueDate,
		m.Creditor, m.Description, m.Priority, m.Status, m.CompletedAt,
		m.IsRecurring, m.RecurrencePattern,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update obligation %s: %w", m.ObligationID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteObligation removes an obligation. Payment links cascade; the backing
// transactions stay on the books.
func (r *PgxObligationRepository) DeleteObligation(ctx context.Context, obligationID string) error {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM obligations WHERE obligation_id = $1;`, obligationID)
	if err != nil {
		return fmt.Errorf("failed to delete obligation %s: %w", obligationID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPaymentByID retrieves a payment by its ID.
func (r *PgxObligationRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.ObligationPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM obligation_payments WHERE payment_id = $1;`
	var m models.ObligationPayment
	err := r.Pool.QueryRow(ctx, query, paymentID).Scan(
		&m.PaymentID, &m.ObligationID, &m.TransactionID, &m.Amount, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	p := mapping.ToDomainObligationPayment(m)
	return &p, nil
}

// ListPayments retrieves an obligation's payments, newest first.
func (r *PgxObligationRepository) ListPayments(ctx context.Context, obligationID string) ([]domain.ObligationPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM obligation_payments WHERE obligation_id = $1 ORDER BY created_at DESC, payment_id DESC;`
	rows, err := r.Pool.Query(ctx, query, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of obligation %s: %w", obligationID, err)
	}
	defer rows.Close()

	var ms []models.ObligationPayment
	for rows.Next() {
		var m models.ObligationPayment
		if err := rows.Scan(&m.PaymentID, &m.ObligationID, &m.TransactionID, &m.Amount, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return mapping.ToDomainObligationPaymentSlice(ms), nil
}

// SavePayment records a payment atomically: the backing expense transaction,
// the account balance change, the payment link, and the obligation's reduced
// outstanding amount all commit or none do. The obligation row is locked and
// recomputed inside the transaction, so concurrent payments serialize and the
// overpay check holds under contention.
func (r *PgxObligationRepository) SavePayment(ctx context.Context, payment domain.ObligationPayment, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.transactionRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return err
	}
	// Accounts are always locked before the obligation row to keep lock
	// ordering consistent with DeletePayment.
	if err := r.applyBalanceChangesInTx(ctx, tx, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	m := mapping.ToModelObligationPayment(payment)
	query := `
		INSERT INTO obligation_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := tx.Exec(ctx, query, m.PaymentID, m.ObligationID, m.TransactionID, m.Amount, m.CreatedAt, m.CreatedBy); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to insert payment %s: %w", m.PaymentID, err)
	}

	obligation, err := r.findObligationForUpdate(ctx, tx, payment.ObligationID)
	if err != nil {
		return err
	}
	if err := obligation.ApplyPayment(payment.Amount, payment.CreatedBy, payment.CreatedAt); err != nil {
		return err
	}
	if err := r.updateObligationInTx(ctx, tx, *obligation); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeletePayment reverses a payment atomically: the link and the backing
// transaction are removed, the balance change is undone, and the obligation's
// outstanding amount is restored under the same row lock payments take.
func (r *PgxObligationRepository) DeletePayment(ctx context.Context, payment domain.ObligationPayment, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, deletedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	ct, err := tx.Exec(ctx, `DELETE FROM obligation_payments WHERE payment_id = $1;`, payment.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %s: %w", payment.PaymentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return fmt.Errorf("failed to delete transaction %s backing payment %s: %w", txn.TransactionID, payment.PaymentID, err)
	}

	if err := r.applyBalanceChangesInTx(ctx, tx, balanceChanges, deletedBy, now); err != nil {
		return err
	}

	obligation, err := r.findObligationForUpdate(ctx, tx, payment.ObligationID)
	if err != nil {
		return err
	}
	obligation.UnapplyPayment(payment.Amount, deletedBy, now)
	if err := r.updateObligationInTx(ctx, tx, *obligation); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// findObligationForUpdate reads an obligation inside tx with a row lock held
// until commit.
func (r *PgxObligationRepository) findObligationForUpdate(ctx context.Context, tx pgx.Tx, obligationID string) (*domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE obligation_id = $1 FOR UPDATE;`
	m, err := scanObligation(tx.QueryRow(ctx, query, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock obligation %s: %w", obligationID, err)
	}
	o := mapping.ToDomainObligation(*m)
	return &o, nil
}

func (r *PgxObligationRepository) applyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
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

func (r *PgxObligationRepository) updateObligationInTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation) error {
	m := mapping.ToModelObligation(obligation)
	query := `
		UPDATE obligations
		SET outstanding_amount = $2, status = $3, completed_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE obligation_id = $1;
	`
	ct, err := tx.Exec(ctx, query, m.ObligationID, m.OutstandingAmount, m.Status, m.CompletedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update obligation %s: %w", m.ObligationID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
