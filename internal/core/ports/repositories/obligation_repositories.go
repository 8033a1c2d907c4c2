package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// ObligationReader defines read operations for debt obligation data
type ObligationReader interface {
	// FindObligationByID retrieves a specific obligation by its unique identifier.
	FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error)

	// ListObligations retrieves the obligations of a household, optionally filtered by status.
	ListObligations(ctx context.Context, householdID string, status *domain.ProgressStatus) ([]domain.Obligation, error)

	// FindPaymentByID retrieves a specific payment by its unique identifier.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.ObligationPayment, error)

	// ListPayments retrieves the payments recorded against an obligation, newest first.
	ListPayments(ctx context.Context, obligationID string) ([]domain.ObligationPayment, error)
}

// ObligationWriter defines write operations for debt obligation data
type ObligationWriter interface {
	// SaveObligation persists a new obligation.
	SaveObligation(ctx context.Context, obligation domain.Obligation) error

	// UpdateObligation updates an existing obligation's details.
	UpdateObligation(ctx context.Context, obligation domain.Obligation) error

	// DeleteObligation removes an obligation and, via cascade, its payment links.
	DeleteObligation(ctx context.Context, obligationID string) error
}

// PaymentWriter defines the atomic payment operations
type PaymentWriter interface {
	// SavePayment inserts the backing expense transaction, applies its balance
	// changes, records the payment link, and reduces the obligation's
	// outstanding amount, all in a single database transaction. The
	// obligation row is locked and the amount recomputed under the lock, so
	// concurrent payments serialize and the overpay check holds under races.
	SavePayment(ctx context.Context, payment domain.ObligationPayment, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// DeletePayment removes the payment link, deletes the backing transaction,
	// reverses its balance effect, and restores the obligation's outstanding
	// amount under a row lock, all in a single database transaction.
	DeletePayment(ctx context.Context, payment domain.ObligationPayment, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, deletedBy string, now time.Time) error
}

// ObligationRepositoryFacade combines all obligation-related repository interfaces
type ObligationRepositoryFacade interface {
	ObligationReader
	ObligationWriter
	PaymentWriter
}
