package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	Kind       string
	From       *time.Time
	To         *time.Time
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered page of a household's transactions,
	// newest first by (occurred_at, created_at). The returned cursor marks the
	// last row of the page and is empty when the listing is exhausted.
	ListTransactions(ctx context.Context, householdID string, filter TransactionFilter, limit int, after *domain.TransactionCursor) ([]domain.Transaction, *domain.TransactionCursor, error)

	// FindTransactionLink reports which goal contribution or obligation
	// payment, if any, the transaction backs.
	FindTransactionLink(ctx context.Context, transactionID string) (*domain.TransactionLink, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction inserts the transaction and applies its balance changes
	// to the affected accounts in a single database transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// SaveTransactionInTx inserts the transaction row within an existing
	// database transaction without touching balances.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransaction updates mutable attributes of a transaction and applies
	// the compensating balance deltas in a single database transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// DeleteTransaction removes the transaction, reverses its balance effect,
	// and unwinds any goal contribution or obligation payment it backs, all in
	// a single database transaction.
	DeleteTransaction(ctx context.Context, txn domain.Transaction, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionManager
}
