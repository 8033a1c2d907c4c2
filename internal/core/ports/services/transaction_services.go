package services

import (
	"context"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction data
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction by its unique identifier.
	GetTransactionByID(ctx context.Context, householdID string, transactionID string, userID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, cursor-paginated page of a
	// household's transactions, newest first.
	ListTransactions(ctx context.Context, householdID string, userID string, req dto.ListTransactionsRequest) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for transaction data
type TransactionWriterSvc interface {
	// CreateTransaction records a transaction and atomically applies its
	// balance effect to the affected accounts.
	CreateTransaction(ctx context.Context, householdID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// UpdateTransaction updates mutable attributes of a transaction, applying
	// compensating balance deltas when the amount changes.
	UpdateTransaction(ctx context.Context, householdID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction, reverses its balance effect,
	// and unwinds any goal contribution or obligation payment it backs.
	DeleteTransaction(ctx context.Context, householdID string, transactionID string, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
