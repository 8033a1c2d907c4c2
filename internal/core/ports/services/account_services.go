package services

import (
	"context"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, householdID string, accountID string, userID string) (*domain.Account, error)

	// ListAccounts retrieves the accounts of a household.
	ListAccounts(ctx context.Context, householdID string, userID string, includeArchived bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, householdID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, householdID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account that has no transactions.
	DeleteAccount(ctx context.Context, householdID string, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
