package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountAuthorizer adds the household authorizer dependency
func WithAccountAuthorizer(authorizer portssvc.HouseholdAuthorizerSvc) AccountServiceOption {
	return func(s *accountService) {
		s.HouseholdAuthorizer = authorizer
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account. Requires MEMBER.
func (s *accountService) CreateAccount(ctx context.Context, householdID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.Balance.IsNegative() && req.AccountType != domain.AccountCredit {
		return nil, fmt.Errorf("%w: opening balance cannot be negative for a %s account", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		HouseholdID:  householdID,
		Name:         req.Name,
		AccountType:  req.AccountType,
		CurrencyCode: req.CurrencyCode,
		Balance:      req.Balance,
		Description:  req.Description,
		IsArchived:   false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created successfully", slog.String("account_id", account.AccountID), slog.String("household_id", householdID))
	return &account, nil
}

// GetAccountByID retrieves an account, checking household scope. Requires VIEWER.
func (s *accountService) GetAccountByID(ctx context.Context, householdID string, accountID string, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves the accounts of a household. Requires VIEWER.
func (s *accountService) ListAccounts(ctx context.Context, householdID string, userID string, includeArchived bool) ([]domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, householdID, includeArchived)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount updates name, description or archive state. Requires MEMBER.
// Balances never change here; they only move through transactions.
func (s *accountService) UpdateAccount(ctx context.Context, householdID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsArchived != nil {
		account.IsArchived = *req.IsArchived
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account in repository", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes an account. Requires ADMIN. Accounts that still hold
// a balance or transactions are protected; archive them instead.
func (s *accountService) DeleteAccount(ctx context.Context, householdID string, accountID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleAdmin); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.HouseholdID != householdID {
		return apperrors.ErrNotFound
	}

	if !account.Balance.Equal(decimal.Zero) {
		return fmt.Errorf("%w: account still holds a balance, archive it instead", apperrors.ErrConflict)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: account has recorded transactions, archive it instead", apperrors.ErrConflict)
		}
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
