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
	"github.com/hearthkeep/household_ledger_app/internal/utils/pagination"
)

const defaultTransactionPageSize = 50

// transactionService implements the TransactionSvcFacade interface. It owns
// the balance engine: every write derives per-account deltas from the
// transaction's kind and hands them to the repository for atomic persistence.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	categoryRepo    portsrepo.CategoryReader
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionAuthorizer adds the household authorizer dependency
func WithTransactionAuthorizer(authorizer portssvc.HouseholdAuthorizerSvc) TransactionServiceOption {
	return func(s *transactionService) {
		s.HouseholdAuthorizer = authorizer
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, categoryRepo portsrepo.CategoryReader, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction records a transaction and atomically applies its balance
// effect. Requires MEMBER.
func (s *transactionService) CreateTransaction(ctx context.Context, householdID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		HouseholdID:   householdID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		AccountID:     req.AccountID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		CategoryID:    req.CategoryID,
		OccurredAt:    req.OccurredAt,
		Description:   req.Description,
		Counterparty:  req.Counterparty,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := txn.ValidateShape(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.validateAccounts(ctx, txn); err != nil {
		return nil, err
	}
	if err := s.validateCategory(ctx, txn); err != nil {
		return nil, err
	}

	changes, err := txn.BalanceChanges()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction recorded", slog.String("transaction_id", txn.TransactionID), slog.String("kind", string(txn.Kind)), slog.String("amount", txn.Amount.String()))
	return &txn, nil
}

// GetTransactionByID retrieves a transaction, checking household scope. Requires VIEWER.
func (s *transactionService) GetTransactionByID(ctx context.Context, householdID string, transactionID string, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction by ID", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

// ListTransactions retrieves a filtered, cursor-paginated page. Requires VIEWER.
func (s *transactionService) ListTransactions(ctx context.Context, householdID string, userID string, req dto.ListTransactionsRequest) (*dto.ListTransactionsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	var after *domain.TransactionCursor
	if req.NextToken != "" {
		occurredAt, createdAt, id, err := pagination.DecodeToken(req.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		after = &domain.TransactionCursor{OccurredAt: occurredAt, CreatedAt: createdAt, TransactionID: id}
	}

	filter := portsrepo.TransactionFilter{
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Kind:       req.Kind,
		From:       req.From,
		To:         req.To,
	}

	txns, cursor, err := s.transactionRepo.ListTransactions(ctx, householdID, filter, limit, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(txns)),
	}
	for i := range txns {
		resp.Transactions = append(resp.Transactions, dto.ToTransactionResponse(&txns[i]))
	}
	if cursor != nil {
		resp.NextToken = pagination.EncodeToken(cursor.OccurredAt, cursor.CreatedAt, cursor.TransactionID)
	}
	return resp, nil
}

// UpdateTransaction updates mutable attributes. Requires MEMBER. Kind and
// account references are immutable; an amount change re-derives the balance
// effect as reversal of the old amount plus application of the new one.
// Transactions backing a goal contribution or obligation payment refuse
// amount changes; their numbers are managed through the owning object.
func (s *transactionService) UpdateTransaction(ctx context.Context, householdID string, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	existing, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if existing.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}

	amountChanged := req.Amount != nil && !req.Amount.Equal(existing.Amount)
	if amountChanged {
		link, err := s.transactionRepo.FindTransactionLink(ctx, transactionID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check transaction links: %w", err)
		}
		if link != nil {
			return nil, fmt.Errorf("%w: transaction backs a goal contribution or obligation payment, adjust it through its parent", apperrors.ErrConflict)
		}
	}

	updated := *existing
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.CategoryID != nil {
		updated.CategoryID = req.CategoryID
	}
	if req.OccurredAt != nil {
		updated.OccurredAt = *req.OccurredAt
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Counterparty != nil {
		updated.Counterparty = *req.Counterparty
	}
	updated.LastUpdatedAt = time.Now()
	updated.LastUpdatedBy = userID

	if err := updated.ValidateShape(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	if err := s.validateCategory(ctx, updated); err != nil {
		return nil, err
	}

	// Net effect of replacing the old amount with the new one.
	changes := map[string]decimal.Decimal{}
	if amountChanged {
		reversal, err := existing.ReversalChanges()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		applied, err := updated.BalanceChanges()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		for accountID, delta := range reversal {
			changes[accountID] = delta
		}
		for accountID, delta := range applied {
			changes[accountID] = changes[accountID].Add(delta)
		}
	}

	if err := s.transactionRepo.UpdateTransaction(ctx, updated, changes); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID), slog.Bool("amount_changed", amountChanged))
	return &updated, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
// Requires MEMBER. If the transaction backs a goal contribution or obligation
// payment, the repository unwinds that progress in the same database
// transaction.
func (s *transactionService) DeleteTransaction(ctx context.Context, householdID string, transactionID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return err
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.HouseholdID != householdID {
		return apperrors.ErrNotFound
	}

	reversal, err := txn.ReversalChanges()
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.transactionRepo.DeleteTransaction(ctx, *txn, reversal, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// validateAccounts checks every referenced account exists, belongs to the
// household, and is not archived. Transfers additionally require matching
// currencies on both sides.
func (s *transactionService) validateAccounts(ctx context.Context, txn domain.Transaction) error {
	ids := txn.AccountIDs()
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrNotFound, id)
		}
		if account.HouseholdID != txn.HouseholdID {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrNotFound, id)
		}
		if account.IsArchived {
			return fmt.Errorf("%w: account %s is archived", apperrors.ErrValidation, id)
		}
	}

	if txn.Kind == domain.KindTransfer {
		from := accounts[*txn.FromAccountID]
		to := accounts[*txn.ToAccountID]
		if from.CurrencyCode != to.CurrencyCode {
			return fmt.Errorf("%w: transfer between %s and %s accounts is not supported", apperrors.ErrValidation, from.CurrencyCode, to.CurrencyCode)
		}
	}
	return nil
}

// validateCategory checks the referenced category exists in the household and
// its kind matches the transaction's kind.
func (s *transactionService) validateCategory(ctx context.Context, txn domain.Transaction) error {
	if txn.CategoryID == nil {
		return nil
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, *txn.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %s not found", apperrors.ErrNotFound, *txn.CategoryID)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	if category.HouseholdID != txn.HouseholdID {
		return fmt.Errorf("%w: category %s not found", apperrors.ErrNotFound, *txn.CategoryID)
	}

	switch txn.Kind {
	case domain.KindIncome:
		if category.Kind != domain.CategoryIncome {
			return fmt.Errorf("%w: category %q tags expenses, not income", apperrors.ErrValidation, category.Name)
		}
	case domain.KindExpense:
		if category.Kind != domain.CategoryExpense {
			return fmt.Errorf("%w: category %q tags income, not expenses", apperrors.ErrValidation, category.Name)
		}
	}
	return nil
}
