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

// obligationService implements the ObligationSvcFacade interface. Payments
// mirror goal contributions: each one is backed by an expense transaction
// written atomically with the outstanding-amount update.
type obligationService struct {
	BaseService
	obligationRepo  portsrepo.ObligationRepositoryFacade
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionReader
}

// ObligationServiceOption is a functional option for configuring the obligation service
type ObligationServiceOption func(*obligationService)

// WithObligationAuthorizer adds the household authorizer dependency
func WithObligationAuthorizer(authorizer portssvc.HouseholdAuthorizerSvc) ObligationServiceOption {
	return func(s *obligationService) {
		s.HouseholdAuthorizer = authorizer
	}
}

// NewObligationService creates a new obligation service with the provided options
func NewObligationService(obligationRepo portsrepo.ObligationRepositoryFacade, accountRepo portsrepo.AccountReader, transactionRepo portsrepo.TransactionReader, options ...ObligationServiceOption) portssvc.ObligationSvcFacade {
	svc := &obligationService{
		obligationRepo:  obligationRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ObligationSvcFacade = (*obligationService)(nil)

// CreateObligation persists a new obligation. Requires MEMBER. Outstanding
// starts equal to the total.
func (s *obligationService) CreateObligation(ctx context.Context, householdID string, req dto.CreateObligationRequest, userID string) (*domain.Obligation, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if req.IsRecurring && req.RecurrencePattern == nil {
		return nil, fmt.Errorf("%w: recurring obligations need a recurrence pattern", apperrors.ErrValidation)
	}

	now := time.Now()
	obligation := domain.Obligation{
		ObligationID:      uuid.NewString(),
		HouseholdID:       householdID,
		Name:              req.Name,
		TotalAmount:       req.TotalAmount,
		OutstandingAmount: req.TotalAmount,
		DueDate:           req.DueDate,
		Creditor:          req.Creditor,
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

	if err := s.obligationRepo.SaveObligation(ctx, obligation); err != nil {
		s.LogError(ctx, err, "Failed to save obligation in repository", slog.String("obligation_id", obligation.ObligationID))
		return nil, fmt.Errorf("failed to create obligation: %w", err)
	}

	s.LogInfo(ctx, "Obligation created successfully", slog.String("obligation_id", obligation.ObligationID), slog.String("household_id", householdID))
	return &obligation, nil
}

// GetObligationByID retrieves an obligation, checking household scope. Requires VIEWER.
func (s *obligationService) GetObligationByID(ctx context.Context, householdID string, obligationID string, userID string) (*domain.Obligation, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}
	return s.findHouseholdObligation(ctx, householdID, obligationID)
}

// ListObligations retrieves the obligations of a household. Requires VIEWER.
func (s *obligationService) ListObligations(ctx context.Context, householdID string, userID string, status *domain.ProgressStatus) ([]domain.Obligation, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	obligations, err := s.obligationRepo.ListObligations(ctx, householdID, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list obligations", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	if obligations == nil {
		return []domain.Obligation{}, nil
	}
	return obligations, nil
}

// UpdateObligation updates descriptive attributes. Requires MEMBER. Amounts
// are immutable here; only payments move them.
func (s *obligationService) UpdateObligation(ctx context.Context, householdID string, obligationID string, req dto.UpdateObligationRequest, userID string) (*domain.Obligation, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	obligation, err := s.findHouseholdObligation(ctx, householdID, obligationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		obligation.Name = *req.Name
	}
	if req.Creditor != nil {
		obligation.Creditor = *req.Creditor
	}
	if req.DueDate != nil {
		obligation.DueDate = req.DueDate
	}
	if req.Description != nil {
		obligation.Description = *req.Description
	}
	if req.Priority != nil {
		obligation.Priority = *req.Priority
	}
	if req.IsRecurring != nil {
		obligation.IsRecurring = *req.IsRecurring
	}
	if req.RecurrencePattern != nil {
		obligation.RecurrencePattern = req.RecurrencePattern
	}
	if obligation.IsRecurring && obligation.RecurrencePattern == nil {
		return nil, fmt.Errorf("%w: recurring obligations need a recurrence pattern", apperrors.ErrValidation)
	}
	obligation.LastUpdatedAt = time.Now()
	obligation.LastUpdatedBy = userID

	if err := s.obligationRepo.UpdateObligation(ctx, *obligation); err != nil {
		s.LogError(ctx, err, "Failed to update obligation in repository", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to update obligation: %w", err)
	}

	s.LogInfo(ctx, "Obligation updated successfully", slog.String("obligation_id", obligationID))
	return obligation, nil
}

// CancelObligation moves an active obligation to CANCELLED. Requires MEMBER.
// Terminal, like goal cancellation: payments are kept, the status never
// changes again.
func (s *obligationService) CancelObligation(ctx context.Context, householdID string, obligationID string, userID string) (*domain.Obligation, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	obligation, err := s.findHouseholdObligation(ctx, householdID, obligationID)
	if err != nil {
		return nil, err
	}

	if obligation.Status != domain.StatusActive {
		return nil, fmt.Errorf("%w: only active obligations can be cancelled, obligation is %s", apperrors.ErrConflict, obligation.Status)
	}

	obligation.Status = domain.StatusCancelled
	obligation.LastUpdatedAt = time.Now()
	obligation.LastUpdatedBy = userID

	if err := s.obligationRepo.UpdateObligation(ctx, *obligation); err != nil {
		s.LogError(ctx, err, "Failed to cancel obligation", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to cancel obligation: %w", err)
	}

	s.LogInfo(ctx, "Obligation cancelled", slog.String("obligation_id", obligationID))
	return obligation, nil
}

// DeleteObligation removes an obligation and its payment links. Requires
// ADMIN. Backing transactions survive as ordinary expenses.
func (s *obligationService) DeleteObligation(ctx context.Context, householdID string, obligationID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.findHouseholdObligation(ctx, householdID, obligationID); err != nil {
		return err
	}

	if err := s.obligationRepo.DeleteObligation(ctx, obligationID); err != nil {
		s.LogError(ctx, err, "Failed to delete obligation", slog.String("obligation_id", obligationID))
		return fmt.Errorf("failed to delete obligation: %w", err)
	}

	s.LogInfo(ctx, "Obligation deleted", slog.String("obligation_id", obligationID))
	return nil
}

// ListPayments retrieves the payments recorded against an obligation. Requires VIEWER.
func (s *obligationService) ListPayments(ctx context.Context, householdID string, obligationID string, userID string) ([]domain.ObligationPayment, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	if _, err := s.findHouseholdObligation(ctx, householdID, obligationID); err != nil {
		return nil, err
	}

	payments, err := s.obligationRepo.ListPayments(ctx, obligationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list obligation payments", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	if payments == nil {
		return []domain.ObligationPayment{}, nil
	}
	return payments, nil
}

// CreatePayment records a payment against an active obligation. Requires
// MEMBER. Paying more than the outstanding amount is rejected; reaching zero
// completes the obligation. All effects land in one database transaction.
// The status and overpay checks here are a fast fail; the repository
// re-applies them on the locked obligation row, which is what decides under
// concurrency.
func (s *obligationService) CreatePayment(ctx context.Context, householdID string, obligationID string, req dto.CreatePaymentRequest, userID string) (*domain.ObligationPayment, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	obligation, err := s.findHouseholdObligation(ctx, householdID, obligationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	check := *obligation
	if err := check.ApplyPayment(req.Amount, userID, now); err != nil {
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
		description = fmt.Sprintf("Payment towards %q", obligation.Name)
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
		Counterparty:  obligation.Creditor,
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

	payment := domain.ObligationPayment{
		PaymentID:     uuid.NewString(),
		ObligationID:  obligationID,
		TransactionID: txn.TransactionID,
		Amount:        req.Amount,
		CreatedAt:     now,
		CreatedBy:     userID,
	}

	if err := s.obligationRepo.SavePayment(ctx, payment, txn, changes); err != nil {
		s.LogError(ctx, err, "Failed to save obligation payment", slog.String("obligation_id", obligationID), slog.String("payment_id", payment.PaymentID))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.LogInfo(ctx, "Payment recorded", slog.String("obligation_id", obligationID), slog.String("payment_id", payment.PaymentID), slog.String("amount", req.Amount.String()))
	return &payment, nil
}

// DeletePayment unwinds a payment. Requires MEMBER. The backing transaction
// and its balance effect are reversed and the outstanding amount restored; a
// completed obligation re-opens. Cancelled obligations stay cancelled.
func (s *obligationService) DeletePayment(ctx context.Context, householdID string, obligationID string, paymentID string, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return err
	}

	if _, err := s.findHouseholdObligation(ctx, householdID, obligationID); err != nil {
		return err
	}

	payment, err := s.obligationRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.ObligationID != obligationID {
		return apperrors.ErrNotFound
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, payment.TransactionID)
	if err != nil {
		return err
	}

	reversal, err := txn.ReversalChanges()
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.obligationRepo.DeletePayment(ctx, *payment, *txn, reversal, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete obligation payment", slog.String("obligation_id", obligationID), slog.String("payment_id", paymentID))
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	s.LogInfo(ctx, "Payment deleted", slog.String("obligation_id", obligationID), slog.String("payment_id", paymentID))
	return nil
}

// RenewObligation starts the next cycle of a recurring obligation. Requires
// MEMBER. Only a completed recurring obligation renews: a fresh obligation is
// created with the full amount outstanding and the due date advanced by the
// recurrence pattern. The completed instance is left untouched as history.
func (s *obligationService) RenewObligation(ctx context.Context, householdID string, obligationID string, userID string) (*domain.Obligation, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleMember); err != nil {
		return nil, err
	}

	obligation, err := s.findHouseholdObligation(ctx, householdID, obligationID)
	if err != nil {
		return nil, err
	}

	next, err := obligation.NextCycle(uuid.NewString(), userID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.obligationRepo.SaveObligation(ctx, next); err != nil {
		s.LogError(ctx, err, "Failed to save renewed obligation", slog.String("obligation_id", obligationID), slog.String("new_obligation_id", next.ObligationID))
		return nil, fmt.Errorf("failed to renew obligation: %w", err)
	}

	s.LogInfo(ctx, "Obligation renewed", slog.String("obligation_id", obligationID), slog.String("new_obligation_id", next.ObligationID))
	return &next, nil
}

// findHouseholdObligation loads an obligation and enforces household scope.
func (s *obligationService) findHouseholdObligation(ctx context.Context, householdID string, obligationID string) (*domain.Obligation, error) {
	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find obligation by ID", slog.String("obligation_id", obligationID))
		}
		return nil, err
	}
	if obligation.HouseholdID != householdID {
		return nil, apperrors.ErrNotFound
	}
	return obligation, nil
}
