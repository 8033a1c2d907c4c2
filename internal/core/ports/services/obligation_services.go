package services

import (
	"context"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// ObligationReaderSvc defines read operations for debt obligation data
type ObligationReaderSvc interface {
	// GetObligationByID retrieves a specific obligation by its unique identifier.
	GetObligationByID(ctx context.Context, householdID string, obligationID string, userID string) (*domain.Obligation, error)

	// ListObligations retrieves the obligations of a household, optionally filtered by status.
	ListObligations(ctx context.Context, householdID string, userID string, status *domain.ProgressStatus) ([]domain.Obligation, error)

	// ListPayments retrieves the payments recorded against an obligation.
	ListPayments(ctx context.Context, householdID string, obligationID string, userID string) ([]domain.ObligationPayment, error)
}

// ObligationWriterSvc defines write operations for debt obligation data
type ObligationWriterSvc interface {
	// CreateObligation persists a new obligation with outstanding = total.
	CreateObligation(ctx context.Context, householdID string, req dto.CreateObligationRequest, userID string) (*domain.Obligation, error)

	// UpdateObligation updates an existing obligation's details.
	UpdateObligation(ctx context.Context, householdID string, obligationID string, req dto.UpdateObligationRequest, userID string) (*domain.Obligation, error)

	// CancelObligation moves an active obligation to CANCELLED.
	CancelObligation(ctx context.Context, householdID string, obligationID string, userID string) (*domain.Obligation, error)

	// DeleteObligation removes an obligation and its payment links. Backing
	// transactions remain as ordinary expenses.
	DeleteObligation(ctx context.Context, householdID string, obligationID string, userID string) error

	// RenewObligation creates the next cycle of a completed recurring
	// obligation with the full amount outstanding and the due date advanced
	// by the recurrence pattern.
	RenewObligation(ctx context.Context, householdID string, obligationID string, userID string) (*domain.Obligation, error)
}

// PaymentSvc defines the payment operations
type PaymentSvc interface {
	// CreatePayment records a payment backed by an expense transaction,
	// reducing the obligation's outstanding amount atomically. Paying more
	// than the outstanding amount is rejected.
	CreatePayment(ctx context.Context, householdID string, obligationID string, req dto.CreatePaymentRequest, userID string) (*domain.ObligationPayment, error)

	// DeletePayment unwinds a payment: the backing transaction and its balance
	// effect are reversed and the outstanding amount restored.
	DeletePayment(ctx context.Context, householdID string, obligationID string, paymentID string, userID string) error
}

// ObligationSvcFacade combines all obligation-related service interfaces
type ObligationSvcFacade interface {
	ObligationReaderSvc
	ObligationWriterSvc
	PaymentSvc
}
