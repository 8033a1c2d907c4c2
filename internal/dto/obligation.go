package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// CreateObligationRequest defines the data needed to track a debt obligation.
type CreateObligationRequest struct {
	Name              string                    `json:"name" binding:"required,max=100"`
	TotalAmount       decimal.Decimal           `json:"totalAmount" binding:"required,positivedecimal"`
	Creditor          string                    `json:"creditor" binding:"max=200"`
	DueDate           *time.Time                `json:"dueDate"`
	Description       string                    `json:"description" binding:"max=500"`
	Priority          domain.Priority           `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurrencePattern *domain.RecurrencePattern `json:"recurrencePattern" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
}

// UpdateObligationRequest defines the mutable attributes of an obligation.
type UpdateObligationRequest struct {
	Name              *string                   `json:"name" binding:"omitempty,min=1,max=100"`
	Creditor          *string                   `json:"creditor" binding:"omitempty,max=200"`
	DueDate           *time.Time                `json:"dueDate"`
	Description       *string                   `json:"description" binding:"omitempty,max=500"`
	Priority          *domain.Priority          `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	IsRecurring       *bool                     `json:"isRecurring"`
	RecurrencePattern *domain.RecurrencePattern `json:"recurrencePattern" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY YEARLY"`
}

// ObligationResponse defines the data returned for a debt obligation.
type ObligationResponse struct {
	ObligationID      string                    `json:"obligationID"`
	HouseholdID       string                    `json:"householdID"`
	Name              string                    `json:"name"`
	TotalAmount       decimal.Decimal           `json:"totalAmount"`
	OutstandingAmount decimal.Decimal           `json:"outstandingAmount"`
	Creditor          string                    `json:"creditor"`
	DueDate           *time.Time                `json:"dueDate,omitempty"`
	Description       string                    `json:"description"`
	Priority          domain.Priority           `json:"priority"`
	Status            domain.ProgressStatus     `json:"status"`
	CompletedAt       *time.Time                `json:"completedAt,omitempty"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurrencePattern *domain.RecurrencePattern `json:"recurrencePattern,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

// ToObligationResponse converts a domain.Obligation to ObligationResponse.
func ToObligationResponse(o *domain.Obligation) ObligationResponse {
	return ObligationResponse{
		ObligationID:      o.ObligationID,
		HouseholdID:       o.HouseholdID,
		Name:              o.Name,
		TotalAmount:       o.TotalAmount,
		OutstandingAmount: o.OutstandingAmount,
		Creditor:          o.Creditor,
		DueDate:           o.DueDate,
		Description:       o.Description,
		Priority:          o.Priority,
		Status:            o.Status,
		CompletedAt:       o.CompletedAt,
		IsRecurring:       o.IsRecurring,
		RecurrencePattern: o.RecurrencePattern,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.LastUpdatedAt,
	}
}

// ListObligationsResponse wraps the obligations of a household.
type ListObligationsResponse struct {
	Obligations []ObligationResponse `json:"obligations"`
}

// CreatePaymentRequest defines the data needed to pay down an obligation.
// The payment is backed by an expense transaction on the given account.
type CreatePaymentRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,positivedecimal"`
	OccurredAt  time.Time       `json:"occurredAt" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// PaymentResponse defines the data returned for an obligation payment.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	ObligationID  string          `json:"obligationID"`
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ToPaymentResponse converts a domain.ObligationPayment to PaymentResponse.
func ToPaymentResponse(p *domain.ObligationPayment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		ObligationID:  p.ObligationID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

// ListPaymentsResponse wraps the payments recorded against an obligation.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}
