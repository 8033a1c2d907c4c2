package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
)

// Obligation is a household debt to pay down.
//
// Invariant: OutstandingAmount equals TotalAmount minus the sum of its
// payments' amounts. The transition to COMPLETED happens when
// OutstandingAmount reaches zero.
type Obligation struct {
	ObligationID      string             `json:"obligationID"` // Primary Key (UUID)
	HouseholdID       string             `json:"householdID"`
	Name              string             `json:"name"`
	TotalAmount       decimal.Decimal    `json:"totalAmount"`
	OutstandingAmount decimal.Decimal    `json:"outstandingAmount"`
	DueDate           *time.Time         `json:"dueDate"`
	Creditor          string             `json:"creditor"`
	Description       string             `json:"description"`
	Priority          Priority           `json:"priority"`
	Status            ProgressStatus     `json:"status"`
	CompletedAt       *time.Time         `json:"completedAt"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurrencePattern *RecurrencePattern `json:"recurrencePattern"`
	AuditFields
}

// ApplyPayment reduces the outstanding amount. Reaching zero completes the
// obligation. Only active obligations accept payments, and a payment can
// never exceed what is outstanding.
//
// The persistence layer calls this on a row-locked copy so that concurrent
// payments serialize; the overpay check holds even under races.
func (o *Obligation) ApplyPayment(amount decimal.Decimal, userID string, now time.Time) error {
	if o.Status != StatusActive {
		return fmt.Errorf("%w: obligation is %s, payments require an active obligation", apperrors.ErrConflict, o.Status)
	}
	if amount.GreaterThan(o.OutstandingAmount) {
		return fmt.Errorf("%w: payment of %s exceeds outstanding amount %s", apperrors.ErrValidation, amount, o.OutstandingAmount)
	}
	o.OutstandingAmount = o.OutstandingAmount.Sub(amount)
	if o.OutstandingAmount.IsZero() {
		o.Status = StatusCompleted
		o.CompletedAt = &now
	}
	o.LastUpdatedAt = now
	o.LastUpdatedBy = userID
	return nil
}

// UnapplyPayment restores the outstanding amount. A completed obligation
// re-opens; a cancelled obligation stays cancelled.
func (o *Obligation) UnapplyPayment(amount decimal.Decimal, userID string, now time.Time) {
	o.OutstandingAmount = o.OutstandingAmount.Add(amount)
	if o.Status == StatusCompleted && o.OutstandingAmount.GreaterThan(decimal.Zero) {
		o.Status = StatusActive
		o.CompletedAt = nil
	}
	o.LastUpdatedAt = now
	o.LastUpdatedBy = userID
}

// NextCycle builds the next instance of a recurring obligation: the full
// amount outstanding again, due date advanced by one recurrence period from
// the completion date. The obligation must be recurring and completed.
func (o Obligation) NextCycle(newID string, userID string, now time.Time) (Obligation, error) {
	if !o.IsRecurring || o.RecurrencePattern == nil {
		return Obligation{}, fmt.Errorf("%w: obligation %s is not recurring", apperrors.ErrValidation, o.ObligationID)
	}
	if o.Status != StatusCompleted {
		return Obligation{}, fmt.Errorf("%w: only completed obligations renew, obligation is %s", apperrors.ErrConflict, o.Status)
	}

	base := now
	if o.CompletedAt != nil {
		base = *o.CompletedAt
	} else if o.DueDate != nil {
		base = *o.DueDate
	}
	next, err := o.RecurrencePattern.NextOccurrence(base)
	if err != nil {
		return Obligation{}, err
	}

	fresh := o
	fresh.ObligationID = newID
	fresh.OutstandingAmount = o.TotalAmount
	fresh.DueDate = &next
	fresh.Status = StatusActive
	fresh.CompletedAt = nil
	fresh.AuditFields = AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	return fresh, nil
}

// ObligationPayment links an obligation to the single expense transaction
// that paid part of it down. Analogous to GoalContribution.
type ObligationPayment struct {
	PaymentID     string          `json:"paymentID"` // Primary Key (UUID)
	ObligationID  string          `json:"obligationID"`
	TransactionID string          `json:"transactionID"` // unique
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}
