package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Obligation is the obligations table row.
type Obligation struct {
	ObligationID      string          `db:"obligation_id"`
	HouseholdID       string          `db:"household_id"`
	Name              string          `db:"name"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	OutstandingAmount decimal.Decimal `db:"outstanding_amount"`
	DueDate           *time.Time      `db:"due_date"`
	Creditor          string          `db:"creditor"`
	Description       string          `db:"description"`
	Priority          string          `db:"priority"`
	Status            string          `db:"status"`
	CompletedAt       *time.Time      `db:"completed_at"`
	IsRecurring       bool            `db:"is_recurring"`
	RecurrencePattern *string         `db:"recurrence_pattern"`
	AuditFields
}

// ObligationPayment is the obligation_payments table row.
type ObligationPayment struct {
	PaymentID     string          `db:"payment_id"`
	ObligationID  string          `db:"obligation_id"`
	TransactionID string          `db:"transaction_id"`
	Amount        decimal.Decimal `db:"amount"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
