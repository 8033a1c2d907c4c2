package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// Income and expense set accountID, transfers set fromAccountID/toAccountID.
type CreateTransactionRequest struct {
	Kind          domain.TransactionKind `json:"kind" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount        decimal.Decimal        `json:"amount" binding:"required,positivedecimal"`
	AccountID     *string                `json:"accountID"`
	FromAccountID *string                `json:"fromAccountID"`
	ToAccountID   *string                `json:"toAccountID"`
	CategoryID    *string                `json:"categoryID"`
	OccurredAt    time.Time              `json:"occurredAt" binding:"required"`
	Description   string                 `json:"description" binding:"max=500"`
	Counterparty  string                 `json:"counterparty" binding:"max=200"`
}

// UpdateTransactionRequest defines the mutable attributes of a transaction.
// Kind and account references are immutable; changing the amount re-derives
// the balance effect.
type UpdateTransactionRequest struct {
	Amount       *decimal.Decimal `json:"amount" binding:"omitempty,positivedecimal"`
	CategoryID   *string          `json:"categoryID"`
	OccurredAt   *time.Time       `json:"occurredAt"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	Counterparty *string          `json:"counterparty" binding:"omitempty,max=200"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	HouseholdID   string                 `json:"householdID"`
	Kind          domain.TransactionKind `json:"kind"`
	Amount        decimal.Decimal        `json:"amount"`
	AccountID     *string                `json:"accountID,omitempty"`
	FromAccountID *string                `json:"fromAccountID,omitempty"`
	ToAccountID   *string                `json:"toAccountID,omitempty"`
	CategoryID    *string                `json:"categoryID,omitempty"`
	OccurredAt    time.Time              `json:"occurredAt"`
	Description   string                 `json:"description"`
	Counterparty  string                 `json:"counterparty"`
	CreatedAt     time.Time              `json:"createdAt"`
	CreatedBy     string                 `json:"createdBy"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		HouseholdID:   t.HouseholdID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		AccountID:     t.AccountID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		CategoryID:    t.CategoryID,
		OccurredAt:    t.OccurredAt,
		Description:   t.Description,
		Counterparty:  t.Counterparty,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		UpdatedAt:     t.LastUpdatedAt,
	}
}

// ListTransactionsRequest captures list filters bound from the query string.
type ListTransactionsRequest struct {
	AccountID  string     `form:"accountID"`
	CategoryID string     `form:"categoryID"`
	Kind       string     `form:"kind" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int        `form:"limit" binding:"omitempty,min=1,max=200"`
	NextToken  string     `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions and the cursor for
// the next page, empty when the listing is exhausted.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}
