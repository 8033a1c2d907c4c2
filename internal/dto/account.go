package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required,max=100"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=CHECKING SAVINGS CASH CREDIT OTHER"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3,uppercase"`
	Balance      decimal.Decimal    `json:"balance"`
	Description  string             `json:"description" binding:"max=500"`
}

// UpdateAccountRequest defines the mutable attributes of an account.
// Balance is intentionally absent: balances only move through transactions.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsArchived  *bool   `json:"isArchived"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	HouseholdID  string             `json:"householdID"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	CurrencyCode string             `json:"currencyCode"`
	Balance      decimal.Decimal    `json:"balance"`
	Description  string             `json:"description"`
	IsArchived   bool               `json:"isArchived"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		HouseholdID:  a.HouseholdID,
		Name:         a.Name,
		AccountType:  a.AccountType,
		CurrencyCode: a.CurrencyCode,
		Balance:      a.Balance,
		Description:  a.Description,
		IsArchived:   a.IsArchived,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.LastUpdatedAt,
	}
}

// ListAccountsResponse wraps the accounts of a household.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
