package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType describes what kind of real-world account this represents.
// Purely descriptive; it has no effect on balance arithmetic.
type AccountType string

const (
	AccountChecking AccountType = "CHECKING"
	AccountSavings  AccountType = "SAVINGS"
	AccountCash     AccountType = "CASH"
	AccountCredit   AccountType = "CREDIT"
	AccountOther    AccountType = "OTHER"
)

// Account represents a financial account within a household.
//
// Balance is a maintained projection: it always equals the initial balance
// plus the sum of signed amounts of all non-voided transactions touching the
// account. It is only ever mutated together with a transaction write, inside
// the same storage transaction.
type Account struct {
	AccountID    string          `json:"accountID"` // Primary Key (UUID)
	HouseholdID  string          `json:"householdID"`
	Name         string          `json:"name"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"` // ISO 4217
	Balance      decimal.Decimal `json:"balance"`
	Description  string          `json:"description"`
	IsArchived   bool            `json:"isArchived"`
	AuditFields
}
