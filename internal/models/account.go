package models

import (
	"github.com/shopspring/decimal"
)

// Account is the accounts table row. Balance is stored as NUMERIC and is
// only updated together with a transaction write.
type Account struct {
	AccountID    string          `db:"account_id"`
	HouseholdID  string          `db:"household_id"`
	Name         string          `db:"name"`
	AccountType  string          `db:"account_type"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	Description  string          `db:"description"`
	IsArchived   bool            `db:"is_archived"`
	AuditFields
}

// Category is the categories table row.
type Category struct {
	CategoryID  string `db:"category_id"`
	HouseholdID string `db:"household_id"`
	Name        string `db:"name"`
	Kind        string `db:"kind"`
	AuditFields
}
