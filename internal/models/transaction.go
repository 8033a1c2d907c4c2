package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row. Exactly one of account_id or
// the (from_account_id, to_account_id) pair is populated, enforced by a
// CHECK constraint consistent with kind.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	HouseholdID   string          `db:"household_id"`
	Kind          string          `db:"kind"`
	Amount        decimal.Decimal `db:"amount"`
	AccountID     *string         `db:"account_id"`
	FromAccountID *string         `db:"from_account_id"`
	ToAccountID   *string         `db:"to_account_id"`
	CategoryID    *string         `db:"category_id"`
	OccurredAt    time.Time       `db:"occurred_at"`
	Description   string          `db:"description"`
	Counterparty  string          `db:"counterparty"`
	AuditFields
}
