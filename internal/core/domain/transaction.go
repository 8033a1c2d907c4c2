package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates the three transaction shapes.
type TransactionKind string

const (
	KindIncome   TransactionKind = "INCOME"
	KindExpense  TransactionKind = "EXPENSE"
	KindTransfer TransactionKind = "TRANSFER"
)

// Transaction is a single financial movement within a household.
//
// Shape invariant: income and expense populate AccountID only; transfer
// populates FromAccountID and ToAccountID only. Amount is always positive;
// the sign applied to each account is derived from the kind.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	HouseholdID   string          `json:"householdID"`
	Kind          TransactionKind `json:"kind"`
	Amount        decimal.Decimal `json:"amount"` // always positive
	AccountID     *string         `json:"accountID"`     // income/expense
	FromAccountID *string         `json:"fromAccountID"` // transfer source
	ToAccountID   *string         `json:"toAccountID"`   // transfer destination
	CategoryID    *string         `json:"categoryID"` // income/expense only
	OccurredAt    time.Time       `json:"occurredAt"`
	Description   string          `json:"description"`
	Counterparty  string          `json:"counterparty"`
	AuditFields
}

// ValidateShape checks the account-reference invariant for the transaction's kind.
func (t Transaction) ValidateShape() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}
	switch t.Kind {
	case KindIncome, KindExpense:
		if t.AccountID == nil || *t.AccountID == "" {
			return fmt.Errorf("%s transaction requires accountID", t.Kind)
		}
		if t.FromAccountID != nil || t.ToAccountID != nil {
			return fmt.Errorf("%s transaction must not set fromAccountID/toAccountID", t.Kind)
		}
	case KindTransfer:
		if t.FromAccountID == nil || t.ToAccountID == nil || *t.FromAccountID == "" || *t.ToAccountID == "" {
			return fmt.Errorf("transfer requires fromAccountID and toAccountID")
		}
		if *t.FromAccountID == *t.ToAccountID {
			return fmt.Errorf("transfer source and destination accounts must differ")
		}
		if t.AccountID != nil {
			return fmt.Errorf("transfer must not set accountID")
		}
		if t.CategoryID != nil {
			return fmt.Errorf("transfer must not set categoryID")
		}
	default:
		return fmt.Errorf("unknown transaction kind %q", t.Kind)
	}
	return nil
}

// BalanceChanges returns the net balance delta per account implied by the
// transaction. Sign rules: income credits its account, expense debits it,
// transfer debits the source and credits the destination.
func (t Transaction) BalanceChanges() (map[string]decimal.Decimal, error) {
	if err := t.ValidateShape(); err != nil {
		return nil, err
	}
	changes := make(map[string]decimal.Decimal, 2)
	switch t.Kind {
	case KindIncome:
		changes[*t.AccountID] = t.Amount
	case KindExpense:
		changes[*t.AccountID] = t.Amount.Neg()
	case KindTransfer:
		changes[*t.FromAccountID] = t.Amount.Neg()
		changes[*t.ToAccountID] = t.Amount
	}
	return changes, nil
}

// ReversalChanges returns the balance deltas that undo this transaction,
// used when a transaction is voided or re-derived on update.
func (t Transaction) ReversalChanges() (map[string]decimal.Decimal, error) {
	changes, err := t.BalanceChanges()
	if err != nil {
		return nil, err
	}
	reversed := make(map[string]decimal.Decimal, len(changes))
	for accountID, delta := range changes {
		reversed[accountID] = delta.Neg()
	}
	return reversed, nil
}

// AccountIDs lists the accounts the transaction touches.
func (t Transaction) AccountIDs() []string {
	switch t.Kind {
	case KindTransfer:
		ids := make([]string, 0, 2)
		if t.FromAccountID != nil {
			ids = append(ids, *t.FromAccountID)
		}
		if t.ToAccountID != nil {
			ids = append(ids, *t.ToAccountID)
		}
		return ids
	default:
		if t.AccountID != nil {
			return []string{*t.AccountID}
		}
		return nil
	}
}

// TransactionCursor marks a position in the (occurred_at, created_at,
// transaction_id) descending listing order for keyset pagination.
type TransactionCursor struct {
	OccurredAt    time.Time
	CreatedAt     time.Time
	TransactionID string
}

// TransactionLink reports which progress object, if any, a transaction backs.
// At most one of the fields is set; both nil means the transaction is an
// ordinary ledger entry.
type TransactionLink struct {
	GoalID       *string
	ObligationID *string
}
