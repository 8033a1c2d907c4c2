package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func TestValidateShape_Income(t *testing.T) {
	txn := domain.Transaction{
		Kind:      domain.KindIncome,
		Amount:    decimal.NewFromInt(100),
		AccountID: strPtr("acc-1"),
	}
	assert.NoError(t, txn.ValidateShape())
}

func TestValidateShape_IncomeMissingAccount(t *testing.T) {
	txn := domain.Transaction{
		Kind:   domain.KindIncome,
		Amount: decimal.NewFromInt(100),
	}
	assert.Error(t, txn.ValidateShape())
}

func TestValidateShape_ExpenseWithTransferAccounts(t *testing.T) {
	txn := domain.Transaction{
		Kind:          domain.KindExpense,
		Amount:        decimal.NewFromInt(50),
		AccountID:     strPtr("acc-1"),
		FromAccountID: strPtr("acc-2"),
	}
	assert.Error(t, txn.ValidateShape())
}

func TestValidateShape_Transfer(t *testing.T) {
	txn := domain.Transaction{
		Kind:          domain.KindTransfer,
		Amount:        decimal.NewFromInt(40),
		FromAccountID: strPtr("acc-1"),
		ToAccountID:   strPtr("acc-2"),
	}
	assert.NoError(t, txn.ValidateShape())
}

func TestValidateShape_TransferSameAccount(t *testing.T) {
	txn := domain.Transaction{
		Kind:          domain.KindTransfer,
		Amount:        decimal.NewFromInt(40),
		FromAccountID: strPtr("acc-1"),
		ToAccountID:   strPtr("acc-1"),
	}
	assert.Error(t, txn.ValidateShape())
}

func TestValidateShape_TransferWithCategory(t *testing.T) {
	txn := domain.Transaction{
		Kind:          domain.KindTransfer,
		Amount:        decimal.NewFromInt(40),
		FromAccountID: strPtr("acc-1"),
		ToAccountID:   strPtr("acc-2"),
		CategoryID:    strPtr("cat-1"),
	}
	assert.Error(t, txn.ValidateShape())
}

func TestValidateShape_NonPositiveAmount(t *testing.T) {
	txn := domain.Transaction{
		Kind:      domain.KindExpense,
		Amount:    decimal.Zero,
		AccountID: strPtr("acc-1"),
	}
	assert.Error(t, txn.ValidateShape())

	txn.Amount = decimal.NewFromInt(-5)
	assert.Error(t, txn.ValidateShape())
}

func TestValidateShape_UnknownKind(t *testing.T) {
	txn := domain.Transaction{
		Kind:      domain.TransactionKind("REFUND"),
		Amount:    decimal.NewFromInt(10),
		AccountID: strPtr("acc-1"),
	}
	assert.Error(t, txn.ValidateShape())
}

func TestBalanceChanges_IncomeCreditsAccount(t *testing.T) {
	txn := domain.Transaction{
		Kind:      domain.KindIncome,
		Amount:    decimal.NewFromInt(100),
		AccountID: strPtr("acc-1"),
	}
	changes, err := txn.BalanceChanges()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.True(t, changes["acc-1"].Equal(decimal.NewFromInt(100)))
}

func TestBalanceChanges_ExpenseDebitsAccount(t *testing.T) {
	txn := domain.Transaction{
		Kind:      domain.KindExpense,
		Amount:    decimal.NewFromInt(20),
		AccountID: strPtr("acc-1"),
	}
	changes, err := txn.BalanceChanges()
	require.NoError(t, err)
	assert.True(t, changes["acc-1"].Equal(decimal.NewFromInt(-20)))
}

func TestBalanceChanges_TransferMovesBetweenAccounts(t *testing.T) {
	txn := domain.Transaction{
		Kind:          domain.KindTransfer,
		Amount:        decimal.NewFromInt(40),
		FromAccountID: strPtr("acc-1"),
		ToAccountID:   strPtr("acc-2"),
	}
	changes, err := txn.BalanceChanges()
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.True(t, changes["acc-1"].Equal(decimal.NewFromInt(-40)))
	assert.True(t, changes["acc-2"].Equal(decimal.NewFromInt(40)))

	// Deltas of a transfer always cancel out.
	assert.True(t, changes["acc-1"].Add(changes["acc-2"]).IsZero())
}

func TestReversalChanges_NegatesEveryDelta(t *testing.T) {
	txn := domain.Transaction{
		Kind:          domain.KindTransfer,
		Amount:        decimal.RequireFromString("12.34"),
		FromAccountID: strPtr("acc-1"),
		ToAccountID:   strPtr("acc-2"),
	}
	reversed, err := txn.ReversalChanges()
	require.NoError(t, err)
	assert.True(t, reversed["acc-1"].Equal(decimal.RequireFromString("12.34")))
	assert.True(t, reversed["acc-2"].Equal(decimal.RequireFromString("-12.34")))
}

func TestAccountIDs(t *testing.T) {
	income := domain.Transaction{Kind: domain.KindIncome, AccountID: strPtr("acc-1")}
	assert.Equal(t, []string{"acc-1"}, income.AccountIDs())

	transfer := domain.Transaction{
		Kind:          domain.KindTransfer,
		FromAccountID: strPtr("acc-1"),
		ToAccountID:   strPtr("acc-2"),
	}
	assert.Equal(t, []string{"acc-1", "acc-2"}, transfer.AccountIDs())
}
