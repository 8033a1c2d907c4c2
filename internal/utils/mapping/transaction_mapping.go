package mapping

import (
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		HouseholdID:   d.HouseholdID,
		Kind:          string(d.Kind),
		Amount:        d.Amount,
		AccountID:     d.AccountID,
		FromAccountID: d.FromAccountID,
		ToAccountID:   d.ToAccountID,
		CategoryID:    d.CategoryID,
		OccurredAt:    d.OccurredAt,
		Description:   d.Description,
		Counterparty:  d.Counterparty,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		HouseholdID:   m.HouseholdID,
		Kind:          domain.TransactionKind(m.Kind),
		Amount:        m.Amount,
		AccountID:     m.AccountID,
		FromAccountID: m.FromAccountID,
		ToAccountID:   m.ToAccountID,
		CategoryID:    m.CategoryID,
		OccurredAt:    m.OccurredAt,
		Description:   m.Description,
		Counterparty:  m.Counterparty,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
