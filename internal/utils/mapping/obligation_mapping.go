package mapping

import (
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/models"
)

// ToModelObligation converts a domain Obligation to a model Obligation
func ToModelObligation(d domain.Obligation) models.Obligation {
	return models.Obligation{
		ObligationID:      d.ObligationID,
		HouseholdID:       d.HouseholdID,
		Name:              d.Name,
		TotalAmount:       d.TotalAmount,
		OutstandingAmount: d.OutstandingAmount,
		DueDate:           d.DueDate,
		Creditor:          d.Creditor,
		Description:       d.Description,
		Priority:          string(d.Priority),
		Status:            string(d.Status),
		CompletedAt:       d.CompletedAt,
		IsRecurring:       d.IsRecurring,
		RecurrencePattern: ToModelRecurrencePattern(d.RecurrencePattern),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainObligation converts a model Obligation to a domain Obligation
func ToDomainObligation(m models.Obligation) domain.Obligation {
	return domain.Obligation{
		ObligationID:      m.ObligationID,
		HouseholdID:       m.HouseholdID,
		Name:              m.Name,
		TotalAmount:       m.TotalAmount,
		OutstandingAmount: m.OutstandingAmount,
		DueDate:           m.DueDate,
		Creditor:          m.Creditor,
		Description:       m.Description,
		Priority:          domain.Priority(m.Priority),
		Status:            domain.ProgressStatus(m.Status),
		CompletedAt:       m.CompletedAt,
		IsRecurring:       m.IsRecurring,
		RecurrencePattern: ToDomainRecurrencePattern(m.RecurrencePattern),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainObligationSlice converts a slice of model Obligations to domain Obligations
func ToDomainObligationSlice(ms []models.Obligation) []domain.Obligation {
	ds := make([]domain.Obligation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainObligation(m)
	}
	return ds
}

// ToModelObligationPayment converts a domain ObligationPayment to its model
func ToModelObligationPayment(d domain.ObligationPayment) models.ObligationPayment {
	return models.ObligationPayment{
		PaymentID:     d.PaymentID,
		ObligationID:  d.ObligationID,
		TransactionID: d.TransactionID,
		Amount:        d.Amount,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainObligationPayment converts a model ObligationPayment to its domain form
func ToDomainObligationPayment(m models.ObligationPayment) domain.ObligationPayment {
	return domain.ObligationPayment{
		PaymentID:     m.PaymentID,
		ObligationID:  m.ObligationID,
		TransactionID: m.TransactionID,
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainObligationPaymentSlice converts model ObligationPayments to domain form
func ToDomainObligationPaymentSlice(ms []models.ObligationPayment) []domain.ObligationPayment {
	ds := make([]domain.ObligationPayment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainObligationPayment(m)
	}
	return ds
}
