package mapping

import (
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/models"
)

// ToModelHousehold converts a domain Household to a model Household
func ToModelHousehold(d domain.Household) models.Household {
	return models.Household{
		HouseholdID: d.HouseholdID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainHousehold converts a model Household to a domain Household
func ToDomainHousehold(m models.Household) domain.Household {
	return domain.Household{
		HouseholdID: m.HouseholdID,
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     m.OwnerID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainHouseholdSlice converts a slice of model Households to domain Households
func ToDomainHouseholdSlice(ms []models.Household) []domain.Household {
	ds := make([]domain.Household, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainHousehold(m)
	}
	return ds
}

// ToModelMember converts a domain Member to a model Member
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		HouseholdID: d.HouseholdID,
		UserID:      d.UserID,
		Role:        string(d.Role),
		JoinedAt:    d.JoinedAt,
	}
}

// ToDomainMember converts a model Member to a domain Member
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		HouseholdID: m.HouseholdID,
		UserID:      m.UserID,
		Role:        domain.HouseholdRole(m.Role),
		JoinedAt:    m.JoinedAt,
	}
}

// ToDomainMemberSlice converts a slice of model Members to domain Members
func ToDomainMemberSlice(ms []models.Member) []domain.Member {
	ds := make([]domain.Member, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMember(m)
	}
	return ds
}
