package mapping

import (
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/models"
)

// ToModelRecurrencePattern converts an optional domain recurrence pattern to
// its nullable column value
func ToModelRecurrencePattern(p *domain.RecurrencePattern) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

// ToDomainRecurrencePattern converts a nullable recurrence_pattern column to
// its optional domain form
func ToDomainRecurrencePattern(s *string) *domain.RecurrencePattern {
	if s == nil {
		return nil
	}
	p := domain.RecurrencePattern(*s)
	return &p
}

// ToModelGoal converts a domain Goal to a model Goal
func ToModelGoal(d domain.Goal) models.Goal {
	return models.Goal{
		GoalID:            d.GoalID,
		HouseholdID:       d.HouseholdID,
		Name:              d.Name,
		TargetAmount:      d.TargetAmount,
		CurrentAmount:     d.CurrentAmount,
		TargetDate:        d.TargetDate,
		Description:       d.Description,
		Priority:          string(d.Priority),
		Status:            string(d.Status),
		CompletedAt:       d.CompletedAt,
		IsRecurring:       d.IsRecurring,
		RecurrencePattern: ToModelRecurrencePattern(d.RecurrencePattern),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGoal converts a model Goal to a domain Goal
func ToDomainGoal(m models.Goal) domain.Goal {
	return domain.Goal{
		GoalID:            m.GoalID,
		HouseholdID:       m.HouseholdID,
		Name:              m.Name,
		TargetAmount:      m.TargetAmount,
		CurrentAmount:     m.CurrentAmount,
		TargetDate:        m.TargetDate,
		Description:       m.Description,
		Priority:          domain.Priority(m.Priority),
		Status:            domain.ProgressStatus(m.Status),
		CompletedAt:       m.CompletedAt,
		IsRecurring:       m.IsRecurring,
		RecurrencePattern: ToDomainRecurrencePattern(m.RecurrencePattern),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainGoalSlice converts a slice of model Goals to domain Goals
func ToDomainGoalSlice(ms []models.Goal) []domain.Goal {
	ds := make([]domain.Goal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGoal(m)
	}
	return ds
}

// ToModelGoalContribution converts a domain GoalContribution to its model
func ToModelGoalContribution(d domain.GoalContribution) models.GoalContribution {
	return models.GoalContribution{
		ContributionID: d.ContributionID,
		GoalID:         d.GoalID,
		TransactionID:  d.TransactionID,
		Amount:         d.Amount,
		CreatedAt:      d.CreatedAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainGoalContribution converts a model GoalContribution to its domain form
func ToDomainGoalContribution(m models.GoalContribution) domain.GoalContribution {
	return domain.GoalContribution{
		ContributionID: m.ContributionID,
		GoalID:         m.GoalID,
		TransactionID:  m.TransactionID,
		Amount:         m.Amount,
		CreatedAt:      m.CreatedAt,
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainGoalContributionSlice converts model GoalContributions to domain form
func ToDomainGoalContributionSlice(ms []models.GoalContribution) []domain.GoalContribution {
	ds := make([]domain.GoalContribution, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGoalContribution(m)
	}
	return ds
}
