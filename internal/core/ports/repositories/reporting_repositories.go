package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals aggregates transaction flow within a period.
type PeriodTotals struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// CategoryTotal is one category's aggregate within a period.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Kind         string
	Total        decimal.Decimal
}

// HouseholdCounters summarizes a household's standing objects.
type HouseholdCounters struct {
	TotalBalance     decimal.Decimal
	AccountCount     int
	ActiveGoals      int
	OpenObligations  int
	TotalOutstanding decimal.Decimal
}

// ReportingRepositoryFacade defines the read-only aggregate queries
type ReportingRepositoryFacade interface {
	// SumPeriodTotals totals income and expense transactions in the period.
	// Transfers are excluded; they move money without changing net worth.
	SumPeriodTotals(ctx context.Context, householdID string, from *time.Time, to *time.Time) (*PeriodTotals, error)

	// SumByCategory totals income and expense transactions per category.
	SumByCategory(ctx context.Context, householdID string, from *time.Time, to *time.Time) ([]CategoryTotal, error)

	// CountHouseholdStanding gathers balance and open goal/obligation counters.
	CountHouseholdStanding(ctx context.Context, householdID string) (*HouseholdCounters, error)
}
