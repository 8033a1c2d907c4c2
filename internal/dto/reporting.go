package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryRequest captures the optional period filter for the household summary.
type SummaryRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// SummaryResponse aggregates a household's financial position: total balance
// across non-archived accounts plus income/expense totals for the period.
type SummaryResponse struct {
	HouseholdID      string          `json:"householdID"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	NetFlow          decimal.Decimal `json:"netFlow"`
	AccountCount     int             `json:"accountCount"`
	ActiveGoals      int             `json:"activeGoals"`
	OpenObligations  int             `json:"openObligations"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
}

// CategoryBreakdownRow is one category's total within a reporting period.
type CategoryBreakdownRow struct {
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	Kind         string          `json:"kind"`
	Total        decimal.Decimal `json:"total"`
}

// CategoryReportResponse is the per-category spending/income breakdown.
type CategoryReportResponse struct {
	HouseholdID string                 `json:"householdID"`
	From        *time.Time             `json:"from,omitempty"`
	To          *time.Time             `json:"to,omitempty"`
	Rows        []CategoryBreakdownRow `json:"rows"`
}
