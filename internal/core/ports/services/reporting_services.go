package services

import (
	"context"

	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// ReportingSvcFacade defines the read-only reporting operations
type ReportingSvcFacade interface {
	// GetSummary aggregates the household's balances, period flow, and open
	// goal/obligation counters.
	GetSummary(ctx context.Context, householdID string, userID string, req dto.SummaryRequest) (*dto.SummaryResponse, error)

	// GetCategoryReport breaks down period income and expense per category.
	GetCategoryReport(ctx context.Context, householdID string, userID string, req dto.SummaryRequest) (*dto.CategoryReportResponse, error)
}
