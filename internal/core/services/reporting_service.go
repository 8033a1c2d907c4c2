package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingAuthorizer adds the household authorizer dependency
func WithReportingAuthorizer(authorizer portssvc.HouseholdAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.HouseholdAuthorizer = authorizer
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepositoryFacade, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{reportingRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetSummary aggregates the household's position. Requires VIEWER.
func (s *reportingService) GetSummary(ctx context.Context, householdID string, userID string, req dto.SummaryRequest) (*dto.SummaryResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	totals, err := s.reportingRepo.SumPeriodTotals(ctx, householdID, req.From, req.To)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum period totals", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	counters, err := s.reportingRepo.CountHouseholdStanding(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count household standing", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}

	return &dto.SummaryResponse{
		HouseholdID:      householdID,
		TotalBalance:     counters.TotalBalance,
		TotalIncome:      totals.TotalIncome,
		TotalExpense:     totals.TotalExpense,
		NetFlow:          totals.TotalIncome.Sub(totals.TotalExpense),
		AccountCount:     counters.AccountCount,
		ActiveGoals:      counters.ActiveGoals,
		OpenObligations:  counters.OpenObligations,
		TotalOutstanding: counters.TotalOutstanding,
	}, nil
}

// GetCategoryReport breaks down period flow per category. Requires VIEWER.
func (s *reportingService) GetCategoryReport(ctx context.Context, householdID string, userID string, req dto.SummaryRequest) (*dto.CategoryReportResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, householdID, domain.RoleViewer); err != nil {
		return nil, err
	}

	rows, err := s.reportingRepo.SumByCategory(ctx, householdID, req.From, req.To)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum by category", slog.String("household_id", householdID))
		return nil, fmt.Errorf("failed to compute category report: %w", err)
	}

	resp := &dto.CategoryReportResponse{
		HouseholdID: householdID,
		From:        req.From,
		To:          req.To,
		Rows:        make([]dto.CategoryBreakdownRow, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.CategoryBreakdownRow{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Kind:         row.Kind,
			Total:        row.Total,
		})
	}
	return resp, nil
}
