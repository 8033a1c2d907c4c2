package services

import (
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hearthkeep/household_ledger_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, idempotencyOptions ...IdempotencyServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Household service first: every other service authorizes through it.
	container.Household = NewHouseholdService(repos.HouseholdRepo)
	authorizer := container.Household.(portssvc.HouseholdAuthorizerSvc)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithAccountAuthorizer(authorizer),
	)
	container.Category = NewCategoryService(
		repos.CategoryRepo,
		WithCategoryAuthorizer(authorizer),
	)
	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.AccountRepo,
		repos.CategoryRepo,
		WithTransactionAuthorizer(authorizer),
	)
	container.Goal = NewGoalService(
		repos.GoalRepo,
		repos.AccountRepo,
		repos.TransactionRepo,
		WithGoalAuthorizer(authorizer),
	)
	container.Obligation = NewObligationService(
		repos.ObligationRepo,
		repos.AccountRepo,
		repos.TransactionRepo,
		WithObligationAuthorizer(authorizer),
	)
	container.Idempotency = NewIdempotencyService(repos.IdempotencyRepo, idempotencyOptions...)
	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		WithReportingAuthorizer(authorizer),
	)

	return container
}
