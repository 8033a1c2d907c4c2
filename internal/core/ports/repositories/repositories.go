package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	HouseholdRepo   HouseholdRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	GoalRepo        GoalRepositoryFacade
	ObligationRepo  ObligationRepositoryFacade
	IdempotencyRepo IdempotencyRepositoryFacade
	ReportingRepo   ReportingRepositoryFacade
}
