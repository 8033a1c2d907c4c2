package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories. The account
// repository is shared into the transaction, goal, and obligation
// repositories so their atomic writes can lock accounts and apply balance
// deltas inside their own database transactions.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo)

	return &portsrepo.RepositoryProvider{
		HouseholdRepo:   newPgxHouseholdRepository(dbPool),
		AccountRepo:     accountRepo,
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		TransactionRepo: transactionRepo,
		GoalRepo:        newPgxGoalRepository(dbPool, accountRepo, transactionRepo),
		ObligationRepo:  newPgxObligationRepository(dbPool, accountRepo, transactionRepo),
		IdempotencyRepo: newPgxIdempotencyRepository(dbPool),
		ReportingRepo:   newPgxReportingRepository(dbPool),
	}
}
