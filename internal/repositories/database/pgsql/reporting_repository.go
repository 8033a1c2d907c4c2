package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
)

// PgxReportingRepository runs the read-only aggregate queries behind the
// reporting endpoints.
type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

func periodClause(args *[]any, from *time.Time, to *time.Time) string {
	clause := ""
	if from != nil {
		*args = append(*args, *from)
		clause += fmt.Sprintf(` AND occurred_at >= $%d`, len(*args))
	}
	if to != nil {
		*args = append(*args, *to)
		clause += fmt.Sprintf(` AND occurred_at <= $%d`, len(*args))
	}
	return clause
}

// SumPeriodTotals totals income and expense transactions in the period.
// Transfers move money between the household's own accounts, so they are
// excluded from both sides.
func (r *PgxReportingRepository) SumPeriodTotals(ctx context.Context, householdID string, from *time.Time, to *time.Time) (*portsrepo.PeriodTotals, error) {
	args := []any{householdID}
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'INCOME'), 0) AS total_income,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'EXPENSE'), 0) AS total_expense
		FROM transactions
		WHERE household_id = $1 AND kind <> 'TRANSFER'` + periodClause(&args, from, to) + `;`

	var totals portsrepo.PeriodTotals
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&totals.TotalIncome, &totals.TotalExpense); err != nil {
		return nil, fmt.Errorf("failed to sum period totals for household %s: %w", householdID, err)
	}
	return &totals, nil
}

// SumByCategory totals income and expense transactions per category.
// Uncategorized transactions are grouped under an empty category ID.
func (r *PgxReportingRepository) SumByCategory(ctx context.Context, householdID string, from *time.Time, to *time.Time) ([]portsrepo.CategoryTotal, error) {
	args := []any{householdID}
	query := `
		SELECT
			COALESCE(t.category_id, '') AS category_id,
			COALESCE(c.name, 'Uncategorized') AS category_name,
			t.kind,
			SUM(t.amount) AS total
		FROM transactions t
		LEFT JOIN categories c ON c.category_id = t.category_id
		WHERE t.household_id = $1 AND t.kind <> 'TRANSFER'` + periodClause(&args, from, to) + `
		GROUP BY COALESCE(t.category_id, ''), COALESCE(c.name, 'Uncategorized'), t.kind
		ORDER BY total DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category for household %s: %w", householdID, err)
	}
	defer rows.Close()

	var totals []portsrepo.CategoryTotal
	for rows.Next() {
		var t portsrepo.CategoryTotal
		if err := rows.Scan(&t.CategoryID, &t.CategoryName, &t.Kind, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total row: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category total rows: %w", err)
	}
	return totals, nil
}

// CountHouseholdStanding gathers the household's balance across non-archived
// accounts and its open goal and obligation counters.
func (r *PgxReportingRepository) CountHouseholdStanding(ctx context.Context, householdID string) (*portsrepo.HouseholdCounters, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE household_id = $1 AND is_archived = FALSE),
			(SELECT COUNT(*) FROM accounts WHERE household_id = $1 AND is_archived = FALSE),
			(SELECT COUNT(*) FROM goals WHERE household_id = $1 AND status = 'ACTIVE'),
			(SELECT COUNT(*) FROM obligations WHERE household_id = $1 AND status = 'ACTIVE'),
			(SELECT COALESCE(SUM(outstanding_amount), 0) FROM obligations WHERE household_id = $1 AND status = 'ACTIVE');
	`
	var c portsrepo.HouseholdCounters
	err := r.Pool.QueryRow(ctx, query, householdID).Scan(
		&c.TotalBalance, &c.AccountCount, &c.ActiveGoals, &c.OpenObligations, &c.TotalOutstanding,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count household standing for %s: %w", householdID, err)
	}
	return &c, nil
}
