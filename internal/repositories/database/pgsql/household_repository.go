package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearthkeep/household_ledger_app/internal/apperrors"
	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	portsrepo "github.com/hearthkeep/household_ledger_app/internal/core/ports/repositories"
	"github.com/hearthkeep/household_ledger_app/internal/models"
	"github.com/hearthkeep/household_ledger_app/internal/utils/mapping"
)

// PgxHouseholdRepository persists households and their memberships.
type PgxHouseholdRepository struct {
	pool *pgxpool.Pool
}

func newPgxHouseholdRepository(pool *pgxpool.Pool) portsrepo.HouseholdRepositoryFacade {
	return &PgxHouseholdRepository{pool: pool}
}

var _ portsrepo.HouseholdRepositoryFacade = (*PgxHouseholdRepository)(nil)

// SaveHousehold inserts a new household.
func (r *PgxHouseholdRepository) SaveHousehold(ctx context.Context, household domain.Household) error {
	m := mapping.ToModelHousehold(household)
	query := `
		INSERT INTO households (household_id, name, description, owner_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.HouseholdID, m.Name, m.Description, m.OwnerID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: household %s already exists", apperrors.ErrDuplicate, m.HouseholdID)
		}
		return fmt.Errorf("failed to save household %s: %w", m.HouseholdID, err)
	}
	return nil
}

// FindHouseholdByID retrieves a household by its ID.
func (r *PgxHouseholdRepository) FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error) {
	query := `
		SELECT household_id, name, description, owner_id, created_at, created_by, last_updated_at, last_updated_by
		FROM households
		WHERE household_id = $1;
	`
	var m models.Household
	err := r.pool.QueryRow(ctx, query, householdID).Scan(
		&m.HouseholdID, &m.Name, &m.Description, &m.OwnerID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find household %s: %w", householdID, err)
	}
	household := mapping.ToDomainHousehold(m)
	return &household, nil
}

// ListHouseholdsByUser retrieves the households a user is a member of.
func (r *PgxHouseholdRepository) ListHouseholdsByUser(ctx context.Context, userID string) ([]domain.Household, error) {
	query := `
		SELECT h.household_id, h.name, h.description, h.owner_id, h.created_at, h.created_by, h.last_updated_at, h.last_updated_by
		FROM households h
		JOIN household_members hm ON hm.household_id = h.household_id
		WHERE hm.user_id = $1
		ORDER BY h.created_at;
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list households for user %s: %w", userID, err)
	}
	defer rows.Close()

	var ms []models.Household
	for rows.Next() {
		var m models.Household
		if err := rows.Scan(
			&m.HouseholdID, &m.Name, &m.Description, &m.OwnerID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan household row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating household rows: %w", err)
	}
	return mapping.ToDomainHouseholdSlice(ms), nil
}

// UpdateHousehold updates an existing household's details.
func (r *PgxHouseholdRepository) UpdateHousehold(ctx context.Context, household domain.Household) error {
	m := mapping.ToModelHousehold(household)
	query := `
		UPDATE households
		SET name = $2, description = $3, last_updated_at = $4, last_updated_by = $5
		WHERE household_id = $1;
	`
	ct, err := r.pool.Exec(ctx, query, m.HouseholdID, m.Name, m.Description, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update household %s: %w", m.HouseholdID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteHousehold removes a household; ON DELETE CASCADE clears members,
// accounts, categories, transactions, goals and obligations.
func (r *PgxHouseholdRepository) DeleteHousehold(ctx context.Context, householdID string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM households WHERE household_id = $1;`, householdID)
	if err != nil {
		return fmt.Errorf("failed to delete household %s: %w", householdID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindMember retrieves the membership row for a user in a household.
func (r *PgxHouseholdRepository) FindMember(ctx context.Context, householdID string, userID string) (*domain.Member, error) {
	query := `
		SELECT household_id, user_id, role, joined_at
		FROM household_members
		WHERE household_id = $1 AND user_id = $2;
	`
	var m models.Member
	err := r.pool.QueryRow(ctx, query, householdID, userID).Scan(&m.HouseholdID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership for user %s in household %s: %w", userID, householdID, err)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

// ListMembers retrieves all members of a household.
func (r *PgxHouseholdRepository) ListMembers(ctx context.Context, householdID string) ([]domain.Member, error) {
	query := `
		SELECT household_id, user_id, role, joined_at
		FROM household_members
		WHERE household_id = $1
		ORDER BY joined_at;
	`
	rows, err := r.pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of household %s: %w", householdID, err)
	}
	defer rows.Close()

	var ms []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.HouseholdID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return mapping.ToDomainMemberSlice(ms), nil
}

// SaveMember inserts a new membership row.
func (r *PgxHouseholdRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		INSERT INTO household_members (household_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.pool.Exec(ctx, query, m.HouseholdID, m.UserID, m.Role, m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s is already a member of household %s", apperrors.ErrDuplicate, m.UserID, m.HouseholdID)
		}
		return fmt.Errorf("failed to save membership: %w", err)
	}
	return nil
}

// UpdateMemberRole changes a member's role.
func (r *PgxHouseholdRepository) UpdateMemberRole(ctx context.Context, householdID string, userID string, role domain.HouseholdRole, updatedBy string, now time.Time) error {
	query := `
		UPDATE household_members
		SET role = $3
		WHERE household_id = $1 AND user_id = $2;
	`
	ct, err := r.pool.Exec(ctx, query, householdID, userID, string(role))
	if err != nil {
		return fmt.Errorf("failed to update role for user %s in household %s: %w", userID, householdID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMember removes a member from a household.
func (r *PgxHouseholdRepository) DeleteMember(ctx context.Context, householdID string, userID string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM household_members WHERE household_id = $1 AND user_id = $2;`, householdID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete membership of user %s in household %s: %w", userID, householdID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
