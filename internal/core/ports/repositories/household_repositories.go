package repositories

import (
	"context"
	"time"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// HouseholdReader defines read operations for household data
type HouseholdReader interface {
	// FindHouseholdByID retrieves a specific household by its unique identifier.
	FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error)

	// ListHouseholdsByUser retrieves the households the user is a member of.
	ListHouseholdsByUser(ctx context.Context, userID string) ([]domain.Household, error)
}

// HouseholdWriter defines write operations for household data
type HouseholdWriter interface {
	// SaveHousehold persists a new household.
	SaveHousehold(ctx context.Context, household domain.Household) error

	// UpdateHousehold updates an existing household's details.
	UpdateHousehold(ctx context.Context, household domain.Household) error

	// DeleteHousehold removes a household and, via cascade, everything it owns.
	DeleteHousehold(ctx context.Context, householdID string) error
}

// MemberRepository defines operations on household membership rows
type MemberRepository interface {
	// FindMember retrieves the membership row for a user in a household.
	FindMember(ctx context.Context, householdID string, userID string) (*domain.Member, error)

	// ListMembers retrieves all members of a household.
	ListMembers(ctx context.Context, householdID string) ([]domain.Member, error)

	// SaveMember persists a new membership row.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMemberRole changes a member's role.
	UpdateMemberRole(ctx context.Context, householdID string, userID string, role domain.HouseholdRole, updatedBy string, now time.Time) error

	// DeleteMember removes a member from a household.
	DeleteMember(ctx context.Context, householdID string, userID string) error
}

// HouseholdRepositoryFacade combines all household-related repository interfaces
type HouseholdRepositoryFacade interface {
	HouseholdReader
	HouseholdWriter
	MemberRepository
}
