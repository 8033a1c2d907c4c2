package services

import (
	"context"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/dto"
)

// HouseholdReaderSvc defines read operations for household data
type HouseholdReaderSvc interface {
	// GetHouseholdByID retrieves a household the requesting user belongs to.
	GetHouseholdByID(ctx context.Context, householdID string, userID string) (*domain.Household, error)

	// ListHouseholds retrieves the households the requesting user belongs to.
	ListHouseholds(ctx context.Context, userID string) ([]domain.Household, error)
}

// HouseholdWriterSvc defines write operations for household data
type HouseholdWriterSvc interface {
	// CreateHousehold persists a new household with the creator as OWNER.
	CreateHousehold(ctx context.Context, req dto.CreateHouseholdRequest, creatorUserID string) (*domain.Household, error)

	// UpdateHousehold updates a household's details.
	UpdateHousehold(ctx context.Context, householdID string, req dto.UpdateHouseholdRequest, userID string) (*domain.Household, error)

	// DeleteHousehold removes a household and everything it owns. Owner only.
	DeleteHousehold(ctx context.Context, householdID string, userID string) error
}

// HouseholdMembershipSvc defines member management operations
type HouseholdMembershipSvc interface {
	// AddMember adds a user to a household with the given role.
	AddMember(ctx context.Context, householdID string, req dto.AddMemberRequest, requestingUserID string) (*domain.Member, error)

	// ListMembers retrieves all members of a household.
	ListMembers(ctx context.Context, householdID string, requestingUserID string) ([]domain.Member, error)

	// UpdateMemberRole changes a member's role. The OWNER role cannot be
	// granted or revoked this way.
	UpdateMemberRole(ctx context.Context, householdID string, memberUserID string, req dto.UpdateMemberRoleRequest, requestingUserID string) (*domain.Member, error)

	// RemoveMember removes a member from the household. Members may remove
	// themselves; the owner cannot be removed.
	RemoveMember(ctx context.Context, householdID string, memberUserID string, requestingUserID string) error
}

// HouseholdAuthorizerSvc defines authorization checks for household actions
type HouseholdAuthorizerSvc interface {
	// AuthorizeUserAction checks that the user belongs to the household with
	// at least the required role.
	AuthorizeUserAction(ctx context.Context, userID string, householdID string, requiredRole domain.HouseholdRole) error
}

// HouseholdSvcFacade combines all household-related service interfaces
type HouseholdSvcFacade interface {
	HouseholdReaderSvc
	HouseholdWriterSvc
	HouseholdMembershipSvc
	HouseholdAuthorizerSvc
}
