package dto

import (
	"time"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
)

// CreateHouseholdRequest defines the data needed to create a new household.
type CreateHouseholdRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateHouseholdRequest defines the data allowed for updating a household.
type UpdateHouseholdRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// HouseholdResponse defines the data returned for a household.
type HouseholdResponse struct {
	HouseholdID string    `json:"householdID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToHouseholdResponse converts a domain.Household to HouseholdResponse.
func ToHouseholdResponse(h *domain.Household) HouseholdResponse {
	return HouseholdResponse{
		HouseholdID: h.HouseholdID,
		Name:        h.Name,
		Description: h.Description,
		OwnerID:     h.OwnerID,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.LastUpdatedAt,
	}
}

// ListHouseholdsResponse wraps the households the caller belongs to.
type ListHouseholdsResponse struct {
	Households []HouseholdResponse `json:"households"`
}

// AddMemberRequest defines the data needed to add a member to a household.
type AddMemberRequest struct {
	UserID string               `json:"userID" binding:"required"`
	Role   domain.HouseholdRole `json:"role" binding:"required,oneof=VIEWER MEMBER ADMIN"`
}

// UpdateMemberRoleRequest changes an existing member's role.
type UpdateMemberRoleRequest struct {
	Role domain.HouseholdRole `json:"role" binding:"required,oneof=VIEWER MEMBER ADMIN"`
}

// MemberResponse defines the data returned for a household member.
type MemberResponse struct {
	HouseholdID string               `json:"householdID"`
	UserID      string               `json:"userID"`
	Role        domain.HouseholdRole `json:"role"`
	JoinedAt    time.Time            `json:"joinedAt"`
}

// ToMemberResponse converts a domain.Member to MemberResponse.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		HouseholdID: m.HouseholdID,
		UserID:      m.UserID,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt,
	}
}

// ListMembersResponse wraps the members of a household.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}
