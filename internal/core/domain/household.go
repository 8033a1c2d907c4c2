package domain

import "time"

// Household is the tenancy boundary: every account, category, transaction,
// goal and obligation belongs to exactly one household.
type Household struct {
	HouseholdID string `json:"householdID"` // Primary Key (UUID)
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"ownerID"` // UserID of the household owner
	AuditFields
}

// HouseholdRole defines the possible roles a user can have within a household.
type HouseholdRole string

const (
	RoleViewer HouseholdRole = "VIEWER"
	RoleMember HouseholdRole = "MEMBER"
	RoleAdmin  HouseholdRole = "ADMIN"
	RoleOwner  HouseholdRole = "OWNER"
)

// roleRank orders roles for permission checks. Higher rank implies all
// capabilities of lower ranks.
var roleRank = map[HouseholdRole]int{
	RoleViewer: 1,
	RoleMember: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// Meets reports whether the role satisfies the required minimum role.
func (r HouseholdRole) Meets(required HouseholdRole) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	requiredRank, ok := roleRank[required]
	if !ok {
		return false
	}
	return rank >= requiredRank
}

// Member represents a user's role-scoped membership in a household.
// The (HouseholdID, UserID) pair is unique.
type Member struct {
	HouseholdID string        `json:"householdID"`
	UserID      string        `json:"userID"`
	Role        HouseholdRole `json:"role"`
	JoinedAt    time.Time     `json:"joinedAt"`
}
