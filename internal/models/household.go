package models

import "time"

// Household is the households table row.
type Household struct {
	HouseholdID string `db:"household_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	OwnerID     string `db:"owner_id"`
	AuditFields
}

// Member is the household_members table row.
// (household_id, user_id) carries a unique constraint.
type Member struct {
	HouseholdID string    `db:"household_id"`
	UserID      string    `db:"user_id"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}
