package models

import "time"

// IdempotencyRecord is the idempotency_records table row.
// (key, user_id, household_id) carries a unique constraint; it is what
// resolves the concurrent-duplicate race.
type IdempotencyRecord struct {
	Key            string    `db:"key"`
	UserID         string    `db:"user_id"`
	HouseholdID    string    `db:"household_id"`
	RequestHash    string    `db:"request_hash"`
	ResponseStatus int       `db:"response_status"`
	ResponseBody   []byte    `db:"response_body"`
	CreatedAt      time.Time `db:"created_at"`
}
