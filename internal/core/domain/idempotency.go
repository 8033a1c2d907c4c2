package domain

import (
	"encoding/json"
	"time"
)

// IdempotencyRecord reserves a caller-supplied idempotency key, scoped to
// (user, household), and stores the outcome of the financial mutation it
// guards.
//
// A record is inserted before the mutation runs, with no response yet; the
// unique key constraint is what makes concurrent duplicate deliveries lose
// before they can apply the mutation. Once the mutation succeeds the record
// is completed with the response. A record whose mutation failed is deleted
// so the client may retry.
type IdempotencyRecord struct {
	Key            string          `json:"key"`
	UserID         string          `json:"userID"`
	HouseholdID    string          `json:"householdID"`
	RequestHash    string          `json:"requestHash"` // sha256 hex of the canonical request body
	ResponseStatus int             `json:"responseStatus"`
	ResponseBody   json.RawMessage `json:"responseBody"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Pending reports whether the record is still a reservation: the guarded
// mutation has not completed yet, so there is no response to replay.
func (r IdempotencyRecord) Pending() bool {
	return r.ResponseStatus == 0
}
