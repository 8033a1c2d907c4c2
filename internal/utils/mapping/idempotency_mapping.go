package mapping

import (
	"encoding/json"

	"github.com/hearthkeep/household_ledger_app/internal/core/domain"
	"github.com/hearthkeep/household_ledger_app/internal/models"
)

// ToModelIdempotencyRecord converts a domain IdempotencyRecord to its model
func ToModelIdempotencyRecord(d domain.IdempotencyRecord) models.IdempotencyRecord {
	return models.IdempotencyRecord{
		Key:            d.Key,
		UserID:         d.UserID,
		HouseholdID:    d.HouseholdID,
		RequestHash:    d.RequestHash,
		ResponseStatus: d.ResponseStatus,
		ResponseBody:   []byte(d.ResponseBody),
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainIdempotencyRecord converts a model IdempotencyRecord to its domain form
func ToDomainIdempotencyRecord(m models.IdempotencyRecord) domain.IdempotencyRecord {
	return domain.IdempotencyRecord{
		Key:            m.Key,
		UserID:         m.UserID,
		HouseholdID:    m.HouseholdID,
		RequestHash:    m.RequestHash,
		ResponseStatus: m.ResponseStatus,
		ResponseBody:   json.RawMessage(m.ResponseBody),
		CreatedAt:      m.CreatedAt,
	}
}
