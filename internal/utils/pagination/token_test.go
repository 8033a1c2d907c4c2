package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard date/time values
	occurredAt := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 3, 10, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(occurredAt, createdAt, "txn-123")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedOccurredAt, decodedCreatedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, occurredAt, decodedOccurredAt, "Occurred at should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at should match after decode")
	assert.Equal(t, "txn-123", decodedID, "ID should match after decode")

	// Zero time values
	zeroTime := time.Time{}
	zeroToken := EncodeToken(zeroTime, zeroTime, "txn-zero")
	decodedZeroOccurred, decodedZeroCreated, _, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.Equal(t, zeroTime, decodedZeroOccurred, "Zero occurred at should match after decode")
	assert.Equal(t, zeroTime, decodedZeroCreated, "Zero created at should match after decode")

	// Current time values
	now := time.Now().UTC()
	nowToken := EncodeToken(now, now, "txn-now")
	decodedNowOccurred, decodedNowCreated, _, err := DecodeToken(nowToken)
	assert.NoError(t, err, "Decoding current time should not return an error")
	assert.True(t, now.Equal(decodedNowOccurred), "Current occurred at should match after decode")
	assert.True(t, now.Equal(decodedNowCreated), "Current created at should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Invalid base64
	_, _, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Missing separators
	invalidToken := "MjAyNS0wMy0xMFQwMDowMDowMFo=" // encoded date without separators
	_, _, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Invalid occurred_at
	badDate := base64.StdEncoding.EncodeToString([]byte("notadate|2025-03-10T14:30:45.123456789Z|txn-1"))
	_, _, _, err = DecodeToken(badDate)
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "occurred_at parse", "Error should mention occurred_at parsing issue")

	// Empty id field
	emptyID := base64.StdEncoding.EncodeToString([]byte("2025-03-10T00:00:00Z|2025-03-10T14:30:45.123456789Z|"))
	_, _, _, err = DecodeToken(emptyID)
	assert.Error(t, err, "Should return an error for empty id")
	assert.Contains(t, err.Error(), "empty id", "Error should mention the empty id")
}
