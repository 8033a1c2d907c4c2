package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthkeep/household_ledger_app/internal/platform/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 720*time.Hour, cfg.IdempotencyRetention)
	assert.Equal(t, 24*time.Hour, cfg.SweepInterval)
}

func TestLoadConfig_SweepIntervalFromEnv(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "6h")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 6*time.Hour, cfg.SweepInterval)
}

func TestLoadConfig_InvalidSweepIntervalFallsBack(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "every-day")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.SweepInterval)
}

func TestLoadConfig_NegativeRetentionFallsBack(t *testing.T) {
	t.Setenv("IDEMPOTENCY_RETENTION", "-1h")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 720*time.Hour, cfg.IdempotencyRetention)
}
