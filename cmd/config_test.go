package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_ENABLED", "false")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.ReservationTTL)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 100, cfg.SweepBatchSize)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.False(t, cfg.TelegramEnabled)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=truckbot sslmode=disable", cfg.DSN())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHANNEL_ID", "-1001234567890")
	t.Setenv("RESERVATION_TTL", "10m")
	t.Setenv("SWEEP_INTERVAL", "1m")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.TelegramEnabled)
	assert.Equal(t, int64(-1001234567890), cfg.TelegramChannelID)
	assert.Equal(t, 10*time.Minute, cfg.ReservationTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		ReservationTTL:   15 * time.Minute,
		SweepInterval:    30 * time.Second,
		SweepBatchSize:   10,
		RetryInterval:    time.Second,
		RetryBatchSize:   10,
		RetryMaxAttempts: 3,
		RequestTimeout:   time.Second,
	}
	require.NoError(t, valid.Validate())

	t.Run("sweep must be shorter than the reservation", func(t *testing.T) {
		cfg := valid
		cfg.SweepInterval = 15 * time.Minute

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
	})

	t.Run("telegram needs token and channel", func(t *testing.T) {
		cfg := valid
		cfg.TelegramEnabled = true

		err := cfg.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")
		assert.Contains(t, err.Error(), "TELEGRAM_CHANNEL_ID")
	})
}
