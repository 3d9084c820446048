package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDuration(t *testing.T) {
	t.Run("go duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "15m")
		assert.Equal(t, 15*time.Minute, GetDuration("TEST_DURATION", time.Second))
	})

	t.Run("bare number is seconds", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "90")
		assert.Equal(t, 90*time.Second, GetDuration("TEST_DURATION", time.Second))
	})

	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "soon")
		assert.Equal(t, time.Second, GetDuration("TEST_DURATION", time.Second))
	})

	t.Run("unset falls back", func(t *testing.T) {
		assert.Equal(t, 3*time.Second, GetDuration("TEST_DURATION_UNSET", 3*time.Second))
	})
}

func TestLoadSchedulerConfig_Defaults(t *testing.T) {
	cfg := LoadSchedulerConfig()

	assert.Equal(t, 60*time.Second, cfg.Interval)
	assert.Equal(t, 15*time.Minute, cfg.WindowStart)
	assert.Equal(t, 45*time.Minute, cfg.WindowEnd)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLoadSchedulerConfig_Overrides(t *testing.T) {
	t.Setenv("SCHEDULER_INTERVAL", "5s")
	t.Setenv("REMINDER_WINDOW_START", "10m")
	t.Setenv("REMINDER_WINDOW_END", "20m")
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")

	cfg := LoadSchedulerConfig()

	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, 10*time.Minute, cfg.WindowStart)
	assert.Equal(t, 20*time.Minute, cfg.WindowEnd)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoadSchedulerConfig_SwapsInvertedWindow(t *testing.T) {
	t.Setenv("REMINDER_WINDOW_START", "45m")
	t.Setenv("REMINDER_WINDOW_END", "15m")

	cfg := LoadSchedulerConfig()

	assert.Equal(t, 15*time.Minute, cfg.WindowStart)
	assert.Equal(t, 45*time.Minute, cfg.WindowEnd)
}

func TestLoadPaymentConfig_Normalizes(t *testing.T) {
	t.Setenv("PAYMENT_PROVIDER", "Cashfree")
	t.Setenv("PAYMENT_ENVIRONMENT", "PRODUCTION")
	t.Setenv("PAYMENT_CURRENCY", "inr")

	cfg := LoadPaymentConfig()

	assert.Equal(t, "cashfree", cfg.Provider)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "INR", cfg.Currency)
}

func TestLoadServerConfig_ParsesOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := LoadServerConfig()

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "3001", cfg.Port)
}

func TestLoadTelegramConfig_InvalidChatID(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	cfg := LoadTelegramConfig()

	assert.Equal(t, "token", cfg.BotToken)
	assert.Zero(t, cfg.ChatID)
}
