package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ACCOUNT_SERVICE_URL", "APP_LOCALE", "LOGIN_PASSWORD", "HTTP_TIMEOUT",
		"KAFKA_BROKERS", "KAFKA_TOPIC", "LOG_LEVEL", "APP_ENV",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.AccountServiceURL)
	require.Equal(t, "de", cfg.Locale)
	require.Equal(t, "admin", cfg.LoginPassword)
	require.Equal(t, "account_events", cfg.KafkaTopic)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "development", cfg.Env)
	require.Zero(t, cfg.HTTPTimeout)
	require.Empty(t, cfg.KafkaBrokers)
	require.False(t, cfg.PublishingEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCOUNT_SERVICE_URL", "http://bank.internal:9000")
	t.Setenv("APP_LOCALE", "vi")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("KAFKA_TOPIC", "bank")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://bank.internal:9000", cfg.AccountServiceURL)
	require.Equal(t, "vi", cfg.Locale)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, "bank", cfg.KafkaTopic)
	require.True(t, cfg.PublishingEnabled())
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCOUNT_SERVICE_URL", "  ")

	_, err := Load()
	require.ErrorContains(t, err, "ACCOUNT_SERVICE_URL")

	t.Setenv("ACCOUNT_SERVICE_URL", "http://x")
	t.Setenv("HTTP_TIMEOUT", "soon")
	_, err = Load()
	require.ErrorContains(t, err, "HTTP_TIMEOUT")

	t.Setenv("HTTP_TIMEOUT", "-1s")
	_, err = Load()
	require.ErrorContains(t, err, "negative")
}
