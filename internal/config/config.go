package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AccountServiceURL string
	Locale            string
	LoginPassword     string
	HTTPTimeout       time.Duration
	KafkaBrokers      []string
	KafkaTopic        string
	LogLevel          string
	Env               string
}

// Load reads the environment, after loading .env if present.
func Load() (Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		AccountServiceURL: strings.TrimSpace(getEnv("ACCOUNT_SERVICE_URL", "http://localhost:8080")),
		Locale:            getEnv("APP_LOCALE", "de"),
		LoginPassword:     getEnv("LOGIN_PASSWORD", "admin"),
		KafkaBrokers:      splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "account_events"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Env:               getEnv("APP_ENV", "development"),
	}

	if cfg.AccountServiceURL == "" {
		return Config{}, errors.New("ACCOUNT_SERVICE_URL is required")
	}

	timeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout < 0 {
		return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT: %s is negative", timeout)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

// PublishingEnabled reports whether any Kafka broker is configured.
func (c Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
