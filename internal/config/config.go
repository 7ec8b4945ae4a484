package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Ledger
	SnapshotPath    string
	DefaultCurrency string

	// Analytics defaults
	AnomalyThreshold float64
	ForecastMonths   int

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		SnapshotPath:    getEnv("LEDGER_SNAPSHOT", ""),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "USD"),

		AnomalyThreshold: getEnvFloat("ANOMALY_THRESHOLD", 3.0),
		ForecastMonths:   getEnvInt("FORECAST_MONTHS", 3),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.AnomalyThreshold <= 0 {
		errors = append(errors, fmt.Sprintf("invalid anomaly threshold %v: must be positive", c.AnomalyThreshold))
	}
	if c.ForecastMonths < 1 {
		errors = append(errors, fmt.Sprintf("invalid forecast months %d: must be at least 1", c.ForecastMonths))
	}
	if c.DefaultCurrency == "" {
		errors = append(errors, "default currency cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.SnapshotPath != "" {
		if _, err := os.Stat(c.SnapshotPath); err != nil {
			errors = append(errors, fmt.Sprintf("ledger snapshot '%s' not readable: %v", c.SnapshotPath, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

// SlogLevel maps the configured level name to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
