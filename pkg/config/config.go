// Package config loads the application-level settings that apply across all
// banks: the user's display name (used by the transfer detector's name-match
// bonus), date tolerance, transfer confidence threshold, and the default
// category assigned to both sides of a detected transfer pair.
//
// Settings are read from an app.conf INI file (see bankconfig for the
// per-bank equivalent) and can be overridden by environment variables, in
// line with how the rest of this codebase lets deployment-time env vars win.
package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds the global application configuration (spec.md §3 AppConfig).
type Config struct {
	UserName               string
	DateToleranceHours     int
	ConfidenceThreshold    float64
	DefaultPairCategory    string
}

const (
	defaultDateToleranceHours  = 72
	defaultConfidenceThreshold = 0.7
	defaultPairCategory        = "Balance Correction"
)

// Defaults returns the zero-configuration defaults, matching the original
// system's unified_config_service fallbacks.
func Defaults() *Config {
	return &Config{
		UserName:            "",
		DateToleranceHours:  defaultDateToleranceHours,
		ConfidenceThreshold: defaultConfidenceThreshold,
		DefaultPairCategory: defaultPairCategory,
	}
}

// Load reads app.conf (if present) and then applies environment variable
// overrides. A missing path is not an error: Defaults() are used instead.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			file, err := ini.Load(path)
			if err != nil {
				return nil, err
			}
			general := file.Section("general")
			cfg.UserName = general.Key("user_name").MustString(cfg.UserName)
			cfg.DateToleranceHours = general.Key("date_tolerance_hours").MustInt(cfg.DateToleranceHours)

			transfer := file.Section("transfer_detection")
			cfg.ConfidenceThreshold = transfer.Key("confidence_threshold").MustFloat64(cfg.ConfidenceThreshold)

			categorization := file.Section("transfer_categorization")
			cfg.DefaultPairCategory = categorization.Key("default_pair_category").MustString(cfg.DefaultPairCategory)
		}
	}

	cfg.UserName = getEnv("LEDGER_USER_NAME", cfg.UserName)
	cfg.DateToleranceHours = getEnvAsInt("LEDGER_DATE_TOLERANCE_HOURS", cfg.DateToleranceHours)
	cfg.ConfidenceThreshold = getEnvAsFloat("LEDGER_CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold)
	cfg.DefaultPairCategory = getEnv("LEDGER_DEFAULT_PAIR_CATEGORY", cfg.DefaultPairCategory)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
