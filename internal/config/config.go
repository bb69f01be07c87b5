package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gapdash/internal/errors"
)

// DefaultModel is the chat model used for summaries when LLM_MODEL is unset
const DefaultModel = "o4-mini-2025-04-16"

// Config represents the complete application configuration
type Config struct {
	AI       AIConfig
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
}

// AIConfig holds settings for the summary completion client
type AIConfig struct {
	OpenAIKey     string
	BaseURL       string
	Model         string
	SystemContext string
	MaxTokens     int
	Timeout       time.Duration
	MaxConcurrent int
}

// Enabled reports whether summaries can be requested
func (c AIConfig) Enabled() bool {
	return c.OpenAIKey != ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig selects the dataset source. An empty File means the embedded Gapminder data.
type DataConfig struct {
	File  string
	Sheet string
	Year  int
}

// DatabaseConfig holds the optional usage-log database connection
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether the usage log should be persisted
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI:       loadAIConfig(),
		Server:   loadServerConfig(),
		Data:     loadDataConfig(),
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig() AIConfig {
	return AIConfig{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		BaseURL:       getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:         getEnvOrDefault("LLM_MODEL", DefaultModel),
		SystemContext: getEnvOrDefault("SYSTEM_CONTEXT", "You are a data analyst."),
		MaxTokens:     getEnvIntOrDefault("MAX_TOKENS", 0),
		Timeout:       getEnvDurationOrDefault("AI_TIMEOUT", 180*time.Second),
		MaxConcurrent: getEnvIntOrDefault("AI_MAX_CONCURRENT", 4),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		File:  getEnvOrDefault("DATASET_FILE", ""),
		Sheet: getEnvOrDefault("DATASET_SHEET", "Sheet1"),
		Year:  getEnvIntOrDefault("DATASET_YEAR", 2007),
	}
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Server.Port) == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if strings.TrimSpace(config.AI.Model) == "" {
		return errors.ConfigInvalid("LLM_MODEL must not be blank")
	}
	if config.AI.Timeout <= 0 {
		return errors.ConfigInvalid("AI_TIMEOUT must be positive")
	}
	if config.AI.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("AI_MAX_CONCURRENT must be positive")
	}
	if config.AI.MaxTokens < 0 {
		return errors.ConfigInvalid("MAX_TOKENS must not be negative")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be one of debug, release, test")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
