// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir         string // Base directory for databases (always absolute)
	Port            int
	LogLevel        string
	DevMode         bool
	DeribitBaseURL  string  // Deribit public API base URL
	Currency        string  // Underlying currency for the option chain (e.g. "BTC")
	RefreshSchedule string  // Cron schedule for ladder recomputation
	MaxProbExercise float64 // Admission cap on per-leg probability of exercise
	NumLegs         int     // Fixed ladder size; 0 sweeps 1..5 automatically
	AllowRepetition bool    // Allow the same contract more than once per ladder
	HistoryKeep     int     // Published results retained in the history database
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("LADDER_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            getEnvAsInt("LADDER_PORT", 8001),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		DeribitBaseURL:  getEnv("DERIBIT_BASE_URL", "https://www.deribit.com"),
		Currency:        getEnv("LADDER_CURRENCY", "BTC"),
		RefreshSchedule: getEnv("LADDER_REFRESH_SCHEDULE", "@every 30s"),
		MaxProbExercise: getEnvAsFloat("LADDER_MAX_PROB_EXERCISE", 0.30),
		NumLegs:         getEnvAsInt("LADDER_NUM_LEGS", 0),
		AllowRepetition: getEnvAsBool("LADDER_ALLOW_REPETITION", false),
		HistoryKeep:     getEnvAsInt("LADDER_HISTORY_KEEP", 200),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and consistent
func (c *Config) Validate() error {
	if c.NumLegs < 0 || c.NumLegs > 5 {
		return fmt.Errorf("LADDER_NUM_LEGS must be 0 (auto) or 1..5, got %d", c.NumLegs)
	}
	if c.MaxProbExercise <= 0 || c.MaxProbExercise > 1 {
		return fmt.Errorf("LADDER_MAX_PROB_EXERCISE must be in (0,1], got %f", c.MaxProbExercise)
	}
	if c.HistoryKeep < 0 {
		return fmt.Errorf("LADDER_HISTORY_KEEP must be >= 0, got %d", c.HistoryKeep)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
