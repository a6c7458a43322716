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
	DataSource       string // Raw feed location: file path, http(s):// URL or s3://bucket/key
	DataDir          string // Base directory for the snapshot cache database (always absolute)
	Port             int
	LogLevel         string
	DevMode          bool
	IncludeZeroVol   bool   // Retain zero-volatility assets with the classifier's default band
	ReloadSchedule   string // Cron expression for the feed reload job, empty disables it
	AWSRegion        string // Region for s3:// feed sources
	SnapshotCacheTTL int    // Cache entry lifetime in hours, 0 disables the cache
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("RISKRIVER_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataSource:       getEnv("RISKRIVER_DATA_SOURCE", filepath.Join(absDataDir, "full_asset_analysis.json")),
		DataDir:          absDataDir,
		Port:             getEnvAsInt("GO_PORT", 8001),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		IncludeZeroVol:   getEnvAsBool("BANDING_INCLUDE_ZERO_VOL", true),
		ReloadSchedule:   getEnv("RELOAD_SCHEDULE", "0 0 */6 * * *"), // Every 6 hours
		AWSRegion:        getEnv("AWS_REGION", "eu-central-1"),
		SnapshotCacheTTL: getEnvAsInt("SNAPSHOT_CACHE_TTL_HOURS", 24),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DataSource == "" {
		return fmt.Errorf("data source must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
