package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Local snapshot store
	SnapshotDBPath string

	// Remote store
	DriveAccessToken string

	// Sync
	SyncTimeout time.Duration
}

func Load() *Config {
	return &Config{
		SnapshotDBPath:   getEnv("SNAPSHOT_DB_PATH", "./data/viagem.db"),
		DriveAccessToken: getEnv("DRIVE_ACCESS_TOKEN", ""),
		SyncTimeout:      getEnvDuration("SYNC_TIMEOUT", 60*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.SnapshotDBPath == "" {
		errors = append(errors, "snapshot database path cannot be empty")
	}

	if c.SyncTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync timeout %v: must be at least 1 second", c.SyncTimeout))
	} else if c.SyncTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid sync timeout %v: must be at most 10 minutes", c.SyncTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
