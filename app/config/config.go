package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig holds process-level configuration. It is loaded once at startup
// from the environment (a .env file is honored when present). User-editable
// runtime settings live in the settings table instead, because they are part
// of the data file that backup/restore copies around.
type AppConfig struct {
	// DatabasePath is the location of the single local store file.
	DatabasePath string

	// BackupDir is where timestamped store backups are written.
	BackupDir string

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string
	// LogFormat is "console" or "json".
	LogFormat string

	// FirstRun toggles seeding of default settings after migration.
	FirstRun bool
}

// Load builds the configuration from environment variables with defaults
// suitable for a single-machine install.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		DatabasePath: getEnv("BOOKS_DB_PATH", filepath.Join("data", "invoices.db")),
		BackupDir:    getEnv("BOOKS_BACKUP_DIR", "backups"),
		LogLevel:     getEnv("BOOKS_LOG_LEVEL", "info"),
		LogFormat:    getEnv("BOOKS_LOG_FORMAT", "console"),
	}

	if v := os.Getenv("BOOKS_FIRST_RUN"); v != "" {
		if firstRun, err := strconv.ParseBool(v); err == nil {
			cfg.FirstRun = firstRun
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
