package database

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"BooksApp/app/logger"
)

// Backup snapshots the whole store file into dir and returns the backup
// path. VACUUM INTO produces a consistent copy without closing the handle.
func Backup(dir string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("database not initialized")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("invoices_backup_%s.db", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := db.Exec("VACUUM INTO ?", path).Error; err != nil {
		return "", fmt.Errorf("backup failed: %w", err)
	}

	log := logger.WithComponent("database")
	log.Info().Str("path", path).Msg("backup created")
	return path, nil
}

// Restore replaces the store with a backup file, then reopens it and
// re-runs migrations so an older backup is brought up to the current schema.
func Restore(backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not accessible: %w", err)
	}

	if err := Close(); err != nil {
		return fmt.Errorf("failed to close store before restore: %w", err)
	}

	if err := copyFile(backupPath, dbPath); err != nil {
		return fmt.Errorf("failed to copy backup into place: %w", err)
	}

	gdb, err := openStore(dbPath)
	if err != nil {
		return err
	}
	db = gdb

	if err := RunMigrations(db); err != nil {
		return fmt.Errorf("failed to migrate restored store: %w", err)
	}

	log := logger.WithComponent("database")
	log.Info().Str("path", backupPath).Msg("store restored from backup")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
