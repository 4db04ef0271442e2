// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/database"
	"github.com/OCAP2/acmi/internal/logging"
	gormstorage "github.com/OCAP2/acmi/internal/storage/gorm"
	influxstorage "github.com/OCAP2/acmi/internal/storage/influx"
	"github.com/OCAP2/acmi/internal/storage/memory"
)

// Compile-time interface checks
var (
	_ Backend     = (*memory.Backend)(nil)
	_ Exporter    = (*memory.Backend)(nil)
	_ Backend     = (*gormstorage.Backend)(nil)
	_ Snapshotter = (*gormstorage.Backend)(nil)
	_ Reader      = (*gormstorage.Backend)(nil)
	_ Backend     = (*influxstorage.Backend)(nil)
)

// Dependencies holds what the backends share.
type Dependencies struct {
	Logger *slog.Logger
	// LogLevel configures the zerolog logger of the InfluxDB backend.
	LogLevel string
	// LogsDir receives the InfluxDB line-protocol backup when the server is unreachable.
	LogsDir string
}

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("storage", cfg.Type)

	switch cfg.Type {
	case config.StoragePostgres:
		db, err := database.GetPostgresDB(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return gormstorage.New(gormstorage.Dependencies{DB: db, Logger: log}), nil
	case config.StorageSQLite:
		if dir := filepath.Dir(cfg.SQLite.Path); cfg.SQLite.Path != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		db, err := database.GetSqliteDB(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return gormstorage.New(gormstorage.Dependencies{DB: db, Logger: log}), nil
	case config.StorageInflux:
		backupPath := ""
		if deps.LogsDir != "" {
			backupPath = filepath.Join(deps.LogsDir, "influx_backup.lp.gz")
		}
		return influxstorage.New(cfg.Influx, influxstorage.Dependencies{
			Logger:     logging.NewZerolog(os.Stderr, deps.LogLevel),
			BackupPath: backupPath,
		}), nil
	case config.StorageMemory:
		return memory.New(cfg.Memory, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
