package repository

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Schera-ole/hostmetrics/internal/config"
	"github.com/Schera-ole/hostmetrics/internal/migration"
)

// Open creates the repository named by storage and brings SQL schemas up
// to date. historyLimit bounds the memory ring.
func Open(storage, dsn string, historyLimit int, logger *zap.SugaredLogger) (Repository, error) {
	switch storage {
	case config.StorageMemory, "":
		logger.Infow("using memory storage", "history_limit", historyLimit)
		return NewMemStorage(historyLimit), nil
	case config.StoragePostgres:
		db, err := NewDBStorage(dsn)
		if err != nil {
			return nil, err
		}
		if err := migration.RunMigrations(db.DB(), migration.Postgres, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating postgres: %w", err)
		}
		logger.Info("using postgres storage")
		return db, nil
	case config.StorageSQLite:
		db, err := NewSQLiteStorage(dsn)
		if err != nil {
			return nil, err
		}
		if err := migration.RunMigrations(db.DB(), migration.SQLite, logger); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating sqlite: %w", err)
		}
		logger.Infow("using sqlite storage", "path", dsn)
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", storage)
	}
}
