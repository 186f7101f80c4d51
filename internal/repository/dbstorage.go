package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBStorage keeps history in PostgreSQL through the pgx database/sql
// driver. The schema is created by migration.RunMigrations.
type DBStorage struct {
	sqlStorage
}

func NewDBStorage(dsn string) (*DBStorage, error) {
	dbConnect, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return &DBStorage{sqlStorage{db: dbConnect, rebind: dollarPlaceholders}}, nil
}

// DB exposes the connection pool for migrations.
func (storage *DBStorage) DB() *sql.DB {
	return storage.db
}
