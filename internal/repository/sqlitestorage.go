package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStorage keeps history in an embedded SQLite database file.
type SQLiteStorage struct {
	sqlStorage
}

// NewSQLiteStorage opens path. SQLite allows one writer, so the pool is
// limited to a single connection.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStorage{sqlStorage{db: db, rebind: questionMarks}}, nil
}

// DB exposes the connection for migrations.
func (storage *SQLiteStorage) DB() *sql.DB {
	return storage.db
}
