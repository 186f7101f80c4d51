// Package config loads agent and server settings from defaults, a YAML
// file, a dotenv file, the environment and command-line flags, in that
// order of precedence.
package config

const (
	// StorageMemory keeps history in a bounded in-process ring.
	StorageMemory = "memory"

	// StoragePostgres keeps history in PostgreSQL via DATABASE_DSN.
	StoragePostgres = "postgres"

	// StorageSQLite keeps history in an embedded SQLite file named by
	// DATABASE_DSN.
	StorageSQLite = "sqlite"
)
