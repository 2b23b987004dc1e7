package service

import (
	"fmt"
	"os"

	"ordercore/internal/infra/persistence/memory"
	"ordercore/internal/infra/persistence/postgres"
	"ordercore/internal/infra/persistence/sqlite"
	"ordercore/internal/orders"
)

// StorageDriver identifies a persistence backend.
type StorageDriver string

const (
	// StorageMemory keeps state in process memory only.
	StorageMemory StorageDriver = "memory"
	// StorageSQLite snapshots state to a local SQLite file.
	StorageSQLite StorageDriver = "sqlite"
	// StoragePostgres snapshots state to Postgres.
	StoragePostgres StorageDriver = "postgres"
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	ORDERCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	ORDERCORE_SQLITE_PATH: path to sqlite file (default ./ordercore.db)
//	ORDERCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore() (orders.Store, error) {
	driver := os.Getenv("ORDERCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("ORDERCORE_SQLITE_PATH"))
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("ORDERCORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
