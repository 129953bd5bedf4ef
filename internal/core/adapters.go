package core

import (
	"fmt"
	"os"

	"recordstore/internal/infra/adapter/memory"
	"recordstore/internal/infra/adapter/postgres"
	"recordstore/internal/infra/adapter/sqlite"
	"recordstore/pkg/domain"
)

// AdapterDriver identifies a concrete backend adapter implementation.
type AdapterDriver string

const (
	AdapterMemory   AdapterDriver = "memory"   // in-process only (tests / ephemeral)
	AdapterSQLite   AdapterDriver = "sqlite"   // embedded sqlite file
	AdapterPostgres AdapterDriver = "postgres" // PostgreSQL server
)

// OpenAdapter selects a backend adapter using environment variables.
// Defaults to memory when unset.
//
//	RECORDSTORE_ADAPTER: memory|sqlite|postgres (default memory)
//	RECORDSTORE_SQLITE_PATH: path to sqlite file (default ./recordstore.db)
//	RECORDSTORE_POSTGRES_DSN: postgres DSN when adapter=postgres
func OpenAdapter() (domain.Adapter, error) {
	driver := os.Getenv("RECORDSTORE_ADAPTER")
	if driver == "" {
		driver = string(AdapterMemory)
	}
	switch AdapterDriver(driver) {
	case AdapterMemory:
		return memory.New(), nil
	case AdapterSQLite:
		return sqlite.New(os.Getenv("RECORDSTORE_SQLITE_PATH"))
	case AdapterPostgres:
		return postgres.New(os.Getenv("RECORDSTORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown adapter driver %s", driver)
	}
}
