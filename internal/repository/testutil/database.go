package testutil

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/ozonqa/storefront-e2e/internal/config"
	"github.com/ozonqa/storefront-e2e/internal/database"
)

// localDefaults are used for any POSTGRES_* variable that is not set
var localDefaults = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
}

// TestDatabase is a schema private to one test, dropped on Teardown
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	masterDB   *sql.DB
}

// SetupTestDatabase creates an isolated, migrated schema for testing
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	pgConfig, err := config.LoadPostgresConfig(envWithDefaults)
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}
	connStr := pgConfig.ConnectionString()

	masterDB, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to master database: %v", err)
	}
	if err := masterDB.Ping(); err != nil {
		masterDB.Close()
		t.Skipf("Postgres not reachable, skipping: %v", err)
	}

	schemaName := fmt.Sprintf("test_runs_%d_%d", time.Now().UnixNano(), rand.Intn(10000))
	if _, err := masterDB.Exec(fmt.Sprintf("CREATE SCHEMA %s", schemaName)); err != nil {
		masterDB.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	td := &TestDatabase{SchemaName: schemaName, masterDB: masterDB}

	td.DB, err = sql.Open("postgres", fmt.Sprintf("%s search_path=%s", connStr, schemaName))
	if err != nil {
		td.Teardown(t)
		t.Fatalf("Failed to connect to test schema: %v", err)
	}
	td.DB.SetMaxOpenConns(2)

	if err := database.Migrate(td.DB); err != nil {
		td.Teardown(t)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return td
}

// Teardown drops the test schema and closes both connections
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	if td.DB != nil {
		td.DB.Close()
	}
	if td.masterDB != nil {
		if _, err := td.masterDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", td.SchemaName)); err != nil {
			t.Logf("Warning: Failed to drop test schema %s: %v", td.SchemaName, err)
		}
		td.masterDB.Close()
	}
}

func envWithDefaults(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return localDefaults[key]
}
