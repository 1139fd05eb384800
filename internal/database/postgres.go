package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ozonqa/storefront-e2e/internal/config"
)

var DB *sql.DB

// Connect establishes a connection to the PostgreSQL database holding run results
func Connect(pgConfig *config.PostgresConfig) error {
	var err error
	DB, err = sql.Open("postgres", pgConfig.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Runs write one row per scenario; a small pool is plenty
	DB.SetMaxOpenConns(5)
	DB.SetMaxIdleConns(2)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
