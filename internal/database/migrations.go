package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Schema creates the tables used to record scenario runs
const Schema = `
	CREATE TABLE IF NOT EXISTS scenario_runs (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL,
		suite VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_runs_run_id ON scenario_runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_scenario_runs_status ON scenario_runs(status);
	`

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

// Migrate applies Schema to db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create scenario_runs table: %w", err)
	}
	return nil
}
