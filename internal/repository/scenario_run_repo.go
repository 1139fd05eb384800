package repository

import (
	"database/sql"
	"fmt"

	"github.com/ozonqa/storefront-e2e/internal/database"
	"github.com/ozonqa/storefront-e2e/internal/models"
)

// ScenarioRunRepository handles database operations for scenario runs
type ScenarioRunRepository struct {
	db *sql.DB
}

// NewScenarioRunRepository creates a repository on the shared connection
func NewScenarioRunRepository() *ScenarioRunRepository {
	return &ScenarioRunRepository{
		db: database.DB,
	}
}

// NewScenarioRunRepositoryWithDB creates a new repository with a specific database connection
func NewScenarioRunRepositoryWithDB(db *sql.DB) *ScenarioRunRepository {
	return &ScenarioRunRepository{
		db: db,
	}
}

// SaveScenarioRun inserts a finished scenario run
func (r *ScenarioRunRepository) SaveScenarioRun(run *models.ScenarioRun) error {
	if !run.IsFinished() {
		return fmt.Errorf("scenario run %s is still pending", run.ID)
	}

	query := `
		INSERT INTO scenario_runs (id, run_id, suite, name, status, attempts, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
	`

	_, err := r.db.Exec(query,
		run.ID,
		run.RunID,
		run.Suite,
		run.Name,
		run.Status,
		run.Attempts,
		run.Error,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save scenario run: %w", err)
	}

	return nil
}

// ListByRunID returns every scenario of one suite run in start order
func (r *ScenarioRunRepository) ListByRunID(runID string) ([]*models.ScenarioRun, error) {
	query := `
		SELECT id, run_id, suite, name, status, attempts,
		       COALESCE(error, ''), started_at, finished_at
		FROM scenario_runs
		WHERE run_id = $1
		ORDER BY started_at, name
	`
	return r.query(query, runID)
}

// ListRecent returns the latest scenario runs, newest first
func (r *ScenarioRunRepository) ListRecent(limit int) ([]*models.ScenarioRun, error) {
	query := `
		SELECT id, run_id, suite, name, status, attempts,
		       COALESCE(error, ''), started_at, finished_at
		FROM scenario_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	return r.query(query, limit)
}

func (r *ScenarioRunRepository) query(query string, args ...any) ([]*models.ScenarioRun, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ScenarioRun
	for rows.Next() {
		run := &models.ScenarioRun{}
		var finishedAt sql.NullTime
		if err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.Suite,
			&run.Name,
			&run.Status,
			&run.Attempts,
			&run.Error,
			&run.StartedAt,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scenario run: %w", err)
		}
		run.FinishedAt = finishedAt.Time
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scenario runs: %w", err)
	}

	return runs, nil
}
