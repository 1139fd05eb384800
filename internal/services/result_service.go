package services

import (
	"fmt"

	"github.com/ozonqa/storefront-e2e/internal/models"
)

// ScenarioRunRepository defines the interface for scenario run persistence
type ScenarioRunRepository interface {
	SaveScenarioRun(run *models.ScenarioRun) error
	ListByRunID(runID string) ([]*models.ScenarioRun, error)
	ListRecent(limit int) ([]*models.ScenarioRun, error)
}

// ResultService records and reads back scenario run results
type ResultService interface {
	Record(run *models.ScenarioRun) error
	RunResults(runID string) ([]*models.ScenarioRun, error)
	History(limit int) ([]*models.ScenarioRun, error)
}

// MaxHistory caps History queries
const MaxHistory = 500

// ResultServiceImpl implements ResultService
type ResultServiceImpl struct {
	repo ScenarioRunRepository
}

// NewResultService creates a new result service
func NewResultService(repo ScenarioRunRepository) ResultService {
	return &ResultServiceImpl{
		repo: repo,
	}
}

// Record persists a finished scenario run
func (s *ResultServiceImpl) Record(run *models.ScenarioRun) error {
	if run == nil {
		return fmt.Errorf("scenario run is nil")
	}
	if !run.IsFinished() {
		return fmt.Errorf("cannot record %s: scenario run is still pending", run.Title())
	}

	if err := s.repo.SaveScenarioRun(run); err != nil {
		return fmt.Errorf("failed to record %s: %w", run.Title(), err)
	}
	return nil
}

// RunResults returns the scenarios of one suite run
func (s *ResultServiceImpl) RunResults(runID string) ([]*models.ScenarioRun, error) {
	if runID == "" {
		return nil, models.ErrEmptyRunID
	}
	runs, err := s.repo.ListByRunID(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run results: %w", err)
	}
	return runs, nil
}

// History returns the latest recorded scenario runs. limit is clamped to
// [1, MaxHistory].
func (s *ResultServiceImpl) History(limit int) ([]*models.ScenarioRun, error) {
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxHistory {
		limit = MaxHistory
	}
	runs, err := s.repo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return runs, nil
}

// NopResultService drops every result; used when no database is configured
type NopResultService struct{}

func (NopResultService) Record(*models.ScenarioRun) error { return nil }

func (NopResultService) RunResults(string) ([]*models.ScenarioRun, error) { return nil, nil }

func (NopResultService) History(int) ([]*models.ScenarioRun, error) { return nil, nil }
