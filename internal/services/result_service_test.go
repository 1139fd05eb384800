package services

import (
	"errors"
	"testing"

	"github.com/ozonqa/storefront-e2e/internal/models"
)

// MockScenarioRunRepository is a mock implementation of ScenarioRunRepository for testing
type MockScenarioRunRepository struct {
	SaveScenarioRunFunc func(*models.ScenarioRun) error
	ListByRunIDFunc     func(string) ([]*models.ScenarioRun, error)
	ListRecentFunc      func(int) ([]*models.ScenarioRun, error)
}

func (m *MockScenarioRunRepository) SaveScenarioRun(run *models.ScenarioRun) error {
	if m.SaveScenarioRunFunc != nil {
		return m.SaveScenarioRunFunc(run)
	}
	return nil
}

func (m *MockScenarioRunRepository) ListByRunID(runID string) ([]*models.ScenarioRun, error) {
	if m.ListByRunIDFunc != nil {
		return m.ListByRunIDFunc(runID)
	}
	return nil, nil
}

func (m *MockScenarioRunRepository) ListRecent(limit int) ([]*models.ScenarioRun, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(limit)
	}
	return nil, nil
}

func finishedRun(t *testing.T) *models.ScenarioRun {
	t.Helper()
	run, err := models.NewScenarioRun(models.NewRunID(), "homepage", "Top bar links")
	if err != nil {
		t.Fatal(err)
	}
	if err := run.Pass(1); err != nil {
		t.Fatal(err)
	}
	return run
}

func TestResultService_Record(t *testing.T) {
	pending, _ := models.NewScenarioRun(models.NewRunID(), "cart", "Delete selected items")

	tests := []struct {
		name      string
		run       *models.ScenarioRun
		mockError error
		wantSaved bool
		wantErr   bool
	}{
		{
			name:      "successful record",
			run:       finishedRun(t),
			wantSaved: true,
		},
		{
			name:      "repository error",
			run:       finishedRun(t),
			mockError: errors.New("database error"),
			wantSaved: true,
			wantErr:   true,
		},
		{
			name:    "pending run is rejected",
			run:     pending,
			wantErr: true,
		},
		{
			name:    "nil run is rejected",
			run:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := false
			mockRepo := &MockScenarioRunRepository{
				SaveScenarioRunFunc: func(run *models.ScenarioRun) error {
					saved = true
					if run != tt.run {
						t.Error("Expected the recorded run to be passed through")
					}
					return tt.mockError
				},
			}

			err := NewResultService(mockRepo).Record(tt.run)

			if (err != nil) != tt.wantErr {
				t.Errorf("Record() error = %v, wantErr %v", err, tt.wantErr)
			}
			if saved != tt.wantSaved {
				t.Errorf("Expected saved = %v, got %v", tt.wantSaved, saved)
			}
			if tt.mockError != nil && !errors.Is(err, tt.mockError) {
				t.Errorf("Expected repository error to be wrapped, got %v", err)
			}
		})
	}
}

func TestResultService_RunResults(t *testing.T) {
	want := []*models.ScenarioRun{finishedRun(t)}
	mockRepo := &MockScenarioRunRepository{
		ListByRunIDFunc: func(runID string) ([]*models.ScenarioRun, error) {
			if runID != "run-1" {
				t.Errorf("Unexpected run ID %q", runID)
			}
			return want, nil
		},
	}
	service := NewResultService(mockRepo)

	got, err := service.RunResults("run-1")
	if err != nil || len(got) != 1 {
		t.Errorf("RunResults() = %v, %v", got, err)
	}

	if _, err := service.RunResults(""); !errors.Is(err, models.ErrEmptyRunID) {
		t.Errorf("Expected ErrEmptyRunID, got %v", err)
	}
}

func TestResultService_History(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
		mockError error
		wantErr   bool
	}{
		{name: "limit passed through", limit: 20, wantLimit: 20},
		{name: "zero limit", limit: 0, wantLimit: 1},
		{name: "limit above maximum", limit: 10000, wantLimit: MaxHistory},
		{name: "repository error", limit: 20, wantLimit: 20, mockError: errors.New("database error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockScenarioRunRepository{
				ListRecentFunc: func(limit int) ([]*models.ScenarioRun, error) {
					if limit != tt.wantLimit {
						t.Errorf("Expected limit %d, got %d", tt.wantLimit, limit)
					}
					return nil, tt.mockError
				},
			}

			_, err := NewResultService(mockRepo).History(tt.limit)

			if (err != nil) != tt.wantErr {
				t.Errorf("History() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNopResultService(t *testing.T) {
	var s ResultService = NopResultService{}
	if err := s.Record(finishedRun(t)); err != nil {
		t.Errorf("Record() error = %v", err)
	}
	if runs, err := s.History(10); err != nil || runs != nil {
		t.Errorf("History() = %v, %v", runs, err)
	}
}
