package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the outcome of one scenario within a suite run
type RunStatus string

// Scenario run statuses
const (
	RunStatusPending RunStatus = "pending"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFlaky   RunStatus = "flaky"
	RunStatusFailed  RunStatus = "failed"
	RunStatusSkipped RunStatus = "skipped"
)

// ScenarioRun is the recorded result of one scenario, across all of its attempts
type ScenarioRun struct {
	ID         string
	RunID      string
	Suite      string
	Name       string
	Status     RunStatus
	Attempts   int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Domain errors
var (
	ErrEmptyRunID              = errors.New("run ID cannot be empty")
	ErrEmptySuite              = errors.New("suite cannot be empty")
	ErrEmptyScenarioName       = errors.New("scenario name cannot be empty")
	ErrInvalidAttempts         = errors.New("attempts must be positive")
	ErrInvalidStatusTransition = errors.New("invalid scenario run status transition")
)

// NewRunID returns an identifier shared by every scenario of one suite run
func NewRunID() string {
	return uuid.New().String()
}

// NewScenarioRun starts a pending scenario run
func NewScenarioRun(runID, suite, name string) (*ScenarioRun, error) {
	if runID == "" {
		return nil, ErrEmptyRunID
	}
	if suite == "" {
		return nil, ErrEmptySuite
	}
	if name == "" {
		return nil, ErrEmptyScenarioName
	}

	return &ScenarioRun{
		ID:        uuid.New().String(),
		RunID:     runID,
		Suite:     suite,
		Name:      name,
		Status:    RunStatusPending,
		StartedAt: time.Now(),
	}, nil
}

// Pass marks the run as passed. A pass that needed more than one attempt is flaky.
func (r *ScenarioRun) Pass(attempts int) error {
	if err := r.finish(attempts); err != nil {
		return err
	}
	r.Status = RunStatusPassed
	if attempts > 1 {
		r.Status = RunStatusFlaky
	}
	return nil
}

// Fail marks the run as failed with the error of its last attempt
func (r *ScenarioRun) Fail(attempts int, cause error) error {
	if err := r.finish(attempts); err != nil {
		return err
	}
	r.Status = RunStatusFailed
	if cause != nil {
		r.Error = cause.Error()
	}
	return nil
}

// Skip marks a scenario that was not executed
func (r *ScenarioRun) Skip(reason string) error {
	if r.Status != RunStatusPending {
		return fmt.Errorf("%w: cannot skip scenario run with status %s", ErrInvalidStatusTransition, r.Status)
	}
	r.Status = RunStatusSkipped
	r.Error = reason
	r.FinishedAt = time.Now()
	return nil
}

func (r *ScenarioRun) finish(attempts int) error {
	if r.Status != RunStatusPending {
		return fmt.Errorf("%w: scenario run already %s", ErrInvalidStatusTransition, r.Status)
	}
	if attempts <= 0 {
		return ErrInvalidAttempts
	}
	r.Attempts = attempts
	r.FinishedAt = time.Now()
	return nil
}

// IsFinished returns true once the run has left the pending status
func (r *ScenarioRun) IsFinished() bool {
	return r.Status != RunStatusPending
}

// IsFailed returns true if the scenario failed on every attempt
func (r *ScenarioRun) IsFailed() bool {
	return r.Status == RunStatusFailed
}

// Duration returns the wall time spent on the scenario
func (r *ScenarioRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Title returns "suite › name"
func (r *ScenarioRun) Title() string {
	return fmt.Sprintf("%s › %s", r.Suite, r.Name)
}
