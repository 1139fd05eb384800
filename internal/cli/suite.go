package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ozonqa/storefront-e2e/internal/report"
	"github.com/ozonqa/storefront-e2e/internal/runner"
	"github.com/ozonqa/storefront-e2e/internal/scenario"
	"github.com/ozonqa/storefront-e2e/internal/services"
)

// ErrScenariosFailed is returned by RunSuite when at least one scenario failed
var ErrScenariosFailed = errors.New("scenarios failed")

// SuiteDependencies holds everything needed for one suite run
type SuiteDependencies struct {
	Sessions runner.SessionFactory
	Results  services.ResultService
	Options  runner.Options
	Log      logrus.FieldLogger
	Out      io.Writer
}

// RunSuite runs the scenarios selected by suite and grep, prints the summary
// to deps.Out and reports whether anything failed
func RunSuite(ctx context.Context, deps SuiteDependencies, suite, grep string) error {
	if err := CheckSuite(suite); err != nil {
		return err
	}
	selected := scenario.Select(scenario.Catalogue(), suite, grep)
	if len(selected) == 0 {
		return fmt.Errorf("no scenarios match suite %q and grep %q", suite, grep)
	}

	results := deps.Results
	if results == nil {
		results = services.NopResultService{}
	}

	deps.Log.WithFields(logrus.Fields{
		"suite": suite,
		"grep":  grep,
	}).Debugf("Selected %d scenarios", len(selected))

	runs, err := runner.New(deps.Sessions, results, deps.Log, deps.Options).Run(ctx, selected)
	report.Summarize(deps.Out, runs)
	if err != nil {
		return fmt.Errorf("suite run interrupted: %w", err)
	}
	if report.Failed(runs) {
		return ErrScenariosFailed
	}
	return nil
}

// CheckSuite rejects a suite name no scenario belongs to. An empty name selects
// every suite.
func CheckSuite(suite string) error {
	if suite == "" {
		return nil
	}
	known := scenario.Suites(scenario.Catalogue())
	if !slices.Contains(known, suite) {
		return fmt.Errorf("unknown suite %q, expected one of: %s", suite, strings.Join(known, ", "))
	}
	return nil
}

// ListScenarios prints the titles of the selected scenarios, marking skipped ones
func ListScenarios(w io.Writer, suite, grep string) int {
	selected := scenario.Select(scenario.Catalogue(), suite, grep)
	for _, s := range selected {
		if s.Skip != "" {
			fmt.Fprintf(w, "%s (skipped: %s)\n", s.Title(), s.Skip)
			continue
		}
		fmt.Fprintln(w, s.Title())
	}
	return len(selected)
}

// PrintHistory prints the latest recorded scenario runs
func PrintHistory(w io.Writer, results services.ResultService, limit int) error {
	runs, err := results.History(limit)
	if err != nil {
		return err
	}
	report.History(w, runs)
	return nil
}

// PrintRun prints the recorded scenarios of one suite run and their summary
func PrintRun(w io.Writer, results services.ResultService, runID string) error {
	runs, err := results.RunResults(runID)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return fmt.Errorf("no recorded scenarios for run %q", runID)
	}
	report.Summarize(w, runs)
	return nil
}
