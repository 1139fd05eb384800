// Package runner executes scenarios on a pool of workers, one fresh browser
// session per attempt, retrying failures and recording every outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/config"
	"github.com/ozonqa/storefront-e2e/internal/models"
	"github.com/ozonqa/storefront-e2e/internal/scenario"
)

// screenshotTimeout bounds the capture of an attempt that outlived its timeout.
const screenshotTimeout = 5 * time.Second

// Session is an isolated browser context holding one page.
type Session interface {
	Handle() browser.Handle
	Screenshot(path string) error
	Close() error
}

// SessionFactory opens a new session for every attempt.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Recorder receives every finished scenario run.
type Recorder interface {
	Record(run *models.ScenarioRun) error
}

// Launcher adapts a browser.Launcher to SessionFactory.
type Launcher struct {
	*browser.Launcher
}

func (l Launcher) NewSession(ctx context.Context) (Session, error) {
	s, err := l.Launcher.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Options are the parts of the runner configuration the runner itself uses.
type Options struct {
	Retries         int
	Workers         int
	Screenshot      config.ScreenshotMode
	ScenarioTimeout time.Duration
	OutputDir       string
}

// OptionsFrom picks the runner options out of cfg.
func OptionsFrom(cfg *config.RunnerConfig) Options {
	return Options{
		Retries:         cfg.Retries,
		Workers:         cfg.Workers,
		Screenshot:      cfg.Screenshot,
		ScenarioTimeout: cfg.ScenarioTimeout,
		OutputDir:       cfg.OutputDir,
	}
}

// Runner runs scenarios.
type Runner struct {
	sessions SessionFactory
	recorder Recorder
	log      logrus.FieldLogger
	opts     Options
}

// New creates a runner. A nil recorder discards results.
func New(sessions SessionFactory, recorder Recorder, log logrus.FieldLogger, opts Options) *Runner {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{
		sessions: sessions,
		recorder: recorder,
		log:      log,
		opts:     opts,
	}
}

// Run executes scenarios and returns one finished run per scenario, in the
// order given. Scenario failures are reported in the results, not as an error;
// the error is non-nil only when ctx ends before every scenario has run.
func (r *Runner) Run(ctx context.Context, scenarios []scenario.Scenario) ([]*models.ScenarioRun, error) {
	runID := models.NewRunID()
	log := r.log.WithField("run_id", runID)

	if r.opts.Screenshot != config.ScreenshotOff {
		if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"scenarios": len(scenarios),
		"workers":   r.opts.Workers,
		"retries":   r.opts.Retries,
	}).Info("Starting run")

	results := make([]*models.ScenarioRun, len(scenarios))
	g := new(errgroup.Group)
	g.SetLimit(r.opts.Workers)
	for i, s := range scenarios {
		g.Go(func() error {
			results[i] = r.runScenario(ctx, log, runID, s)
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}

func (r *Runner) runScenario(ctx context.Context, log logrus.FieldLogger, runID string, s scenario.Scenario) *models.ScenarioRun {
	log = log.WithFields(logrus.Fields{"suite": s.Suite, "scenario": s.Name})

	run, err := models.NewScenarioRun(runID, s.Suite, s.Name)
	if err != nil {
		log.WithError(err).Error("Invalid scenario")
		return &models.ScenarioRun{RunID: runID, Suite: s.Suite, Name: s.Name, Status: models.RunStatusFailed, Error: err.Error()}
	}

	switch {
	case s.Skip != "":
		_ = run.Skip(s.Skip)
		log.WithField("reason", s.Skip).Info("Scenario skipped")
	case s.Run == nil:
		_ = run.Fail(1, errors.New("scenario has no body"))
	default:
		r.attempts(ctx, log, run, s)
	}

	if err := r.recorder.Record(run); err != nil {
		log.WithError(err).Warn("Failed to record scenario run")
	}
	return run
}

func (r *Runner) attempts(ctx context.Context, log logrus.FieldLogger, run *models.ScenarioRun, s scenario.Scenario) {
	var lastErr error
	tried := 0
	for n := 1; n <= r.opts.Retries+1; n++ {
		if err := ctx.Err(); err != nil {
			if n == 1 {
				_ = run.Skip("run cancelled: " + err.Error())
				return
			}
			break
		}

		alog := log.WithField("attempt", n)
		start := time.Now()
		lastErr = r.attempt(ctx, alog, s, n)
		alog = alog.WithField("duration", time.Since(start))

		if lastErr == nil {
			_ = run.Pass(n)
			if n > 1 {
				alog.Warn("Scenario passed after retry")
			} else {
				alog.Info("Scenario passed")
			}
			return
		}
		alog.WithError(lastErr).Warn("Scenario attempt failed")
		tried = n
	}

	_ = run.Fail(tried, lastErr)
	log.WithError(lastErr).WithField("attempts", tried).Error("Scenario failed")
}

// attempt runs s once in a new session. When the attempt outlives its timeout
// the session is closed, which aborts any browser call in flight.
func (r *Runner) attempt(ctx context.Context, log logrus.FieldLogger, s scenario.Scenario, n int) error {
	actx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.ScenarioTimeout > 0 {
		actx, cancel = context.WithTimeout(ctx, r.opts.ScenarioTimeout)
	}
	defer cancel()

	session, serr := r.sessions.NewSession(actx)
	if serr != nil {
		return fmt.Errorf("failed to open browser session: %w", serr)
	}
	closeSession := sync.OnceValue(session.Close)
	defer func() {
		if cerr := closeSession(); cerr != nil {
			log.WithError(cerr).Debug("Failed to close browser session")
		}
	}()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("scenario panicked: %v", p)
			}
		}()
		done <- s.Run(&scenario.T{Ctx: actx, Page: session.Handle()})
	}()

	var err error
	select {
	case err = <-done:
		r.screenshot(log, session, s, n, err)
	case <-actx.Done():
		if ctx.Err() == nil {
			r.screenshotWithin(log, session, s, n, actx.Err(), screenshotTimeout)
		}
		// Closing the page makes the pending browser call return.
		_ = closeSession()
		err = <-done
	}

	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: scenario exceeded %v: %w", browser.ErrTimeout, r.opts.ScenarioTimeout, err)
	}
	return err
}

// screenshotWithin captures a hung attempt but gives up after d, since the page
// may be stuck in the call that timed out.
func (r *Runner) screenshotWithin(log logrus.FieldLogger, session Session, s scenario.Scenario, n int, err error, d time.Duration) {
	captured := make(chan struct{})
	go func() {
		defer close(captured)
		r.screenshot(log, session, s, n, err)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-captured:
	case <-timer.C:
		log.WithField("timeout", d).Warn("Screenshot of timed out scenario abandoned")
	}
}

func (r *Runner) screenshot(log logrus.FieldLogger, session Session, s scenario.Scenario, n int, err error) {
	switch {
	case r.opts.Screenshot == config.ScreenshotOn:
	case r.opts.Screenshot == config.ScreenshotOnlyOnFailure && err != nil:
	default:
		return
	}

	path := ScreenshotPath(r.opts.OutputDir, s, n)
	if err := session.Screenshot(path); err != nil {
		log.WithError(err).Warn("Failed to capture screenshot")
		return
	}
	log.WithField("path", path).Debug("Screenshot saved")
}

// ScreenshotPath is where the screenshot of attempt n of s is written.
func ScreenshotPath(dir string, s scenario.Scenario, n int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-attempt%d.png", s.Slug(), n))
}

type nopRecorder struct{}

func (nopRecorder) Record(*models.ScenarioRun) error { return nil }
