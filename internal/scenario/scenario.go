// Package scenario defines end-to-end scenarios and the checks they use.
//
// A scenario composes page-object operations and asserts on what they return.
// Checks return errors wrapping ErrAssertion; waits that fail inside page
// objects surface as browser timeouts. Either ends the scenario attempt.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/compare"
	"github.com/ozonqa/storefront-e2e/internal/locator"
)

// ErrAssertion marks a check whose observed state differs from the expected one.
var ErrAssertion = errors.New("assertion failed")

// T is what a scenario attempt runs with. It lives for one attempt only.
type T struct {
	Ctx  context.Context
	Page browser.Handle
}

// Scenario is one independent end-to-end test case.
type Scenario struct {
	Suite string
	Name  string
	// Skip, when set, is why the scenario is not run.
	Skip string
	Run  func(t *T) error
}

// Title returns "suite › name".
func (s Scenario) Title() string {
	return s.Suite + " › " + s.Name
}

// Slug is a file-name friendly form of the title.
func (s Scenario) Slug() string {
	slug := nonWord.ReplaceAllString(strings.ToLower(s.Suite+"-"+s.Name), "-")
	return strings.Trim(slug, "-")
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Failf returns an assertion error.
func Failf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
}

// ExpectNoneMissing fails when any of expected is absent from actual, naming
// every missing element.
func ExpectNoneMissing(what string, actual, expected []string) error {
	if missing := compare.MissingElements(actual, expected); len(missing) > 0 {
		return Failf("The following %s are missing: %s", what, compare.Describe(missing))
	}
	return nil
}

// ExpectEqual fails when got differs from want.
func ExpectEqual[V comparable](what string, got, want V) error {
	if got != want {
		return Failf("%s: expected %v, got %v", what, want, got)
	}
	return nil
}

// ExpectText waits for the single element matched by sel to contain text.
func (t *T) ExpectText(sel locator.Selector, text string) error {
	if err := t.Page.WaitFor(t.Ctx, sel, browser.ForText(text)); err != nil {
		return fmt.Errorf("%w: expected %s to contain %q: %w", ErrAssertion, sel, text, err)
	}
	return nil
}

// ExpectExactText waits for the single element matched by sel to have text.
func (t *T) ExpectExactText(sel locator.Selector, text string) error {
	if err := t.Page.WaitFor(t.Ctx, sel, browser.ForExactText(text)); err != nil {
		return fmt.Errorf("%w: expected %s to have text %q: %w", ErrAssertion, sel, text, err)
	}
	return nil
}

// ExpectCount waits for sel to match exactly n elements.
func (t *T) ExpectCount(sel locator.Selector, n int) error {
	if err := t.Page.WaitFor(t.Ctx, sel, browser.ForCount(n)); err != nil {
		return fmt.Errorf("%w: expected %d elements for %s: %w", ErrAssertion, n, sel, err)
	}
	return nil
}

// ExpectVisible waits for sel to become visible.
func (t *T) ExpectVisible(sel locator.Selector) error {
	if err := t.Page.WaitFor(t.Ctx, sel, browser.ForState(browser.StateVisible)); err != nil {
		return fmt.Errorf("%w: expected %s to be visible: %w", ErrAssertion, sel, err)
	}
	return nil
}

// Eventually polls check until it reports true, the attempt is cancelled or
// within elapses. The last check error, if any, is returned on expiry.
func (t *T) Eventually(within time.Duration, check func() (bool, error)) error {
	ctx, cancel := context.WithTimeout(t.Ctx, within)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := check()
		if ok && err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return err
			}
			return fmt.Errorf("%w: condition not met within %v", ErrAssertion, within)
		case <-ticker.C:
		}
	}
}

const pollInterval = 100 * time.Millisecond

// Steps runs fns in order and stops at the first error.
func Steps(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// Select filters scenarios by suite and by a case-insensitive substring of the
// title. Empty filters match everything.
func Select(scenarios []Scenario, suite, grep string) []Scenario {
	grep = strings.ToLower(grep)
	var selected []Scenario
	for _, s := range scenarios {
		if suite != "" && s.Suite != suite {
			continue
		}
		if grep != "" && !strings.Contains(strings.ToLower(s.Title()), grep) {
			continue
		}
		selected = append(selected, s)
	}
	return selected
}
