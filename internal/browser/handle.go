// Package browser defines the automation surface the page objects run against and
// its playwright-go implementation.
//
// Every interaction on a Handle blocks until the target is actionable or the
// configured timeout elapses, in which case it fails with an error wrapping
// ErrTimeout. Extraction calls (TextContents, Count) never wait and return empty
// results for zero matches.
package browser

import (
	"context"

	"github.com/ozonqa/storefront-e2e/internal/locator"
)

// Handle is a single page owned by one scenario attempt.
type Handle interface {
	// Navigate loads path (relative to the session base URL, or absolute) and waits
	// for the load event.
	Navigate(ctx context.Context, path string) error

	// Click waits until exactly one element matches sel and is actionable, then clicks it.
	Click(ctx context.Context, sel locator.Selector) error

	// Hover waits until exactly one element matches sel and is actionable, then hovers it.
	Hover(ctx context.Context, sel locator.Selector) error

	// Fill waits for an editable element and sets its value.
	Fill(ctx context.Context, sel locator.Selector, text string) error

	// Press sends a key to the element, e.g. "Enter".
	Press(ctx context.Context, sel locator.Selector, key string) error

	// WaitFor blocks until cond holds for sel.
	WaitFor(ctx context.Context, sel locator.Selector, cond Condition) error

	// WaitForLoad blocks until the current document has fired its load event.
	WaitForLoad(ctx context.Context) error

	// TextContents returns the rendered text of every current match.
	TextContents(ctx context.Context, sel locator.Selector) ([]string, error)

	// Count returns the current number of matches.
	Count(ctx context.Context, sel locator.Selector) (int, error)

	// Evaluate runs a read-only expression in the page and returns its result.
	Evaluate(ctx context.Context, expression string, arg any) (any, error)

	// URL returns the address of the current document.
	URL() string
}
