package browser

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/ozonqa/storefront-e2e/internal/locator"
)

// Page adapts a playwright.Page to Handle. Playwright locators are strict, so an
// action on a selector that matches more than one element fails with ErrAmbiguous
// unless the selector pins a match with Nth.
type Page struct {
	page   playwright.Page
	expect playwright.PlaywrightAssertions
}

// NewPage wraps page and applies timeout to every action, navigation and wait.
func NewPage(page playwright.Page, timeout time.Duration) *Page {
	ms := float64(timeout.Milliseconds())
	page.SetDefaultTimeout(ms)
	page.SetDefaultNavigationTimeout(ms)

	return &Page{
		page:   page,
		expect: playwright.NewPlaywrightAssertions(ms),
	}
}

func (p *Page) Navigate(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(path, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return classify("navigate", locator.Selector(path), err)
}

func (p *Page) Click(ctx context.Context, sel locator.Selector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("click", sel, p.page.Locator(sel.String()).Click())
}

func (p *Page) Hover(ctx context.Context, sel locator.Selector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("hover", sel, p.page.Locator(sel.String()).Hover())
}

func (p *Page) Fill(ctx context.Context, sel locator.Selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("fill", sel, p.page.Locator(sel.String()).Fill(text))
}

func (p *Page) Press(ctx context.Context, sel locator.Selector, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("press", sel, p.page.Locator(sel.String()).Press(key))
}

func (p *Page) WaitFor(ctx context.Context, sel locator.Selector, cond Condition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	loc := p.page.Locator(sel.String())
	var err error
	switch cond.Kind {
	case KindCount:
		err = p.expect.Locator(loc).ToHaveCount(cond.Count)
	case KindContainsText:
		err = p.expect.Locator(loc).ToContainText(cond.Text)
	case KindExactText:
		err = p.expect.Locator(loc).ToHaveText(cond.Text)
	default:
		err = loc.First().WaitFor(playwright.LocatorWaitForOptions{
			State: waitState(cond.State),
		})
	}
	if err == nil {
		return nil
	}

	// Assertion errors do not carry the TimeoutError name; an unmet condition
	// after the retry window is still a timeout.
	classified := classify("wait for "+cond.String(), sel, err)
	var locErr *LocatorError
	if errors.As(classified, &locErr) && locErr.Kind == ErrAction {
		locErr.Kind = ErrTimeout
	}
	return classified
}

func (p *Page) WaitForLoad(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("wait for load", "", p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateLoad,
	}))
}

func (p *Page) TextContents(ctx context.Context, sel locator.Selector) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts, err := p.page.Locator(sel.String()).AllInnerTexts()
	if err != nil {
		return nil, classify("text contents", sel, err)
	}
	return texts, nil
}

func (p *Page) Count(ctx context.Context, sel locator.Selector) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.page.Locator(sel.String()).Count()
	if err != nil {
		return 0, classify("count", sel, err)
	}
	return n, nil
}

func (p *Page) Evaluate(ctx context.Context, expression string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		result any
		err    error
	)
	if arg == nil {
		result, err = p.page.Evaluate(expression)
	} else {
		result, err = p.page.Evaluate(expression, arg)
	}
	if err != nil {
		return nil, classify("evaluate", "", err)
	}
	return result, nil
}

func (p *Page) URL() string {
	return p.page.URL()
}

// Screenshot writes a full-page PNG to path.
func (p *Page) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// Close closes the page. Pending operations fail with ErrClosed.
func (p *Page) Close() error {
	return p.page.Close()
}

func waitState(s State) *playwright.WaitForSelectorState {
	switch s {
	case StateAttached:
		return playwright.WaitForSelectorStateAttached
	case StateDetached:
		return playwright.WaitForSelectorStateDetached
	case StateHidden:
		return playwright.WaitForSelectorStateHidden
	default:
		return playwright.WaitForSelectorStateVisible
	}
}

func classify(op string, sel locator.Selector, err error) error {
	if err == nil {
		return nil
	}

	kind := ErrAction
	switch {
	case errors.Is(err, playwright.ErrTimeout):
		kind = ErrTimeout
	case strings.Contains(err.Error(), "strict mode violation"):
		kind = ErrAmbiguous
	case errors.Is(err, playwright.ErrTargetClosed):
		kind = ErrClosed
	}
	return &LocatorError{Op: op, Selector: sel, Kind: kind, Err: err}
}
