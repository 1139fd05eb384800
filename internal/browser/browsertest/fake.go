// Package browsertest provides an in-memory browser.Handle for page-object tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/locator"
)

// Fake is a page whose DOM is a map from selector to the texts of matching
// elements. Actions fail the way the real adapter does: zero matches time out,
// several matches are ambiguous unless the selector ends with nth=.
// Waits never block; an unmet condition is an immediate timeout.
type Fake struct {
	mu          sync.Mutex
	elements    map[locator.Selector][]string
	effects     map[string]func(*Fake)
	evaluations map[string]any
	calls       []string
	url         string
}

// New returns an empty page.
func New() *Fake {
	return &Fake{
		elements:    map[locator.Selector][]string{},
		effects:     map[string]func(*Fake){},
		evaluations: map[string]any{},
	}
}

// Set makes sel match one element per text.
func (f *Fake) Set(sel locator.Selector, texts ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if texts == nil {
		texts = []string{}
	}
	f.elements[sel] = texts
	return f
}

// Remove makes sel match nothing.
func (f *Fake) Remove(sel locator.Selector) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.elements, sel)
	return f
}

// On registers fn to run after op ("navigate", "click", "hover", "fill", "press")
// succeeds on target.
func (f *Fake) On(op string, target locator.Selector, fn func(*Fake)) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.effects[op+" "+target.String()] = fn
	return f
}

// SetEvaluation fixes the result of Evaluate for expression.
func (f *Fake) SetEvaluation(expression string, result any) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evaluations[expression] = result
	return f
}

// Calls returns the recorded interactions, e.g. `click text=Помощь`.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) Navigate(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.url = path
	f.calls = append(f.calls, "navigate "+path)
	effect := f.effects["navigate "+path]
	f.mu.Unlock()

	if effect != nil {
		effect(f)
	}
	return nil
}

func (f *Fake) Click(ctx context.Context, sel locator.Selector) error {
	return f.act(ctx, "click", sel, "")
}

func (f *Fake) Hover(ctx context.Context, sel locator.Selector) error {
	return f.act(ctx, "hover", sel, "")
}

func (f *Fake) Fill(ctx context.Context, sel locator.Selector, text string) error {
	return f.act(ctx, "fill", sel, text)
}

func (f *Fake) Press(ctx context.Context, sel locator.Selector, key string) error {
	return f.act(ctx, "press", sel, key)
}

func (f *Fake) act(ctx context.Context, op string, sel locator.Selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	texts, pinned := f.resolve(sel)
	switch {
	case len(texts) == 0:
		f.mu.Unlock()
		return timeout(op, sel)
	case len(texts) > 1 && !pinned:
		f.mu.Unlock()
		return &browser.LocatorError{Op: op, Selector: sel, Kind: browser.ErrAmbiguous,
			Err: fmt.Errorf("strict mode violation: resolved to %d elements", len(texts))}
	}
	call := op + " " + sel.String()
	if value != "" {
		call += " " + value
	}
	f.calls = append(f.calls, call)
	effect := f.effects[op+" "+sel.String()]
	f.mu.Unlock()

	if effect != nil {
		effect(f)
	}
	return nil
}

func (f *Fake) WaitFor(ctx context.Context, sel locator.Selector, cond browser.Condition) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	texts, _ := f.resolve(sel)
	f.calls = append(f.calls, "wait "+sel.String()+" "+cond.String())
	f.mu.Unlock()

	ok := false
	switch cond.Kind {
	case browser.KindCount:
		ok = len(texts) == cond.Count
	case browser.KindContainsText:
		ok = len(texts) == 1 && strings.Contains(texts[0], cond.Text)
	case browser.KindExactText:
		ok = len(texts) == 1 && texts[0] == cond.Text
	default:
		switch cond.State {
		case browser.StateDetached, browser.StateHidden:
			ok = len(texts) == 0
		default:
			ok = len(texts) > 0
		}
	}
	if !ok {
		return timeout("wait for "+cond.String(), sel)
	}
	return nil
}

func (f *Fake) WaitForLoad(ctx context.Context) error {
	return ctx.Err()
}

func (f *Fake) TextContents(ctx context.Context, sel locator.Selector) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	texts, _ := f.resolve(sel)
	return append([]string{}, texts...), nil
}

func (f *Fake) Count(ctx context.Context, sel locator.Selector) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	texts, _ := f.resolve(sel)
	return len(texts), nil
}

func (f *Fake) Evaluate(ctx context.Context, expression string, _ any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	result, ok := f.evaluations[expression]
	if !ok {
		return nil, &browser.LocatorError{Op: "evaluate", Kind: browser.ErrAction, Err: errors.New("unexpected expression")}
	}
	return result, nil
}

func (f *Fake) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

// resolve must be called with mu held.
func (f *Fake) resolve(sel locator.Selector) ([]string, bool) {
	if !sel.IsNth() {
		return f.elements[sel], false
	}
	parts := sel.Parts()
	n, err := strconv.Atoi(strings.TrimPrefix(parts[len(parts)-1], "nth="))
	if err != nil {
		return nil, true
	}
	base := locator.Selector(strings.Join(parts[:len(parts)-1], " >> "))
	texts := f.elements[base]
	if n < 0 || n >= len(texts) {
		return nil, true
	}
	return texts[n : n+1], true
}

func timeout(op string, sel locator.Selector) error {
	return &browser.LocatorError{Op: op, Selector: sel, Kind: browser.ErrTimeout, Err: errors.New("no matching element")}
}

var _ browser.Handle = (*Fake)(nil)
