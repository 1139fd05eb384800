// Package homepage is the storefront landing page: the top bar above the header,
// the help popup and the promo code widget.
package homepage

import (
	"context"
	"fmt"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/locator"
)

const Path = "/"

// Locators
const (
	Header      locator.Selector = `[data-widget="header"]`
	TopBar      locator.Selector = `//div[@data-widget="topBar"]`
	TopBarLinks locator.Selector = `//div[@data-widget="topBar"]//a`
	HelpEntry   locator.Selector = `//div[@data-widget="topBar"]//a[text()="Помощь"]`
	HelpPopup   locator.Selector = `//*[text()="Статус заказа"]/../../..`
	PromoWidget locator.Selector = `[data-widget="promoNavigation"]`
	PromoInput  locator.Selector = `[data-widget="promoNavigation"] >> input[type="text"]`
	PromoButton locator.Selector = `[data-widget="promoNavigation"] >> button`

	TopBarLink locator.Template = `//div[@data-widget="topBar"]//a[contains(., "{1}")]`
)

// promoBorderColorScript reads the computed border colour of the promo input frame.
const promoBorderColorScript = `() => {
	const el = document.querySelector("[data-widget='promoNavigation']>div>div");
	if (el) {
		return document.defaultView?.getComputedStyle(el).borderColor || "";
	}
	return "Not found";
}`

// Open loads the homepage and waits for the header to render.
func Open(ctx context.Context, h browser.Handle) error {
	if err := h.Navigate(ctx, Path); err != nil {
		return fmt.Errorf("failed to open homepage: %w", err)
	}
	return h.WaitFor(ctx, Header, browser.ForState(browser.StateVisible))
}

// TopBarLinkTexts returns the labels of the links in the top bar.
func TopBarLinkTexts(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, TopBarLinks)
}

// ClickTopBarLink follows the top bar link with the given label.
func ClickTopBarLink(ctx context.Context, h browser.Handle, label string) error {
	if err := h.Click(ctx, TopBarLink.With(label)); err != nil {
		return fmt.Errorf("failed to click top bar link %q: %w", label, err)
	}
	return h.WaitForLoad(ctx)
}

// HoverHelp opens the help popup.
func HoverHelp(ctx context.Context, h browser.Handle) error {
	if err := h.Hover(ctx, HelpEntry); err != nil {
		return err
	}
	return h.WaitFor(ctx, HelpPopup, browser.ForState(browser.StateVisible))
}

// HelpPopupLinks returns the link labels of the open help popup.
func HelpPopupLinks(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, HelpPopup.Locate("a"))
}

func PromoInputCount(ctx context.Context, h browser.Handle) (int, error) {
	return h.Count(ctx, PromoInput)
}

func PromoButtonCount(ctx context.Context, h browser.Handle) (int, error) {
	return h.Count(ctx, PromoButton)
}

// SubmitPromoCode types code into the promo input and applies it. An empty code
// submits the widget without touching the input.
func SubmitPromoCode(ctx context.Context, h browser.Handle, code string) error {
	if code != "" {
		if err := h.Fill(ctx, PromoInput, code); err != nil {
			return err
		}
	}
	return h.Click(ctx, PromoButton)
}

// PromoBorderColor returns the CSS border colour of the promo input frame, or
// "Not found" when the widget is not rendered.
func PromoBorderColor(ctx context.Context, h browser.Handle) (string, error) {
	v, err := h.Evaluate(ctx, promoBorderColorScript, nil)
	if err != nil {
		return "", err
	}
	color, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected border color value %v", v)
	}
	return color, nil
}
