// Package cart drives the shopping cart and its item deletion flow.
package cart

import (
	"context"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/locator"
)

const Path = "/cart"

const (
	B2BPopup             locator.Selector = `//div[@data-widget="alertPopup"]`
	ConfirmDeletionPopup locator.Selector = `//div[contains(text(), "Удаление товаров")]/../..`
	DeleteSelected       locator.Selector = `text=Удалить выбранные`
	ConfirmButton        locator.Selector = `//button[contains(., "Удалить")]`
	Items                locator.Selector = `//div[@data-widget="split"]//div[@data-role="cart-item"]//span[@data-role="name"]`
	EmptyCart            locator.Selector = `//div[@data-widget="emptyCart"]`
)

// Open loads the cart page.
func Open(ctx context.Context, h browser.Handle) error {
	return h.Navigate(ctx, Path)
}

// CloseB2BPopup dismisses the business account offer. The popup has two
// buttons; the second one closes it.
func CloseB2BPopup(ctx context.Context, h browser.Handle) error {
	if err := h.Click(ctx, B2BPopup.Locate("button").Nth(1)); err != nil {
		return err
	}
	return h.WaitFor(ctx, B2BPopup, browser.ForState(browser.StateDetached))
}

// DeleteSelectedItems asks to delete the selected items and waits for the
// confirmation dialog.
func DeleteSelectedItems(ctx context.Context, h browser.Handle) error {
	if err := h.Click(ctx, DeleteSelected); err != nil {
		return err
	}
	return h.WaitFor(ctx, ConfirmDeletionPopup, browser.ForState(browser.StateVisible))
}

// ConfirmItemsDeletion confirms the open deletion dialog.
func ConfirmItemsDeletion(ctx context.Context, h browser.Handle) error {
	if err := h.Click(ctx, ConfirmDeletionPopup.Locate(ConfirmButton)); err != nil {
		return err
	}
	return h.WaitFor(ctx, ConfirmDeletionPopup, browser.ForState(browser.StateDetached))
}

func ItemNames(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, Items)
}

// IsEmpty reports whether the empty cart placeholder is shown.
func IsEmpty(ctx context.Context, h browser.Handle) (bool, error) {
	n, err := h.Count(ctx, EmptyCart)
	return n > 0, err
}
