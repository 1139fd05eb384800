// Package header covers the site header: sign-in, the navigation bar, the
// catalogue menu and the search form with its category selector.
package header

import (
	"context"
	"fmt"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/locator"
)

// Locators
const (
	SignIn        locator.Selector = `//div[@data-widget="profileMenuAnonymous"]`
	SignInButton  locator.Selector = `//button[contains(. , "Войти или зарегистрироваться")]`
	AccountButton locator.Selector = `//button[contains(. , "Личный кабинет")]`

	NavBar      locator.Selector = `//ul[@data-widget="horizontalMenu"]`
	NavBarLinks locator.Selector = `//ul[@data-widget="horizontalMenu"]//a`

	CatalogueButton     locator.Selector = `//div[@data-widget="catalogMenu"]/button`
	CatalogueCategories locator.Selector = `//div[@data-widget="catalogMenu"]//div[@data-role="categories"]`
	CatalogueFilters    locator.Selector = `//div[@data-widget="catalogMenu"]//div[@data-role="filters"]`

	SearchInput    locator.Selector = `//div[@data-widget="searchBarDesktop"]//input[@name="text"]`
	SearchButton   locator.Selector = `//div[@data-widget="searchBarDesktop"]//button[@type="submit"]`
	SearchCategory locator.Selector = `//div[@data-widget="searchBarDesktop"]//div[@data-role="category"]`
	CategoryPopup  locator.Selector = `[data-widget="searchContextPopup"]`
	SearchResults  locator.Selector = `[data-widget="searchResultsV2"]`

	NavBarLink        locator.Template = `//ul[@data-widget="horizontalMenu"]//a[normalize-space(.)="{1}"]`
	CatalogueCategory locator.Template = `//a[span[text()="{1}"]]`
	CategoryOption    locator.Template = `[data-widget="searchContextPopup"] >> text={1}`
)

// DefaultSearchCategory is shown when no category is selected.
const DefaultSearchCategory = "Везде"

// HoverSignIn opens the anonymous profile popup.
func HoverSignIn(ctx context.Context, h browser.Handle) error {
	if err := h.Hover(ctx, SignIn); err != nil {
		return err
	}
	if err := h.WaitFor(ctx, SignInButton, browser.ForState(browser.StateVisible)); err != nil {
		return err
	}
	return h.WaitFor(ctx, AccountButton, browser.ForState(browser.StateVisible))
}

func NavBarLinkTexts(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, NavBarLinks)
}

// GoToNavbarLink follows the navigation bar link whose text is label.
func GoToNavbarLink(ctx context.Context, h browser.Handle, label string) error {
	if err := h.Click(ctx, NavBarLink.With(label)); err != nil {
		return fmt.Errorf("failed to open navbar link %q: %w", label, err)
	}
	return h.WaitForLoad(ctx)
}

// OpenCatalogue expands the catalogue menu.
func OpenCatalogue(ctx context.Context, h browser.Handle) error {
	if err := h.Click(ctx, CatalogueButton); err != nil {
		return err
	}
	return h.WaitFor(ctx, CatalogueCategories, browser.ForState(browser.StateVisible))
}

// HoverCatalogueCategory points at a category of the open catalogue, which
// swaps the filter column for that category.
func HoverCatalogueCategory(ctx context.Context, h browser.Handle, label string) error {
	target := CatalogueCategories.Append(string(CatalogueCategory.With(label)))
	if err := h.Hover(ctx, target); err != nil {
		return fmt.Errorf("failed to hover catalogue category %q: %w", label, err)
	}
	return h.WaitFor(ctx, CatalogueFilters, browser.ForState(browser.StateVisible))
}

// CatalogueFilterTexts returns the rendered text of the catalogue filter column.
func CatalogueFilterTexts(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, CatalogueFilters)
}

// SearchProduct submits query and waits for the results listing.
func SearchProduct(ctx context.Context, h browser.Handle, query string) error {
	if err := h.Fill(ctx, SearchInput, query); err != nil {
		return err
	}
	if err := h.Click(ctx, SearchButton); err != nil {
		return err
	}
	return waitForResults(ctx, h)
}

// SubmitSearch types query and submits it with Enter instead of the button.
func SubmitSearch(ctx context.Context, h browser.Handle, query string) error {
	if err := h.Fill(ctx, SearchInput, query); err != nil {
		return err
	}
	if err := h.Press(ctx, SearchInput, "Enter"); err != nil {
		return err
	}
	return waitForResults(ctx, h)
}

func waitForResults(ctx context.Context, h browser.Handle) error {
	if err := h.WaitForLoad(ctx); err != nil {
		return err
	}
	return h.WaitFor(ctx, SearchResults, browser.ForState(browser.StateAttached))
}

// SearchCategoryText returns the label of the selected search category, or ""
// when the selector is not rendered.
func SearchCategoryText(ctx context.Context, h browser.Handle) (string, error) {
	texts, err := h.TextContents(ctx, SearchCategory)
	if err != nil || len(texts) == 0 {
		return "", err
	}
	return texts[0], nil
}

// OpenSearchCategories opens the category popup of the search bar.
func OpenSearchCategories(ctx context.Context, h browser.Handle) error {
	if err := h.Click(ctx, SearchCategory); err != nil {
		return err
	}
	return h.WaitFor(ctx, CategoryPopup, browser.ForCount(1))
}

// PickSearchCategory selects label in the open category popup.
func PickSearchCategory(ctx context.Context, h browser.Handle, label string) error {
	if err := h.Click(ctx, CategoryOption.With(label)); err != nil {
		return fmt.Errorf("failed to pick search category %q: %w", label, err)
	}
	return h.WaitFor(ctx, SearchCategory, browser.ForText(label))
}

// ResetSearchCategory clears the selected category with the cross icon, which is
// the second span of the selector.
func ResetSearchCategory(ctx context.Context, h browser.Handle) error {
	if err := h.Click(ctx, SearchCategory.Locate("span").Nth(1)); err != nil {
		return err
	}
	return h.WaitFor(ctx, SearchCategory, browser.ForText(DefaultSearchCategory))
}
