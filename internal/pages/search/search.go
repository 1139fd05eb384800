// Package search reads and drives the search results listing.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/locator"
)

const (
	Results          locator.Selector = `[data-widget="searchResultsV2"]`
	FullTextResults  locator.Selector = `[data-widget="fulltextResultsHeader"]`
	DetectedCategory locator.Selector = `//div[@data-widget="resultsHeader"]//h1`
	ActiveFilters    locator.Selector = `//div[@data-widget="searchResultsFiltersActive"]//button/span`
	ClearFilters     locator.Selector = `text=Очистить всё`
	ItemNames        locator.Selector = `//div[@data-widget="searchResultsV2"]//a[@data-role="tile-name"]/span`
	AddToCartButtons locator.Selector = `//div[@data-widget="searchResultsV2"]//button[contains(., "В корзину")]`
	InCartButtons    locator.Selector = `//div[@data-widget="searchResultsV2"]//button[contains(., "В корзине")]`
	Paginator        locator.Selector = `//div[@data-widget="megaPaginator"]`
	ActivePage       locator.Selector = `//div[@data-widget="megaPaginator"]//a[@aria-current="page"]`
	NotFoundHint     locator.Selector = `//div[contains(text(),"Не нашли, что искали?")]`
	EmptyResults     locator.Selector = `//div[contains(text(),"Простите, по вашему запросу товаров сейчас нет.")]`

	FilterOption locator.Template = `//div[@data-widget="searchResultsFilters"]//div[span[text()="{1}"]]/..//span[text()="{2}"]`
	ActiveFilter locator.Template = `//div[@data-widget="searchResultsFiltersActive"]//button/span[text()="{1}"]`
	PageLink     locator.Template = `//div[@data-widget="megaPaginator"]//a[text()="{1}"]`
)

// FoundItemsCount returns the number of results announced in the listing
// header, e.g. 1234 for "По запросу iphone 13 найдено 1 234 товара". It returns 0
// when the header is absent or announces no count.
func FoundItemsCount(ctx context.Context, h browser.Handle) (int, error) {
	texts, err := h.TextContents(ctx, FullTextResults)
	if err != nil || len(texts) == 0 {
		return 0, err
	}
	return parseCount(texts[0]), nil
}

// foundCount matches the number right before "товар…". Thousands are separated
// by plain, non-breaking or thin spaces.
var foundCount = regexp.MustCompile(`(\d[\d \x{00a0}\x{2009}\x{202f}]*)\s*товар`)

func parseCount(s string) int {
	m := foundCount.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, m[1])
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// DetectedCategoryName returns the category the search engine matched the
// query to, or "" when none is shown.
func DetectedCategoryName(ctx context.Context, h browser.Handle) (string, error) {
	return first(ctx, h, DetectedCategory)
}

// FullTextResultsText returns the text of the listing header.
func FullTextResultsText(ctx context.Context, h browser.Handle) (string, error) {
	return first(ctx, h, FullTextResults)
}

// AddFilter ticks option in the category filter group and waits for the
// matching "category: option" chip.
func AddFilter(ctx context.Context, h browser.Handle, category, option string) error {
	if err := h.Click(ctx, FilterOption.With(category, option)); err != nil {
		return fmt.Errorf("failed to add filter %s: %s: %w", category, option, err)
	}
	return h.WaitFor(ctx, ActiveFilter.With(FilterChip(category, option)), browser.ForState(browser.StateVisible))
}

// FilterChip is the label of an active filter chip.
func FilterChip(category, option string) string {
	return category + ": " + option
}

func ActiveFilterTexts(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, ActiveFilters)
}

func ItemNameTexts(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, ItemNames)
}

// FirstItemName returns the name of the top result, or "" when there are none.
func FirstItemName(ctx context.Context, h browser.Handle) (string, error) {
	return first(ctx, h, ItemNames)
}

// GoToPaginationPage opens page n of the listing.
func GoToPaginationPage(ctx context.Context, h browser.Handle, n int) error {
	label := strconv.Itoa(n)
	if err := h.Click(ctx, PageLink.With(label)); err != nil {
		return fmt.Errorf("failed to open results page %d: %w", n, err)
	}
	if err := h.WaitForLoad(ctx); err != nil {
		return err
	}
	return h.WaitFor(ctx, ActivePage, browser.ForExactText(label))
}

// AcceptSpellingSuggestion follows the "did you mean" link, the second div of
// the listing header.
func AcceptSpellingSuggestion(ctx context.Context, h browser.Handle) error {
	if err := h.Click(ctx, FullTextResults.Locate("div").Nth(1)); err != nil {
		return err
	}
	return h.WaitForLoad(ctx)
}

// AddItemToCart presses "В корзину" on the i-th (zero-based) result tile and
// waits until a tile reports the item as added.
func AddItemToCart(ctx context.Context, h browser.Handle, i int) error {
	if err := h.Click(ctx, AddToCartButtons.Nth(i)); err != nil {
		return fmt.Errorf("failed to add result %d to cart: %w", i, err)
	}
	return h.WaitFor(ctx, InCartButtons.Nth(0), browser.ForState(browser.StateVisible))
}

func first(ctx context.Context, h browser.Handle, sel locator.Selector) (string, error) {
	texts, err := h.TextContents(ctx, sel)
	if err != nil || len(texts) == 0 {
		return "", err
	}
	return texts[0], nil
}
