package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/browser/browsertest"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Найдено 512 товаров", 512},
		{"По запросу iphone 13 найдено 1 234 товара", 1234},
		{"найдено 12 345 товаров", 12345},
		{"найдено 2 000 товаров", 2000},
		{"По запросу пова найден 1 товар", 1},
		{"Простите, по вашему запросу товаров сейчас нет.", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseCount(tt.in); got != tt.want {
				t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtraction(t *testing.T) {
	ctx := context.Background()
	page := browsertest.New().
		Set(FullTextResults, "По запросу iphone 13 найдено 1 234 товара").
		Set(DetectedCategory, "Смартфоны Apple").
		Set(ItemNames, "Apple iPhone 13 128GB", "Apple iPhone 13 mini")

	count, err := FoundItemsCount(ctx, page)
	if err != nil || count != 1234 {
		t.Errorf("FoundItemsCount() = %d, %v", count, err)
	}
	category, err := DetectedCategoryName(ctx, page)
	if err != nil || category != "Смартфоны Apple" {
		t.Errorf("DetectedCategoryName() = %q, %v", category, err)
	}
	name, err := FirstItemName(ctx, page)
	if err != nil || name != "Apple iPhone 13 128GB" {
		t.Errorf("FirstItemName() = %q, %v", name, err)
	}
	names, _ := ItemNameTexts(ctx, page)
	if len(names) != 2 {
		t.Errorf("expected 2 names, got %q", names)
	}
}

func TestExtraction_EmptyPage(t *testing.T) {
	ctx := context.Background()
	page := browsertest.New()

	if n, err := FoundItemsCount(ctx, page); err != nil || n != 0 {
		t.Errorf("FoundItemsCount() = %d, %v", n, err)
	}
	if s, err := DetectedCategoryName(ctx, page); err != nil || s != "" {
		t.Errorf("DetectedCategoryName() = %q, %v", s, err)
	}
	if s, err := FirstItemName(ctx, page); err != nil || s != "" {
		t.Errorf("FirstItemName() = %q, %v", s, err)
	}
	if s, err := FullTextResultsText(ctx, page); err != nil || s != "" {
		t.Errorf("FullTextResultsText() = %q, %v", s, err)
	}
}

func TestAddFilter(t *testing.T) {
	ctx := context.Background()
	option := FilterOption.With("Оперативная память", "4-8 ГБ")

	page := browsertest.New().
		Set(ActiveFilters, "Бренды: Apple").
		Set(option, "4-8 ГБ")
	page.On("click", option, func(f *browsertest.Fake) {
		f.Set(ActiveFilters, "Бренды: Apple", "Оперативная память: 4-8 ГБ")
		f.Set(ActiveFilter.With("Оперативная память: 4-8 ГБ"), "Оперативная память: 4-8 ГБ")
	})

	if err := AddFilter(ctx, page, "Оперативная память", "4-8 ГБ"); err != nil {
		t.Fatalf("AddFilter() error = %v", err)
	}
	got, _ := ActiveFilterTexts(ctx, page)
	want := []string{"Бренды: Apple", "Оперативная память: 4-8 ГБ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	if err := AddFilter(ctx, page, "Линейка", "Apple iPhone 13"); !browser.IsTimeout(err) {
		t.Errorf("expected a timeout for a missing option, got %v", err)
	}
}

func TestGoToPaginationPage(t *testing.T) {
	ctx := context.Background()
	page := browsertest.New().
		Set(PageLink.With("2"), "2").
		Set(ActivePage, "1").
		Set(ItemNames, "first page item")
	page.On("click", PageLink.With("2"), func(f *browsertest.Fake) {
		f.Set(ActivePage, "2")
		f.Set(ItemNames, "second page item")
	})

	before, _ := FirstItemName(ctx, page)
	if err := GoToPaginationPage(ctx, page, 2); err != nil {
		t.Fatalf("GoToPaginationPage() error = %v", err)
	}
	after, _ := FirstItemName(ctx, page)
	if before == after {
		t.Errorf("expected a different top result, got %q twice", after)
	}

	if err := GoToPaginationPage(ctx, page, 99); !browser.IsTimeout(err) {
		t.Errorf("expected a timeout for a missing page, got %v", err)
	}
}

func TestAcceptSpellingSuggestion(t *testing.T) {
	page := browsertest.New().Set(FullTextResults.Locate("div"), "По запросу пова найден 1 товар", "Вы искали gjdsf?")

	if err := AcceptSpellingSuggestion(context.Background(), page); err != nil {
		t.Fatalf("AcceptSpellingSuggestion() error = %v", err)
	}
	calls := page.Calls()
	if calls[0] != "click "+FullTextResults.Locate("div").Nth(1).String() {
		t.Errorf("unexpected call %q", calls[0])
	}
}

func TestAddItemToCart(t *testing.T) {
	page := browsertest.New().Set(AddToCartButtons, "В корзину", "В корзину")
	page.On("click", AddToCartButtons.Nth(1), func(f *browsertest.Fake) {
		f.Set(AddToCartButtons, "В корзину")
		f.Set(InCartButtons, "В корзине")
	})

	if err := AddItemToCart(context.Background(), page, 1); err != nil {
		t.Errorf("AddItemToCart(0) error = %v", err)
	}
	if err := AddItemToCart(context.Background(), page, 5); !browser.IsTimeout(err) {
		t.Errorf("expected a timeout for a missing tile, got %v", err)
	}

	// the click lands but the tile never confirms
	page = browsertest.New().Set(AddToCartButtons, "В корзину")
	if err := AddItemToCart(context.Background(), page, 0); !browser.IsTimeout(err) {
		t.Errorf("expected a timeout waiting for the confirmation, got %v", err)
	}
}

func TestUnpinnedActionIsAmbiguous(t *testing.T) {
	page := browsertest.New().Set(AddToCartButtons, "В корзину", "В корзину")

	err := page.Click(context.Background(), AddToCartButtons)

	if !errors.Is(err, browser.ErrAmbiguous) {
		t.Errorf("expected an ambiguous match error, got %v", err)
	}
}
