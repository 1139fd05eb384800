package scenario

import (
	"github.com/ozonqa/storefront-e2e/internal/pages/header"
	"github.com/ozonqa/storefront-e2e/internal/pages/homepage"
	"github.com/ozonqa/storefront-e2e/internal/pages/search"
)

const (
	ProductQuery     = "iphone 13"
	MisspelledQuery  = "gjdsf"
	ExpectedCategory = "Смартфоны Apple"

	// MinFoundItems is the lower bound on results for ProductQuery.
	MinFoundItems = 400
)

// ProductFilters are applied to the ProductQuery results, category then option.
var ProductFilters = [][2]string{
	{"Оперативная память", "4-8 ГБ"},
	{"Линейка", "Apple iPhone 13"},
}

func searchScenarios() []Scenario {
	scenarios := []Scenario{
		{
			Name: "Category select and delete",
			Run: func(t *T) error {
				return Steps(
					func() error { return homepage.Open(t.Ctx, t.Page) },
					func() error { return t.ExpectText(header.SearchCategory, header.DefaultSearchCategory) },
					func() error { return header.OpenSearchCategories(t.Ctx, t.Page) },
					func() error { return header.PickSearchCategory(t.Ctx, t.Page, "Одежда") },
					func() error { return header.ResetSearchCategory(t.Ctx, t.Page) },
				)
			},
		},
		{
			Name: "Search for Iphone 13",
			Run:  searchIphone,
		},
		{
			Name: "Search submitted with Enter",
			Run: func(t *T) error {
				if err := homepage.Open(t.Ctx, t.Page); err != nil {
					return err
				}
				if err := header.SubmitSearch(t.Ctx, t.Page, ProductQuery); err != nil {
					return err
				}
				found, err := search.FoundItemsCount(t.Ctx, t.Page)
				if err != nil {
					return err
				}
				if found <= MinFoundItems {
					return Failf("Found items count = %d", found)
				}
				return nil
			},
		},
		{
			Name: `"Didn't find what you need?" button`,
			Run: func(t *T) error {
				return Steps(
					func() error { return openAndSearch(t, ProductQuery) },
					func() error { return t.ExpectVisible(search.NotFoundHint) },
				)
			},
		},
		{
			Name: "Pagination",
			Run:  pagination,
		},
		{
			Name: "Unsuccessful search",
			Run: func(t *T) error {
				return Steps(
					func() error { return openAndSearch(t, MisspelledQuery) },
					func() error { return t.ExpectText(search.FullTextResults, "По запросу пова найден") },
					func() error { return t.ExpectText(search.FullTextResults, "Вы искали "+MisspelledQuery+"?") },
					func() error { return search.AcceptSpellingSuggestion(t.Ctx, t.Page) },
					func() error { return t.ExpectVisible(search.EmptyResults) },
				)
			},
		},
	}

	for i := range scenarios {
		scenarios[i].Suite = SuiteSearch
	}
	return scenarios
}

func openAndSearch(t *T, query string) error {
	if err := homepage.Open(t.Ctx, t.Page); err != nil {
		return err
	}
	return header.SearchProduct(t.Ctx, t.Page, query)
}

func searchIphone(t *T) error {
	if err := openAndSearch(t, ProductQuery); err != nil {
		return err
	}

	found, err := search.FoundItemsCount(t.Ctx, t.Page)
	if err != nil {
		return err
	}
	if found <= MinFoundItems {
		return Failf("Found items count = %d", found)
	}

	category, err := search.DetectedCategoryName(t.Ctx, t.Page)
	if err != nil {
		return err
	}
	if err := ExpectEqual("detected category", category, ExpectedCategory); err != nil {
		return err
	}

	expected := []string{search.FilterChip("Бренды", "Apple")}
	for _, f := range ProductFilters {
		if err := search.AddFilter(t.Ctx, t.Page, f[0], f[1]); err != nil {
			return err
		}
		expected = append(expected, search.FilterChip(f[0], f[1]))
	}
	if err := t.ExpectVisible(search.ClearFilters); err != nil {
		return err
	}

	active, err := search.ActiveFilterTexts(t.Ctx, t.Page)
	if err != nil {
		return err
	}
	return ExpectNoneMissing("filters", active, expected)
}

func pagination(t *T) error {
	if err := openAndSearch(t, ProductQuery); err != nil {
		return err
	}
	before, err := search.FirstItemName(t.Ctx, t.Page)
	if err != nil {
		return err
	}
	if err := search.GoToPaginationPage(t.Ctx, t.Page, 2); err != nil {
		return err
	}
	after, err := search.FirstItemName(t.Ctx, t.Page)
	if err != nil {
		return err
	}
	if after == before {
		return Failf("top result did not change after paging: %q", after)
	}
	return nil
}
