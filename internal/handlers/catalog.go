package handlers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Product is one offer of the fixture storefront
type Product struct {
	SKU      int
	Name     string
	Price    string
	Brand    string
	Category string
	Attrs    map[string]string
}

// Filter is one ticked option of a filter group
type Filter struct {
	Group  string
	Option string
}

// Chip is the label of an active filter, "group: option"
func (f Filter) Chip() string {
	return f.Group + ": " + f.Option
}

// Query encodes f for the filter URL parameter
func (f Filter) Query() string {
	return f.Group + ":" + f.Option
}

// ParseFilter reads a filter URL parameter written by Query
func ParseFilter(s string) (Filter, bool) {
	group, option, ok := strings.Cut(s, ":")
	if !ok || group == "" || option == "" {
		return Filter{}, false
	}
	return Filter{Group: group, Option: option}, true
}

// FilterGroup lists the options offered for one attribute
type FilterGroup struct {
	Name    string
	Options []string
}

// Listing is one page of search results
type Listing struct {
	Query      string
	Suggestion string // set when Query was replaced by a correction
	Total      int
	Category   string
	Brand      string
	Filters    []Filter
	Groups     []FilterGroup
	Items      []Product
	Page       int
	Pages      int
}

// PageSize is the number of tiles per results page
const PageSize = 12

// Catalog is the in-memory assortment served by the fixture storefront
type Catalog struct {
	products    []Product
	bySKU       map[int]Product
	corrections map[string]string
}

// NewCatalog builds the fixture assortment
func NewCatalog() *Catalog {
	c := &Catalog{
		bySKU: map[int]Product{},
		corrections: map[string]string{
			"gjdsf": "пова",
		},
	}

	sku := 100000
	add := func(p Product) {
		sku++
		p.SKU = sku
		c.products = append(c.products, p)
		c.bySKU[p.SKU] = p
	}

	models := []struct{ name, line, ram string }{
		{"iPhone 13", "Apple iPhone 13", "4-8 ГБ"},
		{"iPhone 13 mini", "Apple iPhone 13", "4-8 ГБ"},
		{"iPhone 13 Pro", "Apple iPhone 13 Pro", "4-8 ГБ"},
		{"iPhone 13 Pro Max", "Apple iPhone 13 Pro", "4-8 ГБ"},
	}
	storage := []string{"128 ГБ", "256 ГБ", "512 ГБ", "1 ТБ"}
	colors := []string{"синий", "розовый", "зеленый", "черный", "белый", "красный"}
	for seller := 1; seller <= 5; seller++ {
		for _, m := range models {
			for si, s := range storage {
				for ci, color := range colors {
					add(Product{
						Name:     fmt.Sprintf("Смартфон Apple %s %s, %s", m.name, s, color),
						Price:    formatPrice(59990 + si*10000 + ci*500 + seller*300),
						Brand:    "Apple",
						Category: "Смартфоны Apple",
						Attrs: map[string]string{
							"Оперативная память": m.ram,
							"Линейка":            m.line,
							"Встроенная память":  s,
						},
					})
				}
			}
		}
	}

	for _, name := range []string{
		"Поварёшка из нержавеющей стали",
		"Поварской нож 20 см",
		"Книга «Повар-кондитер. Учебник»",
	} {
		add(Product{Name: name, Price: formatPrice(490), Category: "Кухонные принадлежности"})
	}

	return c
}

// Product returns the offer with the given SKU
func (c *Catalog) Product(sku int) (Product, bool) {
	p, ok := c.bySKU[sku]
	return p, ok
}

// Search returns the requested page of products matching every word of query
// and every filter. Unless exact is set, a query with no matches is replaced
// by its known correction.
func (c *Catalog) Search(query string, filters []Filter, page int, exact bool) Listing {
	listing := Listing{Query: query, Filters: filters}

	matches := c.match(query)
	if len(matches) == 0 && !exact {
		if corrected, ok := c.corrections[strings.ToLower(query)]; ok {
			listing.Suggestion = query
			listing.Query = corrected
			matches = c.match(corrected)
		}
	}

	listing.Category, listing.Brand = common(matches)
	if listing.Brand != "" {
		listing.Filters = append([]Filter{{Group: "Бренды", Option: listing.Brand}}, filters...)
	}
	listing.Groups = groups(matches)

	var filtered []Product
	for _, p := range matches {
		if accepts(p, filters) {
			filtered = append(filtered, p)
		}
	}

	listing.Total = len(filtered)
	listing.Pages = (len(filtered) + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}
	if listing.Pages > 0 && page > listing.Pages {
		page = listing.Pages
	}
	listing.Page = page

	start := (page - 1) * PageSize
	if start < len(filtered) {
		end := min(start+PageSize, len(filtered))
		listing.Items = filtered[start:end]
	}
	return listing
}

func (c *Catalog) match(query string) []Product {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	var found []Product
	for _, p := range c.products {
		name := strings.ToLower(p.Name)
		ok := true
		for _, w := range words {
			if !strings.Contains(name, w) {
				ok = false
				break
			}
		}
		if ok {
			found = append(found, p)
		}
	}
	return found
}

func accepts(p Product, filters []Filter) bool {
	for _, f := range filters {
		if p.Attrs[f.Group] != f.Option {
			return false
		}
	}
	return true
}

// common returns the category and brand shared by every product, if any
func common(products []Product) (category, brand string) {
	if len(products) == 0 {
		return "", ""
	}
	category, brand = products[0].Category, products[0].Brand
	for _, p := range products[1:] {
		if p.Category != category {
			category = ""
		}
		if p.Brand != brand {
			brand = ""
		}
	}
	return category, brand
}

func groups(products []Product) []FilterGroup {
	options := map[string]map[string]bool{}
	for _, p := range products {
		for name, value := range p.Attrs {
			if options[name] == nil {
				options[name] = map[string]bool{}
			}
			options[name][value] = true
		}
	}

	var result []FilterGroup
	for name, values := range options {
		g := FilterGroup{Name: name}
		for v := range values {
			g.Options = append(g.Options, v)
		}
		sort.Strings(g.Options)
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// FoundText is the listing header, e.g. "По запросу iphone 13 найдено 480 товаров"
func FoundText(query string, total int) string {
	verb := "найдено"
	if total%10 == 1 && total%100 != 11 {
		verb = "найден"
	}
	return fmt.Sprintf("По запросу %s %s %s %s", query, verb, groupThousands(total), pluralGoods(total))
}

func pluralGoods(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return "товаров"
	case n%10 == 1:
		return "товар"
	case n%10 >= 2 && n%10 <= 4:
		return "товара"
	default:
		return "товаров"
	}
}

func formatPrice(rub int) string {
	return groupThousands(rub) + " ₽"
}

// groupThousands separates thousands with a non-breaking space
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteRune('\u00a0')
		}
		b.WriteRune(r)
	}
	return b.String()
}
