package handlers

import (
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
)

// SearchHandler serves /search/ listings from a Catalog
type SearchHandler struct {
	template *template.Template
	chrome   Chrome
	catalog  *Catalog
	log      logrus.FieldLogger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(fsys fs.FS, chrome Chrome, catalog *Catalog, log logrus.FieldLogger) (*SearchHandler, error) {
	tmpl, err := parsePage(fsys, "search.html")
	if err != nil {
		return nil, err
	}

	return &SearchHandler{
		template: tmpl,
		chrome:   chrome,
		catalog:  catalog,
		log:      log,
	}, nil
}

type searchLink struct {
	URL   string
	Label string
}

type searchChip struct {
	Chip string
	URL  string
}

type searchGroup struct {
	Name    string
	Options []searchLink
}

type searchPage struct {
	Number  int
	URL     string
	Current bool
}

type searchSuggestion struct {
	Query string
	URL   string
}

type searchView struct {
	Found      string
	Suggestion *searchSuggestion
	Category   string
	Active     []searchChip
	ClearURL   string
	Groups     []searchGroup
	Items      []Product
	Pages      []searchPage
	Self       string
}

// maxPageLinks caps the paginator
const maxPageLinks = 10

// ServeHTTP handles GET /search/?text=...&filter=group:option&page=N&exact=1
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	text := q.Get("text")
	page, _ := strconv.Atoi(q.Get("page"))
	exact := q.Get("exact") == "1"

	var filters []Filter
	for _, raw := range q["filter"] {
		if f, ok := ParseFilter(raw); ok {
			filters = append(filters, f)
		}
	}

	listing := h.catalog.Search(text, filters, page, exact)

	h.log.WithFields(logrus.Fields{"text": text, "found": listing.Total}).Debug("Search")

	render(w, h.template, h.log, view{
		Title:  text,
		Query:  text,
		Chrome: h.chrome,
		Data:   buildSearchView(listing, text, filters, exact),
	})
}

func buildSearchView(l Listing, text string, filters []Filter, exact bool) searchView {
	v := searchView{
		Found:    FoundText(l.Query, l.Total),
		Category: l.Category,
		Items:    l.Items,
		Self:     searchURL(text, filters, l.Page, exact),
		ClearURL: searchURL(text, nil, 0, exact),
	}

	if l.Suggestion != "" {
		v.Suggestion = &searchSuggestion{Query: l.Suggestion, URL: searchURL(l.Suggestion, nil, 0, true)}
	}

	for _, f := range l.Filters {
		v.Active = append(v.Active, searchChip{Chip: f.Chip(), URL: searchURL(text, without(filters, f), 0, exact)})
	}

	for _, g := range l.Groups {
		group := searchGroup{Name: g.Name}
		for _, option := range g.Options {
			f := Filter{Group: g.Name, Option: option}
			group.Options = append(group.Options, searchLink{
				Label: option,
				URL:   searchURL(text, append(without(filters, f), f), 0, exact),
			})
		}
		v.Groups = append(v.Groups, group)
	}

	for n := 1; n <= min(l.Pages, maxPageLinks); n++ {
		v.Pages = append(v.Pages, searchPage{
			Number:  n,
			URL:     searchURL(text, filters, n, exact),
			Current: n == l.Page,
		})
	}
	return v
}

func without(filters []Filter, f Filter) []Filter {
	var rest []Filter
	for _, x := range filters {
		if x != f {
			rest = append(rest, x)
		}
	}
	return rest
}

func searchURL(text string, filters []Filter, page int, exact bool) string {
	q := url.Values{}
	q.Set("text", text)
	for _, f := range filters {
		q.Add("filter", f.Query())
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if exact {
		q.Set("exact", "1")
	}
	return "/search/?" + q.Encode()
}
