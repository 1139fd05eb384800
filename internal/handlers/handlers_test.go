package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func expectBody(t *testing.T, rec *httptest.ResponseRecorder, wants ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %q", want)
		}
	}
}

func TestHomeHandler_ServeHTTP(t *testing.T) {
	h, err := NewHomeHandler(Templates, DefaultChrome, quietLogger())
	if err != nil {
		t.Fatalf("NewHomeHandler() error = %v", err)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"home page", http.MethodGet, "/", http.StatusOK},
		{"unknown path", http.MethodGet, "/missing", http.StatusNotFound},
		{"method not allowed - POST", http.MethodPost, "/", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	expectBody(t, rec,
		`data-widget="topBar"`,
		"Мобильное приложение",
		"Есть промокод?",
		"Версия для слабовидящих",
		"Обратная связь",
		"Бесплатные IT курсы",
		`data-widget="horizontalMenu"`,
	)
	if n := strings.Count(rec.Body.String(), `<li><a href="/help">`); n != len(DefaultChrome.HelpLinks) {
		t.Errorf("Expected %d help links, got %d", len(DefaultChrome.HelpLinks), n)
	}
}

func TestPageHandler_ServeHTTP(t *testing.T) {
	h, err := NewAppsHandler(Templates, DefaultChrome, quietLogger())
	if err != nil {
		t.Fatalf("NewAppsHandler() error = %v", err)
	}

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/apps", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	expectBody(t, rec, `id="apps"`, "OZON ещё лучше в приложении")

	rec = serve(t, h, httptest.NewRequest(http.MethodDelete, "/apps", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}

func TestNewPageHandler_MissingTemplate(t *testing.T) {
	if _, err := NewPageHandler(Templates, "missing.html", "Missing", DefaultChrome, nil, quietLogger()); err == nil {
		t.Error("Expected an error for a missing template")
	}
}

func TestSearchHandler_ServeHTTP(t *testing.T) {
	h, err := NewSearchHandler(Templates, DefaultChrome, NewCatalog(), quietLogger())
	if err != nil {
		t.Fatalf("NewSearchHandler() error = %v", err)
	}

	tests := []struct {
		name           string
		method         string
		query          url.Values
		expectedStatus int
		expectedBody   []string
		unexpectedBody []string
	}{
		{
			name:           "product search",
			method:         http.MethodGet,
			query:          url.Values{"text": {"iphone 13"}},
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				"По запросу iphone 13 найдено 480 товаров",
				"<h1>Смартфоны Apple</h1>",
				"Бренды: Apple",
				"Оперативная память",
				"В корзину",
				"Не нашли, что искали?",
				`aria-current="page">1</a>`,
			},
			unexpectedBody: []string{"Вы искали"},
		},
		{
			name:   "filtered search",
			method: http.MethodGet,
			query: url.Values{
				"text":   {"iphone 13"},
				"filter": {"Линейка:Apple iPhone 13", "Оперативная память:4-8 ГБ"},
			},
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				"найдено 240 товаров",
				"Линейка: Apple iPhone 13",
				"Оперативная память: 4-8 ГБ",
				"Очистить всё",
			},
		},
		{
			name:           "misspelled search",
			method:         http.MethodGet,
			query:          url.Values{"text": {"gjdsf"}},
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				"По запросу пова найдено 3 товара",
				"Вы искали gjdsf?",
				"exact=1",
			},
		},
		{
			name:           "exact search with no results",
			method:         http.MethodGet,
			query:          url.Values{"text": {"gjdsf"}, "exact": {"1"}},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{"Простите, по вашему запросу товаров сейчас нет."},
			unexpectedBody: []string{"Вы искали", "Не нашли, что искали?"},
		},
		{
			name:           "method not allowed - POST",
			method:         http.MethodPost,
			query:          url.Values{"text": {"iphone 13"}},
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/search/?"+tt.query.Encode(), nil)
			rec := serve(t, h, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			expectBody(t, rec, tt.expectedBody...)
			for _, unwanted := range tt.unexpectedBody {
				if strings.Contains(rec.Body.String(), unwanted) {
					t.Errorf("Expected body not to contain %q", unwanted)
				}
			}
		})
	}
}

func TestBuildSearchView(t *testing.T) {
	catalog := NewCatalog()
	line := Filter{Group: "Линейка", Option: "Apple iPhone 13"}
	filters := []Filter{line}

	// GIVEN the second page of a filtered search
	listing := catalog.Search("iphone 13", filters, 2, false)

	// WHEN building the view
	v := buildSearchView(listing, "iphone 13", filters, false)

	// THEN the chips remove their own filter only
	if len(v.Active) != 2 {
		t.Fatalf("Expected 2 chips, got %d", len(v.Active))
	}
	if v.Active[1].Chip != "Линейка: Apple iPhone 13" {
		t.Errorf("Unexpected chip %q", v.Active[1].Chip)
	}
	if v.Active[1].URL != v.ClearURL {
		t.Errorf("Expected removing the only filter to clear, got %q", v.Active[1].URL)
	}
	if v.ClearURL != "/search/?text=iphone+13" {
		t.Errorf("ClearURL = %q", v.ClearURL)
	}

	// AND the paginator is capped and marks the current page
	if len(v.Pages) != maxPageLinks {
		t.Fatalf("Expected %d page links, got %d", maxPageLinks, len(v.Pages))
	}
	for _, p := range v.Pages {
		if p.Current != (p.Number == 2) {
			t.Errorf("Page %d current = %v", p.Number, p.Current)
		}
	}
	if v.Self != v.Pages[1].URL {
		t.Errorf("Self = %q, want %q", v.Self, v.Pages[1].URL)
	}
	if strings.Contains(v.Pages[0].URL, "page=") {
		t.Errorf("Expected page 1 without a page parameter, got %q", v.Pages[0].URL)
	}

	// AND choosing an option adds it to the current filters once
	for _, g := range v.Groups {
		for _, o := range g.Options {
			u, err := url.Parse(o.URL)
			if err != nil {
				t.Fatal(err)
			}
			got := u.Query()["filter"]
			if g.Name == line.Group && o.Label == line.Option && len(got) != 1 {
				t.Errorf("Expected the active option once, got %v", got)
			}
			if g.Name != line.Group && len(got) != 2 {
				t.Errorf("Expected %q to add to the active filter, got %v", o.Label, got)
			}
		}
	}
}

// b2bPopup is the rendered popup element; the page script only refers to it.
const b2bPopup = `<div data-widget="alertPopup"`

func TestCartHandler_Flow(t *testing.T) {
	catalog := NewCatalog()
	h, err := NewCartHandler(Templates, DefaultChrome, catalog, quietLogger())
	if err != nil {
		t.Fatalf("NewCartHandler() error = %v", err)
	}
	items := catalog.Search("iphone 13", nil, 1, false).Items
	first, second := items[0], items[1]

	post := func(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return serve(t, h, req)
	}
	get := func(cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return serve(t, h, req)
	}
	cookie := func(rec *httptest.ResponseRecorder, name string) *http.Cookie {
		for _, c := range rec.Result().Cookies() {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	// GIVEN an empty cart
	rec := get()
	expectBody(t, rec, "Корзина пуста")

	// WHEN adding two products from a results page
	rec = post("/cart/add", url.Values{"sku": {itoa(first.SKU)}, "back": {"/search/?text=iphone+13"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/search/?text=iphone+13" {
		t.Errorf("Expected redirect back to results, got %q", loc)
	}
	cart := cookie(rec, CartCookie)
	rec = post("/cart/add", url.Values{"sku": {itoa(second.SKU)}}, cart)
	cart = cookie(rec, CartCookie)
	if want := itoa(first.SKU) + "." + itoa(second.SKU); cart == nil || cart.Value != want {
		t.Fatalf("Expected cart cookie %q, got %v", want, cart)
	}

	// THEN the first visit to the cart shows both items and the business popup
	rec = get(cart)
	expectBody(t, rec, first.Name, second.Name, "Удалить выбранные", b2bPopup)
	seen := cookie(rec, B2BSeenCookie)
	if seen == nil {
		t.Fatal("Expected the business popup to be marked as seen")
	}

	// AND later visits do not show the popup again
	rec = get(cart, seen)
	if strings.Contains(rec.Body.String(), b2bPopup) {
		t.Error("Expected the business popup to be shown only once")
	}

	// WHEN deleting the first item
	rec = post("/cart/delete", url.Values{"sku": {itoa(first.SKU)}}, cart)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/cart" {
		t.Fatalf("Expected redirect to /cart, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	cart = cookie(rec, CartCookie)
	if cart == nil || cart.Value != itoa(second.SKU) {
		t.Fatalf("Expected only the second item left, got %v", cart)
	}

	// AND deleting the rest empties the cart
	rec = post("/cart/delete", url.Values{"sku": {itoa(second.SKU)}}, cart)
	if c := cookie(rec, CartCookie); c == nil || c.MaxAge >= 0 {
		t.Errorf("Expected the cart cookie to be cleared, got %v", c)
	}
}

func TestCartHandler_Errors(t *testing.T) {
	h, err := NewCartHandler(Templates, DefaultChrome, NewCatalog(), quietLogger())
	if err != nil {
		t.Fatalf("NewCartHandler() error = %v", err)
	}

	tests := []struct {
		name           string
		method         string
		path           string
		form           url.Values
		expectedStatus int
		expectedLoc    string
	}{
		{"unknown path", http.MethodGet, "/cart/checkout", nil, http.StatusNotFound, ""},
		{"method not allowed - POST cart", http.MethodPost, "/cart", nil, http.StatusMethodNotAllowed, ""},
		{"method not allowed - GET add", http.MethodGet, "/cart/add", nil, http.StatusMethodNotAllowed, ""},
		{"method not allowed - GET delete", http.MethodGet, "/cart/delete", nil, http.StatusMethodNotAllowed, ""},
		{"invalid sku", http.MethodPost, "/cart/add", url.Values{"sku": {"abc"}}, http.StatusBadRequest, ""},
		{"unknown sku", http.MethodPost, "/cart/add", url.Values{"sku": {"1"}}, http.StatusNotFound, ""},
		{"offsite back", http.MethodPost, "/cart/add", url.Values{"sku": {"100001"}, "back": {"//evil.example"}}, http.StatusSeeOther, "/"},
		{"trailing slash", http.MethodGet, "/cart/", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := serve(t, h, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedLoc != "" && rec.Header().Get("Location") != tt.expectedLoc {
				t.Errorf("Expected redirect to %q, got %q", tt.expectedLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// brokenTemplates has a layout that fails as soon as it runs
var brokenTemplates = fstest.MapFS{
	"templates/layout.html": {Data: []byte(`{{define "layout"}}{{.Missing}}{{end}}`)},
	"templates/home.html":   {Data: []byte(`{{define "content"}}{{end}}`)},
	"templates/search.html": {Data: []byte(`{{define "content"}}{{end}}`)},
	"templates/cart.html":   {Data: []byte(`{{define "content"}}{{end}}`)},
	"templates/apps.html":   {Data: []byte(`{{define "content"}}{{end}}`)},
}

func TestHandlers_LogRenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler func(log logrus.FieldLogger) (http.Handler, error)
		path    string
	}{
		{"home", func(log logrus.FieldLogger) (http.Handler, error) {
			return NewHomeHandler(brokenTemplates, DefaultChrome, log)
		}, "/"},
		{"search", func(log logrus.FieldLogger) (http.Handler, error) {
			return NewSearchHandler(brokenTemplates, DefaultChrome, NewCatalog(), log)
		}, "/search/?text=iphone+13"},
		{"cart", func(log logrus.FieldLogger) (http.Handler, error) {
			return NewCartHandler(brokenTemplates, DefaultChrome, NewCatalog(), log)
		}, "/cart"},
		{"apps", func(log logrus.FieldLogger) (http.Handler, error) {
			return NewAppsHandler(brokenTemplates, DefaultChrome, log)
		}, "/apps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a handler whose page cannot render
			log, hook := logtest.NewNullLogger()
			h, err := tt.handler(log)
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			// WHEN
			rec := serve(t, h, httptest.NewRequest(http.MethodGet, tt.path, nil))

			// THEN the visitor gets a 500 and the error is logged
			if rec.Code != http.StatusInternalServerError {
				t.Errorf("Expected status 500, got %d", rec.Code)
			}
			entry := hook.LastEntry()
			if entry == nil || entry.Level != logrus.ErrorLevel || entry.Message != "Error rendering page" {
				t.Fatalf("Expected the render error to be logged, got %v", entry)
			}
			if _, ok := entry.Data[logrus.ErrorKey]; !ok {
				t.Error("Expected the template error in the log entry")
			}
		})
	}
}
