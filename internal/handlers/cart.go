package handlers

import (
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// CartCookie holds the dot-separated SKUs in the visitor's cart
	CartCookie = "cart"
	// B2BSeenCookie is set once the business-account popup has been shown
	B2BSeenCookie = "b2b_seen"
)

// CartHandler serves /cart, /cart/add and /cart/delete. The cart lives in a
// cookie so every browser context gets its own.
type CartHandler struct {
	template *template.Template
	chrome   Chrome
	catalog  *Catalog
	log      logrus.FieldLogger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(fsys fs.FS, chrome Chrome, catalog *Catalog, log logrus.FieldLogger) (*CartHandler, error) {
	tmpl, err := parsePage(fsys, "cart.html")
	if err != nil {
		return nil, err
	}

	return &CartHandler{
		template: tmpl,
		chrome:   chrome,
		catalog:  catalog,
		log:      log,
	}, nil
}

type cartView struct {
	Items   []Product
	ShowB2B bool
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/cart":
		h.show(w, r)
	case "/cart/add":
		h.add(w, r)
	case "/cart/delete":
		h.delete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CartHandler) show(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := cartView{}
	for _, sku := range readCart(r) {
		if p, ok := h.catalog.Product(sku); ok {
			data.Items = append(data.Items, p)
		}
	}

	if _, err := r.Cookie(B2BSeenCookie); err != nil && len(data.Items) > 0 {
		data.ShowB2B = true
		http.SetCookie(w, &http.Cookie{Name: B2BSeenCookie, Value: "1", Path: "/"})
	}

	render(w, h.template, h.log, view{Title: "Корзина", Chrome: h.chrome, Data: data})
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	sku, err := strconv.Atoi(r.PostForm.Get("sku"))
	if err != nil {
		http.Error(w, "Invalid sku", http.StatusBadRequest)
		return
	}
	if _, ok := h.catalog.Product(sku); !ok {
		http.NotFound(w, r)
		return
	}

	items := readCart(r)
	if !slices.Contains(items, sku) {
		items = append(items, sku)
	}
	writeCart(w, items)
	h.log.WithFields(logrus.Fields{"sku": sku, "items": len(items)}).Debug("Added to cart")

	back := r.PostForm.Get("back")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *CartHandler) delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	remove := map[int]bool{}
	for _, raw := range r.PostForm["sku"] {
		if sku, err := strconv.Atoi(raw); err == nil {
			remove[sku] = true
		}
	}

	var kept []int
	for _, sku := range readCart(r) {
		if !remove[sku] {
			kept = append(kept, sku)
		}
	}
	writeCart(w, kept)
	h.log.WithFields(logrus.Fields{"removed": len(remove), "items": len(kept)}).Debug("Deleted from cart")

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func readCart(r *http.Request) []int {
	c, err := r.Cookie(CartCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	var items []int
	for _, raw := range strings.Split(c.Value, ".") {
		if sku, err := strconv.Atoi(raw); err == nil {
			items = append(items, sku)
		}
	}
	return items
}

func writeCart(w http.ResponseWriter, items []int) {
	parts := make([]string, len(items))
	for i, sku := range items {
		parts[i] = strconv.Itoa(sku)
	}
	c := &http.Cookie{Name: CartCookie, Value: strings.Join(parts, "."), Path: "/"}
	if len(items) == 0 {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}
