package handlers

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"
)

// HomeHandler serves the storefront landing page
type HomeHandler struct {
	template    *template.Template
	chrome      Chrome
	recommended []string
	log         logrus.FieldLogger
}

// NewHomeHandler creates a new HomeHandler from the templates in fsys
func NewHomeHandler(fsys fs.FS, chrome Chrome, log logrus.FieldLogger) (*HomeHandler, error) {
	tmpl, err := parsePage(fsys, "home.html")
	if err != nil {
		return nil, err
	}

	return &HomeHandler{
		template:    tmpl,
		chrome:      chrome,
		recommended: []string{"iphone 13", "поварёшка"},
		log:         log,
	}, nil
}

// ServeHTTP handles the GET / request. Any other path under / is not found.
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	render(w, h.template, h.log, view{Title: "Интернет-магазин", Chrome: h.chrome, Data: h.recommended})
}
