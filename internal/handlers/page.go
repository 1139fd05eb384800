package handlers

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"
)

// PageHandler serves a static storefront page such as /apps
type PageHandler struct {
	template *template.Template
	title    string
	chrome   Chrome
	data     any
	log      logrus.FieldLogger
}

// NewPageHandler creates a handler rendering page from fsys with data
func NewPageHandler(fsys fs.FS, page, title string, chrome Chrome, data any, log logrus.FieldLogger) (*PageHandler, error) {
	tmpl, err := parsePage(fsys, page)
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		template: tmpl,
		title:    title,
		chrome:   chrome,
		data:     data,
		log:      log,
	}, nil
}

// NewAppsHandler serves the mobile app landing page
func NewAppsHandler(fsys fs.FS, chrome Chrome, log logrus.FieldLogger) (*PageHandler, error) {
	return NewPageHandler(fsys, "apps.html", "Мобильное приложение", chrome,
		[]string{"App Store", "Google Play", "AppGallery", "RuStore"}, log)
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	render(w, h.template, h.log, view{Title: h.title, Chrome: h.chrome, Data: h.data})
}
