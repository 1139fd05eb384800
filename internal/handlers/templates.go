package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Templates holds the storefront pages. Each page defines "content" and
// optionally "scripts" for templates/layout.html.
//
//go:embed templates/*.html
var Templates embed.FS

// MenuCategory is a catalogue menu entry with its filter column
type MenuCategory struct {
	Name  string
	Items []string
}

// InfoSection is a titled column of footer links
type InfoSection struct {
	Title string
	Links []string
}

// Chrome is the content shared by every page: top bar, header and footer
type Chrome struct {
	HelpLinks        []string
	Menu             []MenuCategory
	SearchCategories []string
	NavLinks         []string
	InfoSections     []InfoSection
	Ecosystem        []string
}

// DefaultChrome is the fixture storefront's shared content
var DefaultChrome = Chrome{
	HelpLinks: []string{
		"Статус заказа", "Доставка", "Оплата", "Возврат товара",
		"Возврат денег", "Обмен и ремонт", "Контакты", "Обратная связь",
	},
	Menu: []MenuCategory{
		{Name: "Электроника", Items: []string{"Смартфоны", "Ноутбуки", "Моноблоки", "Телевизоры"}},
		{Name: "Одежда", Items: []string{"Платья", "Джинсы", "Куртки"}},
		{Name: "Обувь", Items: []string{"Босоножки", "Кроссовки", "Туфли", "Ботинки"}},
		{Name: "Дом и сад", Items: []string{"Посуда", "Текстиль", "Садовая техника"}},
		{Name: "Детские товары", Items: []string{"Игрушки", "Коляски", "Подгузники"}},
	},
	SearchCategories: []string{"Везде", "Одежда", "Электроника", "Дом и сад", "Детские товары"},
	NavLinks: []string{
		"TOP Fashion", "Premium", "Ozon fresh", "Ozon Карта", "Рассрочка", "LIVE",
		"Акции", "Бренды", "Магазины", "Express", "Электроника",
		"Одежда и обувь", "Детские товары", "Дом и сад",
	},
	InfoSections: []InfoSection{
		{Title: "Зарабатывайте с Ozon", Links: []string{"Продавайте на Ozon", "Пункты выдачи"}},
		{Title: "О компании", Links: []string{"Вакансии", "Реквизиты"}},
		{Title: "Помощь", Links: []string{"Как сделать заказ", "Способы оплаты"}},
		{Title: "Ozon для бизнеса", Links: []string{"Покупайте как юрлицо"}},
		{Title: "Партнёрам", Links: []string{"Реклама на Ozon"}},
	},
	Ecosystem: []string{
		"Интернет-магазин", "Работа в Ozon", "Авиабилеты", "Бесплатные IT курсы", "Электронные книги",
	},
}

// view is what the layout renders
type view struct {
	Title  string
	Query  string
	Chrome Chrome
	Data   any
}

// parsePage parses the layout together with one page from fsys
func parsePage(fsys fs.FS, page string) (*template.Template, error) {
	return template.ParseFS(fsys, "templates/layout.html", "templates/"+page)
}

// render executes the layout with v. A failure is logged and answered with 500.
func render(w http.ResponseWriter, tmpl *template.Template, log logrus.FieldLogger, v view) {
	if err := tmpl.ExecuteTemplate(w, "layout", v); err != nil {
		log.WithError(err).WithField("page", v.Title).Error("Error rendering page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
