package scenario

import (
	"errors"
	"time"

	"github.com/ozonqa/storefront-e2e/internal/locator"
	"github.com/ozonqa/storefront-e2e/internal/pages/footer"
	"github.com/ozonqa/storefront-e2e/internal/pages/header"
	"github.com/ozonqa/storefront-e2e/internal/pages/homepage"
)

var (
	TopBarLinks = []string{
		"Ozon для бизнеса",
		"Мобильное приложение",
		"Подарочные сертификаты",
		"Продавайте на Ozon",
		"Помощь",
		"Реферальная программа",
	}

	NavBarLinks = []string{
		"TOP Fashion", "Premium",
		"Ozon fresh",
		"Ozon Карта", "Рассрочка",
		"Акции",
		"Бренды",
		"Express",
		"Электроника",
		"Одежда и обувь", "Детские товары",
		"Дом и сад",
	}

	FooterInfoTitles = []string{
		"Зарабатывайте с Ozon",
		"О компании",
		"Помощь",
		"Ozon для бизнеса",
	}

	FooterEcosystem = []string{
		"Интернет-магазин",
		"Работа в Ozon",
		"Авиабилеты",
		"Бесплатные IT курсы",
		"Электронные книги",
	}
)

// PromoErrorColor is the border colour of the promo input after an empty submit.
const PromoErrorColor = "rgb(249, 17, 85)"

const (
	helpPopupLinks     = 8
	footerInfoSections = 5
	promoRepaint       = 2 * time.Second

	skipUnstableLanding = "landing page content changes too often"
)

// navbarLanding is the text a navigation bar landing page is expected to show.
var navbarLanding = []struct {
	link, text string
}{
	{"TOP Fashion", "TOP Fashion"},
	{"Акции", "Выгодные предложения"},
	{"Бренды", "Популярные бренды"},
	{"Магазины", "Все магазины"},
	{"Электроника", "Бытовая техника"},
	{"Одежда и обувь", "Женская одежда, обувь и аксессуары"},
	{"Детские товары", "Игрушки и игры"},
	{"Дом и сад", "Товары для праздников"},
}

func homepageScenarios() []Scenario {
	scenarios := []Scenario{
		{
			Name: "Top bar links › Links list",
			Run: func(t *T) error {
				if err := homepage.Open(t.Ctx, t.Page); err != nil {
					return err
				}
				present, err := homepage.TopBarLinkTexts(t.Ctx, t.Page)
				if err != nil {
					return err
				}
				return ExpectNoneMissing("links", present, TopBarLinks)
			},
		},
		{
			Name: "Top bar links › Ozon for business",
			Skip: skipUnstableLanding,
			Run:  topBarLanding("Ozon для бизнеса", Body, "Для компаний любого масштаба"),
		},
		{
			Name: "Top bar links › Mobile app › Navigate from homepage",
			Run:  topBarLanding("Мобильное приложение", "#apps", "OZON ещё лучше в приложении"),
		},
		{
			Name: "Top bar links › Gift certificate",
			Skip: skipUnstableLanding,
			Run: topBarLanding("Подарочные сертификаты",
				`//div[@data-widget="webProductHeading"]`, "Электронный подарочный сертификат"),
		},
		{
			Name: "Top bar links › Help on hover",
			Run: func(t *T) error {
				return Steps(
					func() error { return homepage.Open(t.Ctx, t.Page) },
					func() error { return homepage.HoverHelp(t.Ctx, t.Page) },
					func() error { return t.ExpectCount(homepage.HelpPopup.Locate("a"), helpPopupLinks) },
				)
			},
		},
		{
			Name: "Promo code",
			Run:  promoCode,
		},
		{
			Name: "Sign in from header › Sign in button on hover. Pop-up",
			Run: func(t *T) error {
				return Steps(
					func() error { return homepage.Open(t.Ctx, t.Page) },
					func() error { return header.HoverSignIn(t.Ctx, t.Page) },
				)
			},
		},
		{
			Name: "Header links › Links list",
			Run: func(t *T) error {
				if err := homepage.Open(t.Ctx, t.Page); err != nil {
					return err
				}
				present, err := header.NavBarLinkTexts(t.Ctx, t.Page)
				if err != nil {
					return err
				}
				return ExpectNoneMissing("links", present, NavBarLinks)
			},
		},
		{
			Name: "Header links › LIVE",
			Skip: skipUnstableLanding,
			Run: func(t *T) error {
				return Steps(
					func() error { return homepage.Open(t.Ctx, t.Page) },
					func() error { return header.GoToNavbarLink(t.Ctx, t.Page, "LIVE") },
					func() error { return t.ExpectCount(locator.DataWidget("webTopStreams"), 1) },
				)
			},
		},
	}

	for _, landing := range navbarLanding {
		scenarios = append(scenarios, Scenario{
			Name: "Header links › " + landing.link,
			Skip: skipUnstableLanding,
			Run:  navbarLandingCheck(landing.link, landing.text),
		})
	}

	scenarios = append(scenarios,
		Scenario{
			Name: "Catalogue. Filters change on hover",
			Run: func(t *T) error {
				return Steps(
					func() error { return homepage.Open(t.Ctx, t.Page) },
					func() error { return header.OpenCatalogue(t.Ctx, t.Page) },
					func() error { return header.HoverCatalogueCategory(t.Ctx, t.Page, "Обувь") },
					func() error { return t.ExpectText(header.CatalogueFilters, "Босоножки") },
					func() error { return header.HoverCatalogueCategory(t.Ctx, t.Page, "Электроника") },
					func() error { return t.ExpectText(header.CatalogueFilters, "Моноблоки") },
				)
			},
		},
		Scenario{
			Name: "Footer › Accessibility version button",
			Run: func(t *T) error {
				return Steps(
					func() error { return homepage.Open(t.Ctx, t.Page) },
					func() error { return t.ExpectCount(footer.VersionForVisuallyImpaired, 1) },
				)
			},
		},
		Scenario{
			Name: "Footer › Misc info links",
			Run:  footerInfoLinks,
		},
		Scenario{
			Name: "Footer › Ozon ecosystem links",
			Run: func(t *T) error {
				if err := homepage.Open(t.Ctx, t.Page); err != nil {
					return err
				}
				if err := t.ExpectCount(footer.EcosystemSection.Locate("a"), len(FooterEcosystem)); err != nil {
					return err
				}
				for _, text := range FooterEcosystem {
					if err := t.ExpectText(footer.EcosystemSection, text); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)

	for i := range scenarios {
		scenarios[i].Suite = SuiteHomepage
	}
	return scenarios
}

func topBarLanding(link string, target locator.Selector, text string) func(*T) error {
	return func(t *T) error {
		return Steps(
			func() error { return homepage.Open(t.Ctx, t.Page) },
			func() error { return homepage.ClickTopBarLink(t.Ctx, t.Page, link) },
			func() error { return t.ExpectText(target, text) },
		)
	}
}

func navbarLandingCheck(link, text string) func(*T) error {
	return func(t *T) error {
		return Steps(
			func() error { return homepage.Open(t.Ctx, t.Page) },
			func() error { return header.GoToNavbarLink(t.Ctx, t.Page, link) },
			func() error { return t.ExpectText(Body, text) },
		)
	}
}

func promoCode(t *T) error {
	if err := homepage.Open(t.Ctx, t.Page); err != nil {
		return err
	}
	if err := t.ExpectText(homepage.PromoWidget, "Есть промокод?"); err != nil {
		return err
	}
	if err := t.ExpectCount(homepage.PromoInput, 1); err != nil {
		return err
	}
	if err := t.ExpectCount(homepage.PromoButton, 1); err != nil {
		return err
	}

	if err := homepage.SubmitPromoCode(t.Ctx, t.Page, ""); err != nil {
		return err
	}
	var color string
	err := t.Eventually(promoRepaint, func() (bool, error) {
		var err error
		color, err = homepage.PromoBorderColor(t.Ctx, t.Page)
		return color == PromoErrorColor, err
	})
	if errors.Is(err, ErrAssertion) {
		return ExpectEqual("promo input border color", color, PromoErrorColor)
	}
	if err != nil {
		return err
	}

	if err := homepage.SubmitPromoCode(t.Ctx, t.Page, "44"); err != nil {
		return err
	}
	return t.ExpectText(Body, "Вы не авторизованы")
}

func footerInfoLinks(t *T) error {
	if err := homepage.Open(t.Ctx, t.Page); err != nil {
		return err
	}
	if err := t.ExpectCount(footer.InfoLinksSection.Locate("xpath=/div"), footerInfoSections); err != nil {
		return err
	}
	titles, err := footer.InfoSectionTitles(t.Ctx, t.Page)
	if err != nil {
		return err
	}
	for i, want := range FooterInfoTitles {
		got := ""
		if i < len(titles) {
			got = titles[i]
		}
		if err := ExpectEqual("footer section title", got, want); err != nil {
			return err
		}
	}
	return nil
}
