package homepage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/browser/browsertest"
)

func newHomepage() *browsertest.Fake {
	return browsertest.New().
		Set(Header, "").
		Set(TopBarLinks, "Ozon для бизнеса", "Мобильное приложение", "Помощь").
		Set(TopBarLink.With("Мобильное приложение"), "Мобильное приложение").
		Set(HelpEntry, "Помощь")
}

func TestOpen(t *testing.T) {
	page := newHomepage()

	if err := Open(context.Background(), page); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	calls := page.Calls()
	if calls[0] != "navigate /" {
		t.Errorf("expected navigation to /, got %q", calls[0])
	}
	if page.URL() != "/" {
		t.Errorf("URL() = %q", page.URL())
	}
}

func TestOpen_HeaderMissing(t *testing.T) {
	page := browsertest.New()

	err := Open(context.Background(), page)

	if !browser.IsTimeout(err) {
		t.Errorf("expected a timeout, got %v", err)
	}
}

func TestTopBarLinkTexts(t *testing.T) {
	got, err := TopBarLinkTexts(context.Background(), newHomepage())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Ozon для бизнеса", "Мобильное приложение", "Помощь"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTopBarLinkTexts_NoMatches(t *testing.T) {
	got, err := TopBarLinkTexts(context.Background(), browsertest.New())
	if err != nil {
		t.Fatalf("extraction must tolerate zero matches, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no links, got %q", got)
	}
}

func TestClickTopBarLink(t *testing.T) {
	t.Run("known label", func(t *testing.T) {
		page := newHomepage()
		if err := ClickTopBarLink(context.Background(), page, "Мобильное приложение"); err != nil {
			t.Fatalf("ClickTopBarLink() error = %v", err)
		}
	})

	t.Run("unknown label times out", func(t *testing.T) {
		page := newHomepage()
		err := ClickTopBarLink(context.Background(), page, "Нет такой ссылки")
		if !browser.IsTimeout(err) {
			t.Errorf("expected a timeout, got %v", err)
		}
	})

	t.Run("ambiguous label fails", func(t *testing.T) {
		page := newHomepage().Set(TopBarLink.With("Помощь"), "Помощь", "Помощь")
		err := ClickTopBarLink(context.Background(), page, "Помощь")
		if !errors.Is(err, browser.ErrAmbiguous) {
			t.Errorf("expected an ambiguous match error, got %v", err)
		}
	})
}

func TestHoverHelp(t *testing.T) {
	// GIVEN the popup appears only after hovering
	page := newHomepage()
	page.On("hover", HelpEntry, func(f *browsertest.Fake) {
		f.Set(HelpPopup, "popup")
		f.Set(HelpPopup.Locate("a"), "Статус заказа", "Возврат товара")
	})

	// WHEN
	if err := HoverHelp(context.Background(), page); err != nil {
		t.Fatalf("HoverHelp() error = %v", err)
	}

	// THEN
	links, err := HelpPopupLinks(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 links, got %q", links)
	}
}

func TestHoverHelp_PopupNeverAppears(t *testing.T) {
	err := HoverHelp(context.Background(), newHomepage())
	if !browser.IsTimeout(err) {
		t.Errorf("expected a timeout, got %v", err)
	}
}

func TestSubmitPromoCode(t *testing.T) {
	page := newHomepage().Set(PromoInput, "").Set(PromoButton, "Применить")

	if err := SubmitPromoCode(context.Background(), page, ""); err != nil {
		t.Fatal(err)
	}
	if err := SubmitPromoCode(context.Background(), page, "44"); err != nil {
		t.Fatal(err)
	}

	calls := page.Calls()
	want := []string{
		"click " + PromoButton.String(),
		"fill " + PromoInput.String() + " 44",
		"click " + PromoButton.String(),
	}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("got calls %q, want %q", calls, want)
	}

	inputs, _ := PromoInputCount(context.Background(), page)
	buttons, _ := PromoButtonCount(context.Background(), page)
	if inputs != 1 || buttons != 1 {
		t.Errorf("expected one input and one button, got %d and %d", inputs, buttons)
	}
}

func TestPromoBorderColor(t *testing.T) {
	page := browsertest.New().SetEvaluation(promoBorderColorScript, "rgb(249, 17, 85)")

	color, err := PromoBorderColor(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	if color != "rgb(249, 17, 85)" {
		t.Errorf("got %q", color)
	}

	page.SetEvaluation(promoBorderColorScript, 42)
	if _, err := PromoBorderColor(context.Background(), page); err == nil {
		t.Error("expected an error for a non-string result")
	}
}

func TestOperationsRespectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Open(ctx, newHomepage()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
