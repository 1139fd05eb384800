package locator

import (
	"reflect"
	"testing"
)

func TestTemplate_With(t *testing.T) {
	tests := []struct {
		name     string
		template Template
		labels   []string
		want     Selector
	}{
		{
			name:     "single label",
			template: `//a[span[text()="{1}"]]`,
			labels:   []string{"Обувь"},
			want:     `//a[span[text()="Обувь"]]`,
		},
		{
			name:     "two labels",
			template: `//div[span[text()="{1}"]]//span[text()="{2}"]`,
			labels:   []string{"Линейка", "Apple iPhone 13"},
			want:     `//div[span[text()="Линейка"]]//span[text()="Apple iPhone 13"]`,
		},
		{
			name:     "label repeated in template",
			template: `{1}|{1}`,
			labels:   []string{"x"},
			want:     `x|x`,
		},
		{
			name:     "label is not escaped",
			template: `//a[text()="{1}"]`,
			labels:   []string{`say "hi"`},
			want:     `//a[text()="say "hi""]`,
		},
		{
			name:     "label containing a placeholder is not substituted again",
			template: `{1}-{2}`,
			labels:   []string{"{2}", "b"},
			want:     `{2}-b`,
		},
		{
			name:     "no labels leaves the template untouched",
			template: `//a[text()="{1}"]`,
			want:     `//a[text()="{1}"]`,
		},
		{
			name:     "missing label leaves its placeholder",
			template: `{1} {2}`,
			labels:   []string{"a"},
			want:     `a {2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.template.With(tt.labels...); got != tt.want {
				t.Errorf("With() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelector_Chaining(t *testing.T) {
	popup := Selector(`//div[@data-widget="alertPopup"]`)

	got := popup.Locate("button").Nth(1)

	want := Selector(`//div[@data-widget="alertPopup"] >> button >> nth=1`)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !got.IsNth() {
		t.Error("expected IsNth to be true")
	}
	if popup.IsNth() {
		t.Error("expected IsNth to be false for an unpinned selector")
	}
	if !reflect.DeepEqual(got.Parts(), []string{`//div[@data-widget="alertPopup"]`, "button", "nth=1"}) {
		t.Errorf("unexpected parts %q", got.Parts())
	}
}

func TestSelector_LocateOnEmpty(t *testing.T) {
	if got := Selector("").Locate("a"); got != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
	if Selector("").Parts() != nil {
		t.Error("empty selector should have no parts")
	}
}

func TestSelector_Append(t *testing.T) {
	got := Selector(`//div[@data-widget="catalogMenu"]`).Append(`//a[span[text()="Обувь"]]`)
	want := Selector(`//div[@data-widget="catalogMenu"]//a[span[text()="Обувь"]]`)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHelpers(t *testing.T) {
	if got := Text("Удалить выбранные"); got != "text=Удалить выбранные" {
		t.Errorf("Text() = %q", got)
	}
	if got := DataWidget("promoNavigation"); got != `[data-widget="promoNavigation"]` {
		t.Errorf("DataWidget() = %q", got)
	}
	if got := Placeholder(2); got != "{2}" {
		t.Errorf("Placeholder() = %q", got)
	}
}
