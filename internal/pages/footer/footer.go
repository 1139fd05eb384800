// Package footer reads the site footer.
package footer

import (
	"context"
	"strings"

	"github.com/ozonqa/storefront-e2e/internal/browser"
	"github.com/ozonqa/storefront-e2e/internal/locator"
)

const (
	VersionForVisuallyImpaired locator.Selector = `//footer//button[contains(., "Версия для слабовидящих")]`
	InfoLinksSection           locator.Selector = `//footer//div[@data-widget="footerInfoLinks"]`
	EcosystemSection           locator.Selector = `//footer//div[@data-widget="footerEcosystem"]`
)

func AccessibilityButtonCount(ctx context.Context, h browser.Handle) (int, error) {
	return h.Count(ctx, VersionForVisuallyImpaired)
}

// InfoSectionCount returns the number of columns in the info links section.
func InfoSectionCount(ctx context.Context, h browser.Handle) (int, error) {
	return h.Count(ctx, InfoLinksSection.Locate("xpath=/div"))
}

// InfoSectionTitles returns the column titles of the info links section in
// document order.
func InfoSectionTitles(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, InfoLinksSection.Locate("xpath=/div/span"))
}

func EcosystemLinks(ctx context.Context, h browser.Handle) ([]string, error) {
	return h.TextContents(ctx, EcosystemSection.Locate("a"))
}

// EcosystemText returns the full rendered text of the ecosystem section.
func EcosystemText(ctx context.Context, h browser.Handle) (string, error) {
	texts, err := h.TextContents(ctx, EcosystemSection)
	if err != nil {
		return "", err
	}
	return strings.Join(texts, "\n"), nil
}
