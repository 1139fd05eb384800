// Package locator holds the selector types shared by the page objects.
//
// A Selector is a Playwright selector expression. Parts are chained with ">>",
// each part being CSS, XPath (starting with "/" or "..") or a "text=" engine
// expression, so a chained selector stays a plain string that is resolved lazily
// by the browser on every use.
package locator

import (
	"fmt"
	"strconv"
	"strings"
)

const chainSeparator = " >> "

// Selector identifies zero or more elements in the rendered page.
type Selector string

// Locate narrows s to descendants matching child.
func (s Selector) Locate(child Selector) Selector {
	if s == "" {
		return child
	}
	return s + chainSeparator + child
}

// Nth selects the i-th (zero-based) match of s.
func (s Selector) Nth(i int) Selector {
	return s.Locate(Selector("nth=" + strconv.Itoa(i)))
}

// Append concatenates a raw XPath step onto s. It is only meaningful when s is an
// XPath expression.
func (s Selector) Append(step string) Selector {
	return s + Selector(step)
}

// IsNth reports whether the last part of s pins a single match by index.
func (s Selector) IsNth() bool {
	parts := s.Parts()
	return len(parts) > 0 && strings.HasPrefix(parts[len(parts)-1], "nth=")
}

// Parts splits a chained selector into its parts.
func (s Selector) Parts() []string {
	if s == "" {
		return nil
	}
	return strings.Split(string(s), chainSeparator)
}

func (s Selector) String() string {
	return string(s)
}

// Text matches elements by their text content.
func Text(text string) Selector {
	return Selector("text=" + text)
}

// DataWidget matches the storefront widget container with the given name.
func DataWidget(name string) Selector {
	return Selector(fmt.Sprintf(`[data-widget="%s"]`, name))
}

// Template is a selector with positional placeholders {1}, {2}, ... that are
// replaced verbatim with caller supplied labels. Labels are not escaped: they come
// from fixed scenario constants.
type Template string

// With substitutes labels into the template. Placeholders without a matching label
// are left as is.
func (t Template) With(labels ...string) Selector {
	if len(labels) == 0 {
		return Selector(t)
	}
	pairs := make([]string, 0, len(labels)*2)
	for i, label := range labels {
		pairs = append(pairs, Placeholder(i+1), label)
	}
	return Selector(strings.NewReplacer(pairs...).Replace(string(t)))
}

// Placeholder returns the i-th (one-based) placeholder token.
func Placeholder(i int) string {
	return "{" + strconv.Itoa(i) + "}"
}
