package scenario

import (
	"sort"

	"github.com/ozonqa/storefront-e2e/internal/locator"
)

// Suite names
const (
	SuiteHomepage = "homepage"
	SuiteSearch   = "search"
	SuiteCart     = "cart"
)

// Body is the whole rendered page.
const Body locator.Selector = "body"

// Catalogue returns every known scenario, suite by suite.
func Catalogue() []Scenario {
	var all []Scenario
	all = append(all, homepageScenarios()...)
	all = append(all, searchScenarios()...)
	all = append(all, cartScenarios()...)
	return all
}

// Suites returns the distinct suite names of scenarios, sorted.
func Suites(scenarios []Scenario) []string {
	seen := map[string]bool{}
	var suites []string
	for _, s := range scenarios {
		if !seen[s.Suite] {
			seen[s.Suite] = true
			suites = append(suites, s.Suite)
		}
	}
	sort.Strings(suites)
	return suites
}
