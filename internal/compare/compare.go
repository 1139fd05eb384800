package compare

import "strings"

// MissingElements returns the elements of expected that do not occur anywhere in
// actual, in the order they appear in expected. Matching is exact: no trimming and
// no case folding. Duplicates in expected are checked independently, so a missing
// value listed twice is reported twice.
//
// A nil result means nothing is missing.
func MissingElements(actual, expected []string) []string {
	present := make(map[string]struct{}, len(actual))
	for _, a := range actual {
		present[a] = struct{}{}
	}

	var missing []string
	for _, e := range expected {
		if _, ok := present[e]; !ok {
			missing = append(missing, e)
		}
	}
	return missing
}

// Describe renders missing elements for a failure message.
func Describe(missing []string) string {
	return strings.Join(missing, ", ")
}
