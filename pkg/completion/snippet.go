// Package completion builds completion items over materialized types and
// formats snippet bodies for documentation display. Protocol serialization
// and cursor classification live with the language-server layer, not here.
package completion

import "regexp"

// Snippet placeholders take the form ${index} or ${index:name}.
var placeholderPattern = regexp.MustCompile(`\$\{\d+(?::([^}]*))?\}`)

// FormatSnippet renders a snippet body for documentation: named
// placeholders are replaced by their names, bare ones disappear.
func FormatSnippet(body string) string {
	return placeholderPattern.ReplaceAllString(body, "$1")
}
