package catalog

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// CamelCase converts a human label into the camelCase key form used when
// matching template variables against labels: non-alphanumerics become word
// boundaries, each word is capitalised, and the first character is lowered.
// "Your Email" becomes "yourEmail", "ZIP / Postal Code" becomes
// "zipPostalCode".
func CamelCase(label string) string {
	words := splitWordsPattern.Split(label, -1)
	var out strings.Builder
	for _, word := range words {
		if word == "" {
			continue
		}
		out.WriteString(titleCase(word))
	}
	result := out.String()
	if result == "" {
		return ""
	}
	return strings.ToLower(result[:1]) + result[1:]
}

func titleCase(word string) string {
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// EqualFold reports whether two trimmed identifiers match ignoring case.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
