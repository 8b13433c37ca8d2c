// Package sanitizer normalizes free-text and set-valued input before
// validation, so equality checks (duplicate names, blackout-date membership)
// are not defeated by stray whitespace or repeated entries.
package sanitizer

import (
	"sort"
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName trims and collapses whitespace, then title-cases each word
// so stored names compare consistently ("  dana   LEVI " -> "Dana Levi").
func NormalizeName(name string) string {
	name = TrimAndNormalize(name)
	if name == "" {
		return ""
	}

	words := strings.Split(name, " ")
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// NormalizeDateSet trims entries, drops empties and duplicates, and returns
// the dates sorted ascending. YYYY-MM-DD strings sort chronologically.
func NormalizeDateSet(dates []string) []string {
	if dates == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(dates))
	result := make([]string, 0, len(dates))
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		result = append(result, d)
	}

	sort.Strings(result)
	return result
}
