package specification

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/granito-source/concordion/internal/classpath"
)

// Title derives a display title from the fixture name:
// "PartialMatchesFixture" becomes "Partial Matches".
func Title(fixture *classpath.Type) string {
	return titleCase(splitWords(BaseName(fixture)))
}

func titleCase(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// splitWords inserts a space at every lower-to-upper transition and before
// the last capital of an acronym run ("HTTPServer" -> "HTTP Server").
func splitWords(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
