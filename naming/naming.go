// Package naming splits identifiers into words and recombines them in the
// casing styles the generators need.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits s into words. Word boundaries are runs of characters that are
// not letters or digits, lower-to-upper transitions ("getWidget"), and the end
// of an upper-case run followed by a lower-case letter ("HTMLParser").
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Pascal converts s to PascalCase: "get_widget" and "getWidget" both become
// "GetWidget". Each word is title-cased, so "userID" becomes "UserId".
func Pascal(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Camel converts s to camelCase.
func Camel(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Snake converts s to snake_case.
func Snake(s string) string {
	lower := cases.Lower(language.Und)
	words := Words(s)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}

// Preserve keeps the words of s as written and joins them, capitalizing the
// first letter of each word after the first.
func Preserve(s string) string {
	var b strings.Builder
	for i, w := range Words(s) {
		if i > 0 {
			r := []rune(w)
			r[0] = unicode.ToUpper(r[0])
			w = string(r)
		}
		b.WriteString(w)
	}
	return b.String()
}

// Type is Preserve with the first letter upper-cased, the casing used for
// declared type names: "widget_owner" becomes "WidgetOwner" and "HTTPError"
// stays "HTTPError".
func Type(s string) string {
	p := []rune(Preserve(s))
	if len(p) == 0 {
		return ""
	}
	p[0] = unicode.ToUpper(p[0])
	return string(p)
}
