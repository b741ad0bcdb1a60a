package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "category"
	}
	return s
}

// Capitalize upper-cases the first letter only: "shirt" -> "Shirt".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// NormalizeEmail is applied before every lookup or insert by email.
func NormalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
