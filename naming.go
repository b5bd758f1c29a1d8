package oasclient

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NameTransform rewrites an operationId before it becomes a registry key.
// Transformed names are how callers address operations via Op; the
// path-and-method surface is unaffected.
type NameTransform func(operationID string) string

// DefaultNameTransform keeps operationIds exactly as declared.
func DefaultNameTransform(operationID string) string {
	return operationID
}

// PascalCaseNameTransform rewrites identifiers like "get-pet_by id" or
// "getPetById" into "GetPetById".
func PascalCaseNameTransform(operationID string) string {
	words := splitIdentifier(operationID)
	if len(words) == 0 {
		return operationID
	}
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, word := range words {
		b.WriteString(caser.String(word))
	}
	return b.String()
}

// CamelCaseNameTransform rewrites identifiers into lower camel case, e.g.
// "get-pet-by-id" into "getPetById".
func CamelCaseNameTransform(operationID string) string {
	pascal := PascalCaseNameTransform(operationID)
	if pascal == "" {
		return pascal
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// splitIdentifier breaks an identifier on separator characters and lower to
// upper camel boundaries.
func splitIdentifier(s string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
