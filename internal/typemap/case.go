package typemap

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English, cases.NoLower)

// SnakeCase converts a PascalCase identifier to snake_case, the field-name
// convention of the server target.
func SnakeCase(name string) string {
	return strings.Join(splitWords(name), "_")
}

// KebabCase converts a PascalCase identifier to kebab-case, the route
// literal convention.
func KebabCase(name string) string {
	return strings.Join(splitWords(name), "-")
}

// CamelCase converts an identifier to camelCase, the field-name convention
// of the client target.
func CamelCase(name string) string {
	words := splitWords(name)
	for i := 1; i < len(words); i++ {
		words[i] = titler.String(words[i])
	}
	return strings.Join(words, "")
}

// PascalCase converts a snake_case or kebab-case identifier to PascalCase.
func PascalCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		parts[i] = titler.String(p)
	}
	return strings.Join(parts, "")
}

// splitWords splits an identifier on underscores, hyphens, and lower-to-
// upper case boundaries, lowercasing each word.
func splitWords(name string) []string {
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch == '_' || ch == '-':
			flush()
		case ch >= 'A' && ch <= 'Z':
			flush()
			current.WriteByte(ch)
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return words
}
