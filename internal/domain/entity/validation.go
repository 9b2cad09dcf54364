package entity

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// maxURLLength defines the maximum allowed length for stored URLs.
const maxURLLength = 2048

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// Slugify turns a title into a URL slug: "Día del Niño 2025" becomes "dia-del-nino-2025".
func Slugify(title string) string {
	s := strings.ToLower(accentReplacer.Replace(title))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ValidateSlug checks a slug is lowercase ascii words joined by single dashes.
func ValidateSlug(slug string) error {
	if slug == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	if !slugPattern.MatchString(slug) {
		return &ValidationError{Field: "slug", Message: "slug must contain only lowercase letters, digits and dashes"}
	}
	return nil
}

var slugRule = validation.Match(slugPattern).Error("must contain only lowercase letters, digits and dashes")

// urlRule accepts an empty value or an absolute URL of bounded length.
var urlRule = []validation.Rule{is.URL, validation.Length(0, maxURLLength)}
