// Package textnorm builds the comparison keys used for name uniqueness and
// search, and URL slugs for catalog entities.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// LikeEscape is the escape character used by LikePattern.
const LikeEscape = "!"

// Clean trims s and collapses runs of whitespace to one space. Display
// names are stored in this form.
func Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key returns the normalized form of a display name. Two names are considered
// the same when their keys are equal: surrounding and repeated whitespace is
// ignored, case is folded and accents on Latin letters are dropped. Cyrillic
// letters keep their diacritics, so "й" and "и" stay distinct.
func Key(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}
	s = folder.String(s)

	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	var prev rune
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) && unicode.Is(unicode.Latin, prev) {
			continue
		}
		b.WriteRune(r)
		if !unicode.Is(unicode.Mn, r) {
			prev = r
		}
	}
	return norm.NFC.String(b.String())
}

// Slug returns a lowercase ASCII slug; Cyrillic is transliterated.
func Slug(s string) string {
	return slug.Make(s)
}

// LikePattern turns a free-text query into a LIKE pattern over name keys.
// Wildcards typed by the user are escaped with LikeEscape, so the query must
// carry "ESCAPE '!'".
func LikePattern(q string) string {
	k := Key(q)
	r := strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, `%`, LikeEscape+`%`, `_`, LikeEscape+`_`)
	return "%" + r.Replace(k) + "%"
}
