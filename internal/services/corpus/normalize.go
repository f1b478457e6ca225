package corpus

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that carry no combining mark in NFD and so survive accent stripping
var foldReplacer = strings.NewReplacer(
	"ø", "o", "Ø", "o",
	"æ", "ae", "Æ", "ae",
	"ß", "ss",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"ı", "i",
)

// Normalize folds a name into the form used for matching: accents stripped,
// lowercase, hyphens and dots treated as spaces, apostrophes and other
// punctuation dropped, whitespace collapsed.
func Normalize(name string) string {
	// transform.Chain keeps internal state, so build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	stripped = strings.ToLower(foldReplacer.Replace(stripped))
	stripped = strings.Map(func(r rune) rune {
		switch {
		case r == '-' || r == '.' || r == '_':
			return ' '
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, stripped)

	return strings.Join(strings.Fields(stripped), " ")
}

// MatchNames returns the accepted normalised forms for a player: the full
// name, the name without its first token, the final token, and any aliases.
func MatchNames(canonicalName string, aliases []string) []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(n string) {
		if n == "" {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}

	full := Normalize(canonicalName)
	add(full)

	parts := strings.Fields(full)
	if len(parts) > 1 {
		add(strings.Join(parts[1:], " "))
		add(parts[len(parts)-1])
	}

	for _, alias := range aliases {
		add(Normalize(alias))
	}
	return names
}
