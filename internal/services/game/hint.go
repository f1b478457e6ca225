package game

import (
	"strings"
	"unicode"
)

// MaskName reveals the first n letters of name and replaces the remaining
// letters with underscores. Spaces and punctuation are shown as-is and are
// not counted. At least one letter always stays hidden. It returns the
// masked name, the number of letters shown and the total letter count.
func MaskName(name string, n int) (string, int, int) {
	total := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			total++
		}
	}

	reveal := min(n, total-1)
	if reveal < 0 {
		reveal = 0
	}

	var b strings.Builder
	seen := 0
	for _, r := range name {
		if !unicode.IsLetter(r) {
			b.WriteRune(r)
			continue
		}
		if seen < reveal {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		seen++
	}
	return b.String(), reveal, total
}
