package report

import "strings"

const notAvailable = "לא זמין"

// fallback returns s, or the bilingual "not available" placeholder when
// s is empty.
func fallback(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func isHebrewRune(r rune) bool {
	return r >= 0x0590 && r <= 0x05FF
}

func hasHebrew(s string) bool {
	for _, r := range s {
		if isHebrewRune(r) {
			return true
		}
	}
	return false
}

// reverseHebrew reverses the glyph order of every Hebrew word in the
// text. The PDF layer lays glyphs out left to right, so right-to-left
// words have to be stored reversed to display correctly. Words without
// Hebrew characters are left alone.
func reverseHebrew(text string) string {
	if text == "" {
		return text
	}
	words := strings.Fields(text)
	for i, w := range words {
		if hasHebrew(w) {
			words[i] = reverseRunes(w)
		}
	}
	return strings.Join(words, " ")
}

func reverseRunes(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
