package ocr

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameLen   = 40
	minNameRunes = 3
)

// CleanZoneName distills raw OCR output into a zone name. Flyer panels lead
// with a headline, so the first line that still has enough letters after
// cleanup wins. Returns false when no line qualifies.
func CleanZoneName(raw string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		name := cleanLine(line)
		if countAlnum(name) >= minNameRunes {
			return truncateAtWord(name, maxNameLen), true
		}
	}
	return "", false
}

// cleanLine keeps letters, digits and the punctuation that shows up in
// product headlines, then collapses runs of whitespace.
func cleanLine(line string) string {
	var b strings.Builder
	for _, r := range line {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte(' ')
		case r == '&' || r == '\'' || r == '-' || r == '.' || r == '%' || r == '$':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func countAlnum(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// truncateAtWord cuts s to at most max runes, preferring the last word
// boundary before the limit.
func truncateAtWord(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := max
	for i := max; i > 0; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " ")
}
