package notes

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language is a display label such as "Hindi".
type Language string

const (
	English   Language = "English"
	French    Language = "French"
	Hindi     Language = "Hindi"
	Tamil     Language = "Tamil"
	Malayalam Language = "Malayalam"
	Telugu    Language = "Telugu"
)

// Languages lists every label the UI offers, in display order.
var Languages = []Language{English, French, Hindi, Tamil, Malayalam, Telugu}

var titleCaser = cases.Title(language.English)

// ParseLanguage normalises a form value such as " hindi " to a known label.
// The second result is false when the label is not one of Languages; the
// returned value is then the cleaned input, so it can still be passed to the
// translator as a free-form target.
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	l := Language(titleCaser.String(s))
	for _, known := range Languages {
		if l == known {
			return l, true
		}
	}
	return Language(s), false
}

type scriptRange struct {
	lo, hi rune
	lang   Language
}

// Checked in this order for every rune; the first rune that falls in any
// range decides the result.
var scriptRanges = []scriptRange{
	{0x0900, 0x097F, Hindi},     // Devanagari
	{0x0B80, 0x0BFF, Tamil},     // Tamil
	{0x0D00, 0x0D7F, Malayalam}, // Malayalam
	{0x0C00, 0x0C7F, Telugu},    // Telugu
}

// DetectLanguage guesses the document language from its script. Latin-script
// text, including French, always comes back as English.
func DetectLanguage(text string) Language {
	for _, r := range text {
		for _, sr := range scriptRanges {
			if r >= sr.lo && r <= sr.hi {
				return sr.lang
			}
		}
	}
	return English
}
