package chat

import (
	"strings"
	"unicode"
)

// leadInPhrases are conversational prefixes users type before the title
// they actually mean. Matching is case-insensitive and prefix-only.
var leadInPhrases = []string{
	"tell me about",
	"info on",
	"information about",
	"let's talk about",
	"give me details on",
	"what can you say about",
	"do you know about",
}

// NormalizeTitle strips a conversational lead-in phrase and surrounding
// whitespace from a raw query. Empty input yields empty output.
func NormalizeTitle(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	for _, phrase := range leadInPhrases {
		if strings.HasPrefix(lower, phrase) {
			trimmed = strings.TrimSpace(trimmed[len(phrase):])
			break
		}
	}

	return trimmed
}

// NormalizeForResolution additionally strips punctuation so fuzzy matching
// compares titles on letters, digits and spaces only. Used for resolution,
// not for search suggestions, where the partial text is passed through.
func NormalizeForResolution(raw string) string {
	title := NormalizeTitle(raw)

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}
