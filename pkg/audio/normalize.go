package audio

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const wakeWord = "Orlem"

var wakeWordPattern = regexp.MustCompile(`(?i)orlem`)

// Misheard spellings the speech backend produces for the assistant's name.
var wakeWordVariants = map[string]struct{}{
	"orlem":   {},
	"orlen":   {},
	"orlan":   {},
	"orlim":   {},
	"orlin":   {},
	"orlenn":  {},
	"orlennn": {},
	"orlemn":  {},
	"orlemr":  {},
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeWakeWord repairs transcripts so the assistant is addressed by
// name: misheard spellings are folded to "Orlem", and when the name is
// absent entirely it is prefixed so the utterance reaches the assistant.
func NormalizeWakeWord(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if strings.Contains(strings.ToLower(text), "orlem") {
		return wakeWordPattern.ReplaceAllString(text, wakeWord)
	}

	words := strings.Fields(text)
	mapped := make([]string, len(words))
	for i, word := range words {
		if looksLikeWakeWord(word) {
			mapped[i] = wakeWord
			continue
		}
		mapped[i] = word
	}

	fixed := strings.Join(mapped, " ")
	if !strings.Contains(strings.ToLower(fixed), "orlem") {
		fixed = wakeWord + ", " + fixed
	}

	return fixed
}

// looksLikeWakeWord matches a token against the known misheard spellings,
// plus a short-"or" heuristic for ones the list misses.
func looksLikeWakeWord(word string) bool {
	clean := foldToken(word)
	if clean == "" {
		return false
	}

	if _, ok := wakeWordVariants[clean]; ok {
		return true
	}

	return strings.HasPrefix(clean, "or") && len(clean) >= 3 && len(clean) <= 6
}

// foldToken lowercases a token, strips accents and drops non-letters.
func foldToken(word string) string {
	lowered := strings.ToLower(word)

	stripped, _, err := transform.String(accentStripper, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	for _, r := range stripped {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
