package conversation

import "strings"

// greetingVocabulary is the fixed greeting set, English plus Czech. The
// classifier is deliberately a small rule table, not a general parser.
var greetingVocabulary = []string{
	"hi", "hello", "hey",
	"ahoj", "čau", "cau", "dobry den", "dobrý den",
}

// IsGreeting reports whether the message reads as an opening greeting:
// either an exact (case-insensitive) vocabulary match, or a short message
// of at most three tokens containing any vocabulary word.
func IsGreeting(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, g := range greetingVocabulary {
		if lower == g {
			return true
		}
	}
	if len(strings.Fields(lower)) <= 3 {
		for _, g := range greetingVocabulary {
			if strings.Contains(lower, g) {
				return true
			}
		}
	}
	return false
}

// WantsMore reports whether the user asked to see additional times.
func WantsMore(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return lower == "more" || strings.Contains(lower, " more") || strings.Contains(lower, "více")
}
