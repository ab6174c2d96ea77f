package speech

import (
	"sort"
	"strings"
	"sync"
)

// defaultPhrases maps the canonical sign vocabulary to spoken phrases.
// Signs with no mapping are spoken as-is.
var defaultPhrases = map[string]string{
	"HELLO":     "Hello",
	"THANKS":    "Thank you",
	"YES":       "Yes",
	"NO":        "No",
	"PLEASE":    "Please",
	"GOOD":      "Good",
	"BEAUTIFUL": "Beautiful",
	"BETTER":    "Better",
	"HAPPY":     "Happy",
	"GREAT":     "Great",
	"NAME":      "Name",
	"MY":        "My",
	"LOOK":      "Look",
	"TALK":      "Talk",
	"SAY":       "Say",
	"ASK":       "Ask",
	"EAT":       "Eat",
	"DRINK":     "Drink",
}

// Formatter maps canonical sign tokens to human-readable phrases
// before they reach the speech engine.
type Formatter struct {
	phrases map[string]string
	mu      sync.RWMutex
}

// NewFormatter creates a Formatter preloaded with the default sign vocabulary.
func NewFormatter() *Formatter {
	phrases := make(map[string]string, len(defaultPhrases))
	for sign, phrase := range defaultPhrases {
		phrases[sign] = phrase
	}
	return &Formatter{phrases: phrases}
}

// Format returns the spoken phrase for a sign token.
// Lookup is exact-match on the uppercased token; unknown tokens pass through unchanged.
func (f *Formatter) Format(text string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if phrase, ok := f.phrases[strings.ToUpper(strings.TrimSpace(text))]; ok {
		return phrase
	}
	return text
}

// Override sets or replaces the phrase for a sign token.
// Empty phrases are ignored.
func (f *Formatter) Override(sign, phrase string) {
	sign = strings.ToUpper(strings.TrimSpace(sign))
	if sign == "" || phrase == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.phrases[sign] = phrase
}

// Reset restores the default phrase for a sign token. Signs outside the
// default vocabulary are removed entirely.
func (f *Formatter) Reset(sign string) {
	sign = strings.ToUpper(strings.TrimSpace(sign))
	if sign == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if phrase, ok := defaultPhrases[sign]; ok {
		f.phrases[sign] = phrase
	} else {
		delete(f.phrases, sign)
	}
}

// Signs returns the known sign tokens in sorted order.
func (f *Formatter) Signs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	signs := make([]string, 0, len(f.phrases))
	for sign := range f.phrases {
		signs = append(signs, sign)
	}
	sort.Strings(signs)
	return signs
}
