package speech

import (
	"regexp"
	"strings"
)

// VoiceRule is a single voice selection rule: a predicate over a voice
// plus a description for logging. Rules are evaluated in order and the
// first rule with any match wins.
type VoiceRule struct {
	Description string
	Match       func(Voice) bool
}

// patternRule builds a rule that matches the given regular expression
// against the voice name and language tag combined.
func patternRule(description, pattern string) VoiceRule {
	re := regexp.MustCompile(pattern)
	return VoiceRule{
		Description: description,
		Match: func(v Voice) bool {
			return re.MatchString(v.Name + " " + v.Language)
		},
	}
}

// DefaultVoiceRules returns the ordered voice preference list.
// Earlier rules are preferred; every rule additionally requires a
// locally-installed voice (see SelectVoice).
func DefaultVoiceRules() []VoiceRule {
	return []VoiceRule{
		patternRule("US English female", `(?i)(samantha|zira|jenny).*en[-_]US`),
		patternRule("US English", `(?i)en[-_]US`),
		patternRule("UK English", `(?i)en[-_]GB`),
		patternRule("any English name", `(?i)english`),
	}
}

// SelectVoice picks a voice from the available list using the ordered rules.
// Each rule only considers locally-installed voices. When no rule matches,
// it falls back to the first voice whose language starts with "en", then to
// the first voice, then to nil.
func SelectVoice(voices []Voice, rules []VoiceRule) *Voice {
	if len(voices) == 0 {
		return nil
	}

	for _, rule := range rules {
		for i := range voices {
			if !voices[i].LocalService {
				continue
			}
			if rule.Match(voices[i]) {
				v := voices[i]
				return &v
			}
		}
	}

	for i := range voices {
		if strings.HasPrefix(strings.ToLower(voices[i].Language), "en") {
			v := voices[i]
			return &v
		}
	}

	v := voices[0]
	return &v
}
