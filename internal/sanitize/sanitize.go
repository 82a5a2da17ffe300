// Package sanitize extracts control tags from model output and cleans the
// text for the display and speech channels.
package sanitize

import (
	"regexp"
	"strings"
)

// Tag is a bracketed control marker the model embeds in its output. Tags are
// boolean UI signals, never shown or spoken as prose.
type Tag string

const (
	TagOpenLeadForm   Tag = "[openLeadForm]"
	TagShowPizzaPopup Tag = "[showPizzaPopup]"
	TagShowCatalog    Tag = "[showCatalog]"
	TagShowCombo      Tag = "[showCombo]"
	TagConfirmPay     Tag = "[confirmPay]"
	TagShowLoading    Tag = "[showLoading]"
	TagShowThanks     Tag = "[showThanks]"
	TagReset          Tag = "[reset]"
)

// Vocabulary lists every recognized control tag.
var Vocabulary = []Tag{
	TagOpenLeadForm,
	TagShowPizzaPopup,
	TagShowCatalog,
	TagShowCombo,
	TagConfirmPay,
	TagShowLoading,
	TagShowThanks,
	TagReset,
}

// SpeechMaxRunes is the hard cap on speech text length. The cutoff is not
// sentence-aware.
const SpeechMaxRunes = 500

var (
	tagPatterns = buildTagPatterns()
	allTagsRe   = buildAllTagsPattern()
	markupRe    = regexp.MustCompile(`<[^<>]*>`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

func buildTagPatterns() map[Tag]*regexp.Regexp {
	m := make(map[Tag]*regexp.Regexp, len(Vocabulary))
	for _, t := range Vocabulary {
		m[t] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(string(t)))
	}
	return m
}

func buildAllTagsPattern() *regexp.Regexp {
	parts := make([]string, len(Vocabulary))
	for i, t := range Vocabulary {
		parts[i] = regexp.QuoteMeta(string(t))
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(parts, "|") + `)`)
}

// Has reports whether the tag occurs anywhere in the raw model output.
// Matching is case-insensitive; repeated occurrences are not distinguished
// from a single one.
func Has(raw string, tag Tag) bool {
	re, ok := tagPatterns[tag]
	if !ok {
		return false
	}
	return re.MatchString(raw)
}

// Policy controls which tags are removed from display text. The divergence
// between personas (some hide only internal markers, others hide everything)
// is intentional per product surface.
type Policy struct {
	// Hidden tags are always removed from display text.
	Hidden []Tag
	// StripAll removes every recognized tag regardless of Hidden.
	StripAll bool
}

// Display cleans raw model output for the display channel according to the
// persona's policy. UI-control tags a front end consumes stay in place unless
// the policy strips them.
func Display(raw string, p Policy) string {
	s := raw
	if p.StripAll {
		s = allTagsRe.ReplaceAllString(s, "")
	} else {
		for _, t := range p.Hidden {
			if re, ok := tagPatterns[t]; ok {
				s = re.ReplaceAllString(s, "")
			}
		}
	}
	return strings.TrimSpace(s)
}

// Speech cleans raw model output for speech synthesis: every recognized tag
// and every inline markup element is removed, whitespace is collapsed, and
// the result is hard-truncated to SpeechMaxRunes.
func Speech(raw string) string {
	s := allTagsRe.ReplaceAllString(raw, " ")
	s = markupRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if runes := []rune(s); len(runes) > SpeechMaxRunes {
		s = string(runes[:SpeechMaxRunes])
	}
	return s
}
