// Package persona is the registry of conversation personas. A persona fixes
// the system script, the model parameters, the recognized control tags and
// the per-channel sanitization policy for one widget mode.
package persona

import (
	"regexp"

	"github.com/annalabs/widget-proxy/internal/model"
	"github.com/annalabs/widget-proxy/internal/sanitize"
)

// GreetingPolicy short-circuits a one-message greeting turn with a canned
// reply, skipping the completion call entirely.
type GreetingPolicy struct {
	Pattern  *regexp.Regexp
	MaxRunes int
	Reply    string
}

// Matches reports whether the history qualifies for the canned greeting:
// exactly one user message, short, matching the greeting pattern.
func (g *GreetingPolicy) Matches(history []model.ChatMessage) bool {
	if g == nil || len(history) != 1 {
		return false
	}
	msg := history[0]
	if msg.Role != "" && msg.Role != model.RoleUser {
		return false
	}
	if len([]rune(msg.Content)) > g.MaxRunes {
		return false
	}
	return g.Pattern.MatchString(msg.Content)
}

// Persona is an immutable configuration record for one conversation mode.
type Persona struct {
	ID           string
	Script       string
	Model        string
	SummaryModel string
	Temperature  float64
	MaxTokens    int

	// DisplayPolicy selects which control tags are hidden from the
	// user-visible reply. UI tags left in place are consumed by the front
	// end; triggers are computed separately from the raw text either way.
	DisplayPolicy sanitize.Policy

	// Voice enables the speech payload on turn responses.
	Voice bool

	// Greeting, when set, short-circuits single-message greeting turns.
	Greeting *GreetingPolicy
}

const (
	// ModeText is the default text-widget persona.
	ModeText = "text"
	// ModeVoice is the speech-widget persona.
	ModeVoice = "voice"
	// ModePizza is the pizza-ordering demo persona.
	ModePizza = "pizza"
)

var greetingPattern = regexp.MustCompile(`(?i)^\s*(привет|здравствуй(те)?|добрый\s+(день|вечер)|доброе\s+утро|хай|hi|hello)[!.,)\s]*$`)

var registry = map[string]Persona{
	ModeText: {
		ID:           ModeText,
		Script:       scriptText,
		Model:        "gpt-4o",
		SummaryModel: "gpt-4.1-nano",
		Temperature:  0.7,
		MaxTokens:    200,
		DisplayPolicy: sanitize.Policy{
			Hidden: []sanitize.Tag{sanitize.TagOpenLeadForm, sanitize.TagShowPizzaPopup},
		},
		Greeting: &GreetingPolicy{
			Pattern:  greetingPattern,
			MaxRunes: 25,
			Reply:    "Привет! Я Анна 🙂 Подскажу, чем чат-бот может помочь вашему сайту. Что вам интересно?",
		},
	},
	ModeVoice: {
		ID:            ModeVoice,
		Script:        scriptVoice,
		Model:         "gpt-4o",
		SummaryModel:  "gpt-4.1-nano",
		Temperature:   0.7,
		MaxTokens:     200,
		DisplayPolicy: sanitize.Policy{StripAll: true},
		Voice:         true,
		Greeting: &GreetingPolicy{
			Pattern:  greetingPattern,
			MaxRunes: 25,
			Reply:    `<speak><emphasis>Добрый день!</emphasis> Чем могу помочь?</speak>`,
		},
	},
	ModePizza: {
		ID:           ModePizza,
		Script:       scriptPizza,
		Model:        "gpt-4o",
		SummaryModel: "gpt-4.1-nano",
		Temperature:  0.7,
		MaxTokens:    200,
		// The pizza front end drives its windows off the catalog tags, so
		// only the internal markers are hidden from the reply text.
		DisplayPolicy: sanitize.Policy{
			Hidden: []sanitize.Tag{sanitize.TagOpenLeadForm, sanitize.TagShowPizzaPopup},
		},
		Voice: true,
	},
}

// Lookup returns the persona for a mode. The lookup is total: an empty or
// unrecognized mode yields the default text persona.
func Lookup(mode string) Persona {
	if p, ok := registry[mode]; ok {
		return p
	}
	return registry[ModeText]
}

// Default returns the default persona.
func Default() Persona {
	return registry[ModeText]
}
