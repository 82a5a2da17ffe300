// Package emotion labels sanitized speech text with a coarse emotion tag.
//
// This is an ordered keyword/punctuation heuristic, not a classifier. It is
// deliberately approximate and must stay deterministic and side-effect-free.
package emotion

import "regexp"

// Label is one of the fixed emotion tags attached to voice payloads.
type Label string

const (
	Cheerful   Label = "cheerful"
	Empathetic Label = "empathetic"
	Curious    Label = "curious"
	Serious    Label = "serious"
	Neutral    Label = "neutral"
)

// rule pairs a pattern with the label it assigns. Rules are evaluated in
// order; the first match wins.
type rule struct {
	pattern *regexp.Regexp
	label   Label
}

var rules = []rule{
	{regexp.MustCompile(`(?i)(извин|сожале|мне жаль|сочувств|понимаю вас|понимаю тебя|sorry)`), Empathetic},
	{regexp.MustCompile(`(?i)(важно|внимание|предупрежда|ошибк|проблем|не получилось|не удалось)`), Serious},
	{regexp.MustCompile(`(?i)(ура|круто|отлично|супер|кайф|класс|поздравля|спасибо за заказ|лечу|awesome|great)`), Cheerful},
	{regexp.MustCompile(`[🎉🚀🍕🍩😀😄😊😏😉]|!{2,}`), Cheerful},
	{regexp.MustCompile(`\?`), Curious},
	{regexp.MustCompile(`!`), Cheerful},
}

// Classify returns the emotion label for sanitized speech text. Input that
// matches no rule is Neutral.
func Classify(text string) Label {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.label
		}
	}
	return Neutral
}
