// Package model defines data structures for the widget proxy.
package model

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one entry of the caller-supplied conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is the request body of POST /gpt.
type TurnRequest struct {
	Messages []ChatMessage `json:"messages"`
	UserID   string        `json:"userId"`
	Mode     string        `json:"mode"`
}

// AssistantMessage is the assistant reply inside a turn response choice.
type AssistantMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Choice mirrors the completion API response shape the widget already parses.
type Choice struct {
	Message AssistantMessage `json:"message"`
}

// VoicePayload carries speech-ready text with an emotion label.
type VoicePayload struct {
	Text    string `json:"text"`
	Emotion string `json:"emotion"`
}

// TurnResponse is the response body of POST /gpt.
type TurnResponse struct {
	Choices           []Choice      `json:"choices"`
	TriggerForm       bool          `json:"triggerForm"`
	TriggerPizzaPopup bool          `json:"triggerPizzaPopup"`
	Voice             *VoicePayload `json:"voice,omitempty"`
}

// LogEntry is the write-only record delivered to the dialog log sink.
type LogEntry struct {
	UserID string `json:"userId"`
	Dialog string `json:"dialog"`
}
