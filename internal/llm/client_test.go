package llm

import (
	"fmt"
	"testing"
)

func history(n int) []ChatMessage {
	msgs := make([]ChatMessage, n)
	for i := range msgs {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msgs[i] = ChatMessage{Role: role, Content: fmt.Sprintf("msg-%d", i)}
	}
	return msgs
}

func TestBuildMessagesShortHistory(t *testing.T) {
	hist := history(4)
	got := BuildMessages("script", hist)

	if len(got) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(got))
	}
	if got[0].Role != "system" || got[0].Content != "script" {
		t.Errorf("first message should be the persona script, got %+v", got[0])
	}
	for i, msg := range hist {
		if got[i+1] != msg {
			t.Errorf("message %d: got %+v, want %+v", i, got[i+1], msg)
		}
	}
}

func TestBuildMessagesExactWindow(t *testing.T) {
	got := BuildMessages("script", history(HistoryWindow))
	if len(got) != HistoryWindow+1 {
		t.Fatalf("expected %d messages, got %d", HistoryWindow+1, len(got))
	}
	if got[1].Content != "msg-0" {
		t.Errorf("expected full history retained, first entry %q", got[1].Content)
	}
}

func TestBuildMessagesTruncatesOldTurns(t *testing.T) {
	got := BuildMessages("script", history(25))

	if len(got) != HistoryWindow+1 {
		t.Fatalf("expected %d messages, got %d", HistoryWindow+1, len(got))
	}
	if got[0].Role != "system" {
		t.Errorf("persona script must stay first, got role %q", got[0].Role)
	}
	// Only the most recent HistoryWindow entries survive.
	if got[1].Content != "msg-15" {
		t.Errorf("oldest retained message = %q, want msg-15", got[1].Content)
	}
	if got[len(got)-1].Content != "msg-24" {
		t.Errorf("newest message = %q, want msg-24", got[len(got)-1].Content)
	}
}

func TestBuildMessagesEmptyHistory(t *testing.T) {
	got := BuildMessages("script", nil)
	if len(got) != 1 || got[0].Role != "system" {
		t.Fatalf("expected only the system message, got %+v", got)
	}
}

func TestBuildMessagesDoesNotMutateInput(t *testing.T) {
	hist := history(12)
	BuildMessages("script", hist)
	if hist[0].Content != "msg-0" || len(hist) != 12 {
		t.Error("BuildMessages mutated the caller's history")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("expected error for empty OpenAI key")
	}
	if _, err := NewAnthropicClient(""); err == nil {
		t.Error("expected error for empty Anthropic key")
	}
	if _, err := NewClient(ProviderOpenAI, "k"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewClient(Provider("bogus"), "k"); err != nil {
		t.Errorf("unknown provider should fall back to OpenAI, got error: %v", err)
	}
}
