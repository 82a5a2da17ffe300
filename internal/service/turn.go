// Package service provides the request orchestration for the widget proxy.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/annalabs/widget-proxy/internal/dispatch"
	"github.com/annalabs/widget-proxy/internal/emotion"
	"github.com/annalabs/widget-proxy/internal/llm"
	"github.com/annalabs/widget-proxy/internal/model"
	"github.com/annalabs/widget-proxy/internal/persona"
	"github.com/annalabs/widget-proxy/internal/sanitize"
	"github.com/annalabs/widget-proxy/pkg/logger"
	"github.com/annalabs/widget-proxy/pkg/metrics"
)

// defaultUserID is the sentinel for callers that supply no user ID. The
// literal matches what the spreadsheet logs have always recorded.
const defaultUserID = "неизвестно"

// TurnService orchestrates one conversational turn: persona selection,
// completion, post-processing and the fire-and-forget log entry.
type TurnService struct {
	llm         llm.Client
	dispatcher  *dispatch.Dispatcher
	turnTimeout time.Duration
	logger      *logger.Logger
}

// NewTurnService creates a new turn service.
func NewTurnService(client llm.Client, d *dispatch.Dispatcher, turnTimeout time.Duration, log *logger.Logger) *TurnService {
	return &TurnService{
		llm:         client,
		dispatcher:  d,
		turnTimeout: turnTimeout,
		logger:      log,
	}
}

// Handle processes one turn. Malformed input is normalized, never rejected:
// absent messages become an empty history and an absent user ID becomes the
// sentinel. Only an upstream completion failure is returned to the caller.
func (s *TurnService) Handle(ctx context.Context, req *model.TurnRequest) (*model.TurnResponse, error) {
	history := req.Messages
	if history == nil {
		history = []model.ChatMessage{}
	}
	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	p := persona.Lookup(req.Mode)

	raw, err := s.reply(ctx, p, history)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues(p.ID, "upstream_error").Inc()
		return nil, err
	}

	display := sanitize.Display(raw, p.DisplayPolicy)

	resp := &model.TurnResponse{
		Choices: []model.Choice{{
			Message: model.AssistantMessage{Role: model.RoleAssistant, Content: display},
		}},
		TriggerForm:       sanitize.Has(raw, sanitize.TagOpenLeadForm),
		TriggerPizzaPopup: sanitize.Has(raw, sanitize.TagShowPizzaPopup),
	}

	if p.Voice {
		text := sanitize.Speech(raw)
		label := emotion.Classify(text)
		metrics.EmotionLabelsTotal.WithLabelValues(string(label)).Inc()
		resp.Voice = &model.VoicePayload{Text: text, Emotion: string(label)}
	}

	// Hand the log entry to the background worker; the response never waits
	// on it and never learns whether it succeeded.
	s.dispatcher.Enqueue(model.LogEntry{
		UserID: userID,
		Dialog: dialogText(history, display),
	})

	metrics.TurnsTotal.WithLabelValues(p.ID, "ok").Inc()
	return resp, nil
}

// reply returns the raw assistant text: the canned greeting when the persona
// short-circuits this history, the completion result otherwise.
func (s *TurnService) reply(ctx context.Context, p persona.Persona, history []model.ChatMessage) (string, error) {
	if p.Greeting.Matches(history) {
		s.logger.Debug("greeting short-circuit", zap.String("mode", p.ID))
		return p.Greeting.Reply, nil
	}

	chat := make([]llm.ChatMessage, len(history))
	for i, msg := range history {
		chat[i] = llm.ChatMessage{Role: string(msg.Role), Content: msg.Content}
	}

	// The upstream call is detached from the inbound request context: a
	// client disconnect does not cancel work already in flight.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.turnTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llm.Complete(callCtx, &llm.CompletionRequest{
		Model:       p.Model,
		Messages:    llm.BuildMessages(p.Script, chat),
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	})
	if err != nil {
		metrics.RecordLLMRequest(p.Model, "error", time.Since(start).Seconds(), 0, 0)
		return "", err
	}

	metrics.RecordLLMRequest(resp.Model, "ok", float64(resp.LatencyMs)/1000.0, resp.TokensIn, resp.TokensOut)
	return resp.Content, nil
}

// dialogText concatenates the caller-supplied history and the reply the way
// the spreadsheet log expects it.
func dialogText(history []model.ChatMessage, reply string) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString(reply)
	return b.String()
}
