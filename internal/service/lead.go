package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/annalabs/widget-proxy/internal/llm"
	"github.com/annalabs/widget-proxy/internal/model"
	"github.com/annalabs/widget-proxy/internal/persona"
	"github.com/annalabs/widget-proxy/internal/sink"
	"github.com/annalabs/widget-proxy/pkg/logger"
	"github.com/annalabs/widget-proxy/pkg/metrics"
)

// ErrValidation marks a client-caused lead rejection. No external call is
// made once validation fails.
var ErrValidation = errors.New("invalid lead")

// fallbackComment replaces the model summary whenever the summary call
// fails. The literal is what operators see in the sheet and the CRM.
const fallbackComment = "Комментарий не получен"

const (
	summaryTemperature = 0.6
	summaryMaxTokens   = 150
)

// LeadService validates leads, derives a summary comment and fans the lead
// out to the sheet and CRM sinks, each failure contained.
type LeadService struct {
	llm            llm.Client
	sheet          *sink.LeadSheetSink
	crm            *sink.CRMSink
	logs           *sink.LogSink
	summaryTimeout time.Duration
	logger         *logger.Logger
}

// NewLeadService creates a new lead service.
func NewLeadService(
	client llm.Client,
	sheet *sink.LeadSheetSink,
	crm *sink.CRMSink,
	logs *sink.LogSink,
	summaryTimeout time.Duration,
	log *logger.Logger,
) *LeadService {
	return &LeadService{
		llm:            client,
		sheet:          sheet,
		crm:            crm,
		logs:           logs,
		summaryTimeout: summaryTimeout,
		logger:         log,
	}
}

// Handle processes one lead submission. Validation failures return
// ErrValidation before any external call; sink failures never reach the
// caller, who always receives the derived comment.
func (s *LeadService) Handle(ctx context.Context, req *model.LeadRequest) (*model.LeadResponse, error) {
	if req.Name == "" || req.Phone == "" || req.UserID == "" {
		metrics.LeadsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: name, phone and userId are required", ErrValidation)
	}

	transcript, err := s.transcript(ctx, req)
	if err != nil {
		metrics.LeadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	// Detached from the inbound request: a disconnecting client does not
	// abort lead delivery.
	ctx = context.WithoutCancel(ctx)

	comment := s.summarize(ctx, transcript)

	lead := model.Lead{
		Name:       req.Name,
		Phone:      req.Phone,
		UserID:     req.UserID,
		Transcript: transcript,
	}

	if err := s.sheet.Submit(ctx, lead, comment); err != nil {
		s.warnSink("lead_sheet", lead.UserID, err)
	} else {
		metrics.RecordSinkDelivery("lead_sheet", nil)
	}

	if err := s.crm.Submit(ctx, lead, comment); err != nil {
		s.warnSink("crm", lead.UserID, err)
	} else {
		metrics.RecordSinkDelivery("crm", nil)
	}

	metrics.LeadsTotal.WithLabelValues("accepted").Inc()
	return &model.LeadResponse{Message: comment}, nil
}

// transcript returns the conversation to summarize. When the caller omitted
// it, the dialog log is consulted by user ID before the lead is rejected.
func (s *LeadService) transcript(ctx context.Context, req *model.LeadRequest) ([]model.ChatMessage, error) {
	if len(req.Messages) > 0 {
		return req.Messages, nil
	}

	if s.logs.Enabled() {
		dialog, err := s.logs.Fetch(ctx, req.UserID)
		if err != nil {
			s.logger.Warn("dialog read-back failed",
				zap.String("user_id", req.UserID),
				zap.Error(err),
			)
		} else if dialog != "" {
			return []model.ChatMessage{{Role: model.RoleUser, Content: dialog}}, nil
		}
	}

	return nil, fmt.Errorf("%w: messages are required", ErrValidation)
}

// summarize asks the model for a short summary of the conversation. Any
// failure degrades to the fixed fallback comment; this path must never block
// lead delivery.
func (s *LeadService) summarize(ctx context.Context, transcript []model.ChatMessage) string {
	p := persona.Default()

	contents := make([]string, len(transcript))
	for i, msg := range transcript {
		contents[i] = msg.Content
	}
	prompt := fmt.Sprintf(
		"Вот вся переписка с пользователем:\n%s\nСделай краткое резюме ситуации. Напиши, что человек интересовался, какие у него были вопросы. Не пиши длинно.",
		strings.Join(contents, "\n"),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.summaryTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llm.Complete(callCtx, &llm.CompletionRequest{
		Model: p.SummaryModel,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: p.Script},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		metrics.RecordLLMRequest(p.SummaryModel, "error", time.Since(start).Seconds(), 0, 0)
		s.logger.Warn("lead summary failed, using fallback", zap.Error(err))
		return fallbackComment
	}

	metrics.RecordLLMRequest(resp.Model, "ok", float64(resp.LatencyMs)/1000.0, resp.TokensIn, resp.TokensOut)
	if resp.Content == "" {
		return fallbackComment
	}
	return resp.Content
}

func (s *LeadService) warnSink(name, userID string, err error) {
	metrics.RecordSinkDelivery(name, err)
	s.logger.Warn("lead sink delivery failed",
		zap.String("sink", name),
		zap.String("user_id", userID),
		zap.Error(err),
	)
}
