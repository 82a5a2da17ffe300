package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/annalabs/widget-proxy/internal/llm"
	"github.com/annalabs/widget-proxy/internal/model"
	"github.com/annalabs/widget-proxy/internal/sink"
	"github.com/annalabs/widget-proxy/pkg/logger"
)

type sinkCapture struct {
	hits    atomic.Int64
	lastRaw atomic.Value
	srv     *httptest.Server
}

func newSinkCapture(t *testing.T, status int) *sinkCapture {
	c := &sinkCapture{}
	c.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.hits.Add(1)
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		c.lastRaw.Store(raw)
		w.WriteHeader(status)
	}))
	t.Cleanup(c.srv.Close)
	return c
}

func (c *sinkCapture) payload() map[string]any {
	if v := c.lastRaw.Load(); v != nil {
		return v.(map[string]any)
	}
	return nil
}

func validLead() *model.LeadRequest {
	return &model.LeadRequest{
		Name:   "Иван",
		Phone:  "+79990001122",
		UserID: "u-1",
		Messages: []model.ChatMessage{
			{Role: model.RoleUser, Content: "Сколько стоит бот?"},
		},
	}
}

func newLeadFixture(t *testing.T, f *fakeLLM, sheet, crm *sinkCapture, logsURL string) *LeadService {
	return NewLeadService(
		f,
		sink.NewLeadSheetSink(sheet.srv.URL, time.Second),
		sink.NewCRMSink(crm.srv.URL, time.Second),
		sink.NewLogSink(logsURL, time.Second),
		time.Second,
		logger.NewNop(),
	)
}

func TestLeadMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.LeadRequest)
	}{
		{"missing name", func(r *model.LeadRequest) { r.Name = "" }},
		{"missing phone", func(r *model.LeadRequest) { r.Phone = "" }},
		{"missing userId", func(r *model.LeadRequest) { r.UserID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeLLM{content: "резюме"}
			sheet := newSinkCapture(t, http.StatusOK)
			crm := newSinkCapture(t, http.StatusOK)
			svc := newLeadFixture(t, f, sheet, crm, "")

			req := validLead()
			tt.mutate(req)

			_, err := svc.Handle(context.Background(), req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if f.callCount() != 0 {
				t.Error("validation failure must not call the completion service")
			}
			if sheet.hits.Load() != 0 || crm.hits.Load() != 0 {
				t.Error("validation failure must not touch any sink")
			}
		})
	}
}

func TestLeadMissingTranscript(t *testing.T) {
	f := &fakeLLM{content: "резюме"}
	sheet := newSinkCapture(t, http.StatusOK)
	crm := newSinkCapture(t, http.StatusOK)
	svc := newLeadFixture(t, f, sheet, crm, "") // read-back disabled

	req := validLead()
	req.Messages = nil

	if _, err := svc.Handle(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLeadSuccess(t *testing.T) {
	f := &fakeLLM{content: "Интересовался подключением бота"}
	sheet := newSinkCapture(t, http.StatusOK)
	crm := newSinkCapture(t, http.StatusOK)
	svc := newLeadFixture(t, f, sheet, crm, "")

	resp, err := svc.Handle(context.Background(), validLead())
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Message != "Интересовался подключением бота" {
		t.Errorf("Message = %q", resp.Message)
	}

	if sheet.hits.Load() != 1 {
		t.Errorf("sheet sink hits = %d, want 1", sheet.hits.Load())
	}
	if crm.hits.Load() != 1 {
		t.Errorf("crm sink hits = %d, want 1", crm.hits.Load())
	}
	if p := sheet.payload(); p["comment"] != "Интересовался подключением бота" {
		t.Errorf("sheet comment = %v", p["comment"])
	}

	// The summary prompt carries the transcript.
	call := f.lastCall()
	if call == nil {
		t.Fatal("no summary call recorded")
	}
	if !strings.Contains(call.Messages[1].Content, "Сколько стоит бот?") {
		t.Error("summary prompt should contain the transcript")
	}
}

func TestLeadSummaryFailureFallsBack(t *testing.T) {
	f := &fakeLLM{err: llm.ErrUpstream}
	sheet := newSinkCapture(t, http.StatusOK)
	crm := newSinkCapture(t, http.StatusOK)
	svc := newLeadFixture(t, f, sheet, crm, "")

	resp, err := svc.Handle(context.Background(), validLead())
	if err != nil {
		t.Fatalf("summary failure must not fail the lead: %v", err)
	}
	if resp.Message != "Комментарий не получен" {
		t.Errorf("Message = %q, want fallback", resp.Message)
	}

	// The lead is still delivered with the fallback comment.
	if sheet.hits.Load() != 1 || crm.hits.Load() != 1 {
		t.Error("sinks should still receive the lead")
	}
	if p := sheet.payload(); p["comment"] != "Комментарий не получен" {
		t.Errorf("sheet comment = %v", p["comment"])
	}
}

func TestLeadSinkFailureIsolated(t *testing.T) {
	f := &fakeLLM{content: "резюме"}
	sheet := newSinkCapture(t, http.StatusInternalServerError)
	crm := newSinkCapture(t, http.StatusOK)
	svc := newLeadFixture(t, f, sheet, crm, "")

	resp, err := svc.Handle(context.Background(), validLead())
	if err != nil {
		t.Fatalf("sink failure must be invisible to the caller: %v", err)
	}
	if resp.Message != "резюме" {
		t.Errorf("Message = %q", resp.Message)
	}

	// The failing sheet did not prevent the CRM delivery.
	if crm.hits.Load() != 1 {
		t.Errorf("crm sink hits = %d, want 1", crm.hits.Load())
	}
}

func TestLeadTranscriptReadBack(t *testing.T) {
	logsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "u-1" {
			t.Errorf("read-back userId = %q", got)
		}
		json.NewEncoder(w).Encode(model.LogEntry{UserID: "u-1", Dialog: "Привет\nИнтересует цена"})
	}))
	defer logsSrv.Close()

	f := &fakeLLM{content: "резюме из логов"}
	sheet := newSinkCapture(t, http.StatusOK)
	crm := newSinkCapture(t, http.StatusOK)
	svc := newLeadFixture(t, f, sheet, crm, logsSrv.URL)

	req := validLead()
	req.Messages = nil

	resp, err := svc.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if resp.Message != "резюме из логов" {
		t.Errorf("Message = %q", resp.Message)
	}

	call := f.lastCall()
	if call == nil {
		t.Fatal("no summary call recorded")
	}
	if !strings.Contains(call.Messages[1].Content, "Интересует цена") {
		t.Error("summary prompt should contain the recovered dialog")
	}
}
