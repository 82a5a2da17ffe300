package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/annalabs/widget-proxy/internal/model"
)

func TestLogSinkAppend(t *testing.T) {
	var got model.LogEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
	}))
	defer srv.Close()

	s := NewLogSink(srv.URL, time.Second)
	entry := model.LogEntry{UserID: "u-1", Dialog: "Привет\nЗдравствуйте!"}
	if err := s.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if got != entry {
		t.Errorf("sink received %+v, want %+v", got, entry)
	}
}

func TestLogSinkFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("userId") != "u-2" {
			t.Errorf("expected userId query param, got %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(model.LogEntry{UserID: "u-2", Dialog: "сохранённый диалог"})
	}))
	defer srv.Close()

	s := NewLogSink(srv.URL, time.Second)
	dialog, err := s.Fetch(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if dialog != "сохранённый диалог" {
		t.Errorf("Fetch = %q", dialog)
	}
}

func TestDisabledSink(t *testing.T) {
	s := NewLogSink("", time.Second)
	if s.Enabled() {
		t.Error("sink with empty URL should be disabled")
	}
	if err := s.Append(context.Background(), model.LogEntry{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
	if _, err := s.Fetch(context.Background(), "u"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestWebhookNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewLeadSheetSink(srv.URL, time.Second)
	err := s.Submit(context.Background(), model.Lead{Name: "n", Phone: "p", UserID: "u"}, "c")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestLeadSheetPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	s := NewLeadSheetSink(srv.URL, time.Second)
	lead := model.Lead{Name: "Иван", Phone: "+79990001122", UserID: "u-3"}
	if err := s.Submit(context.Background(), lead, "интересовался ботом"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	want := map[string]string{
		"name":    "Иван",
		"phone":   "+79990001122",
		"userId":  "u-3",
		"comment": "интересовался ботом",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("payload[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestCRMPayload(t *testing.T) {
	var got struct {
		Fields struct {
			Name  string `json:"NAME"`
			Phone []struct {
				Value     string `json:"VALUE"`
				ValueType string `json:"VALUE_TYPE"`
			} `json:"PHONE"`
			Comments string `json:"COMMENTS"`
			SourceID string `json:"SOURCE_ID"`
		} `json:"fields"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	s := NewCRMSink(srv.URL, time.Second)
	lead := model.Lead{Name: "Иван", Phone: "+79990001122", UserID: "u-4"}
	if err := s.Submit(context.Background(), lead, "резюме"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if got.Fields.Name != "Иван" {
		t.Errorf("NAME = %q", got.Fields.Name)
	}
	if len(got.Fields.Phone) != 1 || got.Fields.Phone[0].Value != "+79990001122" || got.Fields.Phone[0].ValueType != "WORK" {
		t.Errorf("PHONE = %+v", got.Fields.Phone)
	}
	if got.Fields.Comments != "User ID: u-4\nрезюме" {
		t.Errorf("COMMENTS = %q", got.Fields.Comments)
	}
	if got.Fields.SourceID != "WEB" {
		t.Errorf("SOURCE_ID = %q", got.Fields.SourceID)
	}
}
