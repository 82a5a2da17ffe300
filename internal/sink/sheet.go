package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/annalabs/widget-proxy/internal/model"
)

// LogSink writes dialog transcripts to the spreadsheet log webhook and can
// read a previously stored dialog back by user ID.
type LogSink struct {
	*Webhook
}

// NewLogSink creates the dialog log sink.
func NewLogSink(rawURL string, timeout time.Duration) *LogSink {
	return &LogSink{Webhook: NewWebhook(rawURL, timeout)}
}

// Append stores one log entry. Write-only, best-effort.
func (s *LogSink) Append(ctx context.Context, entry model.LogEntry) error {
	return s.post(ctx, entry)
}

// Fetch returns the stored dialog text for a user, or an empty string when
// none was logged. Used by the lead path to recover a transcript the caller
// did not supply.
func (s *LogSink) Fetch(ctx context.Context, userID string) (string, error) {
	body, err := s.get(ctx, url.Values{"userId": {userID}})
	if err != nil {
		return "", err
	}

	var entry model.LogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return "", fmt.Errorf("failed to decode log entry: %w", err)
	}
	return entry.Dialog, nil
}

// leadRow is the flat payload of the lead spreadsheet webhook.
type leadRow struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	UserID  string `json:"userId"`
	Comment string `json:"comment"`
}

// LeadSheetSink writes accepted leads to the lead spreadsheet webhook.
type LeadSheetSink struct {
	*Webhook
}

// NewLeadSheetSink creates the lead spreadsheet sink.
func NewLeadSheetSink(rawURL string, timeout time.Duration) *LeadSheetSink {
	return &LeadSheetSink{Webhook: NewWebhook(rawURL, timeout)}
}

// Submit delivers a lead with its summary comment.
func (s *LeadSheetSink) Submit(ctx context.Context, lead model.Lead, comment string) error {
	return s.post(ctx, leadRow{
		Name:    lead.Name,
		Phone:   lead.Phone,
		UserID:  lead.UserID,
		Comment: comment,
	})
}
