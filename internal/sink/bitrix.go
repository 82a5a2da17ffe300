package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/annalabs/widget-proxy/internal/model"
)

// Bitrix lead-ingestion wire format. Field names are fixed by the CRM.
type bitrixPhone struct {
	Value     string `json:"VALUE"`
	ValueType string `json:"VALUE_TYPE"`
}

type bitrixFields struct {
	Name     string        `json:"NAME"`
	Phone    []bitrixPhone `json:"PHONE"`
	Comments string        `json:"COMMENTS"`
	SourceID string        `json:"SOURCE_ID"`
}

type bitrixLead struct {
	Fields bitrixFields `json:"fields"`
}

// CRMSink delivers leads to the Bitrix CRM ingestion endpoint.
type CRMSink struct {
	*Webhook
}

// NewCRMSink creates the CRM sink.
func NewCRMSink(rawURL string, timeout time.Duration) *CRMSink {
	return &CRMSink{Webhook: NewWebhook(rawURL, timeout)}
}

// Submit reshapes the lead into the CRM field schema and delivers it.
func (s *CRMSink) Submit(ctx context.Context, lead model.Lead, comment string) error {
	return s.post(ctx, bitrixLead{
		Fields: bitrixFields{
			Name:     lead.Name,
			Phone:    []bitrixPhone{{Value: lead.Phone, ValueType: "WORK"}},
			Comments: fmt.Sprintf("User ID: %s\n%s", lead.UserID, comment),
			SourceID: "WEB",
		},
	})
}
