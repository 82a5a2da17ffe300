package model

// LeadRequest is the request body of POST /lead.
type LeadRequest struct {
	Name     string        `json:"name"`
	Phone    string        `json:"phone"`
	UserID   string        `json:"userId"`
	Messages []ChatMessage `json:"messages"`
}

// Lead is a validated lead ready for sink delivery.
type Lead struct {
	Name       string
	Phone      string
	UserID     string
	Transcript []ChatMessage
}

// LeadResponse is the response body of POST /lead. Message carries the
// model-derived summary comment, or the fallback when the summary call failed.
type LeadResponse struct {
	Message string `json:"message"`
}
