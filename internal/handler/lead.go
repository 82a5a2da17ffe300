package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/annalabs/widget-proxy/internal/model"
	"github.com/annalabs/widget-proxy/internal/service"
	"github.com/annalabs/widget-proxy/pkg/logger"
)

// LeadHandler handles the lead submission endpoint.
type LeadHandler struct {
	leadService *service.LeadService
	logger      *logger.Logger
}

// NewLeadHandler creates a new lead handler.
func NewLeadHandler(svc *service.LeadService, log *logger.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: svc,
		logger:      log,
	}
}

// Handle handles POST /lead. Missing required fields yield 400 with no
// external calls; sink outages are invisible to the caller.
func (h *LeadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req model.LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.leadService.Handle(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("lead processing failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
