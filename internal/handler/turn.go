// Package handler provides the HTTP endpoints of the widget proxy.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/annalabs/widget-proxy/internal/llm"
	"github.com/annalabs/widget-proxy/internal/model"
	"github.com/annalabs/widget-proxy/internal/service"
	"github.com/annalabs/widget-proxy/pkg/logger"
)

// TurnHandler handles the conversational turn endpoint.
type TurnHandler struct {
	turnService *service.TurnService
	logger      *logger.Logger
}

// NewTurnHandler creates a new turn handler.
func NewTurnHandler(svc *service.TurnService, log *logger.Logger) *TurnHandler {
	return &TurnHandler{
		turnService: svc,
		logger:      log,
	}
}

// Handle handles POST /gpt.
//
// Malformed bodies are normalized to defaults rather than rejected; the only
// caller-visible failures are an upstream completion error (502) and an
// unexpected internal error (500, generic message).
func (h *TurnHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req model.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = model.TurnRequest{}
	}

	resp, err := h.turnService.Handle(r.Context(), &req)
	if err != nil {
		if errors.Is(err, llm.ErrUpstream) {
			h.logger.Error("upstream completion failed",
				zap.String("mode", req.Mode),
				zap.Error(err),
			)
			writeError(w, http.StatusBadGateway, "upstream completion failed")
			return
		}
		h.logger.Error("turn failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "proxy error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
