package handlers

import (
	"context"
	"errors"
	"net/http"

	"edid-backend/internal/models"
	"edid-backend/internal/services"
)

type analyzer interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error)
}

type GeminiHandler struct {
	relay analyzer
}

func NewGeminiHandler(relay analyzer) *GeminiHandler {
	return &GeminiHandler{relay: relay}
}

// Analyze proxies one chat turn to Gemini so the API key stays server-side.
func (h *GeminiHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAnalyzeRequest(r.Body)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusUnprocessableEntity, models.ValidationResponse{Detail: vErr.Issues})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.DetailResponse{Detail: err.Error()})
		return
	}

	resp, err := h.relay.Analyze(r.Context(), req)
	if err != nil {
		handleRelayError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func handleRelayError(w http.ResponseWriter, err error) {
	var upErr *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		writeJSON(w, http.StatusInternalServerError, models.DetailResponse{Detail: err.Error()})
	case errors.As(err, &upErr):
		writeJSON(w, http.StatusInternalServerError, models.DetailResponse{Detail: upErr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, models.DetailResponse{Detail: "An unexpected error occurred"})
	}
}
