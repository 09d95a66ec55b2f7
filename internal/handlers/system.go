package handlers

import (
	"encoding/json"
	"net/http"

	"edid-backend/internal/models"
)

const (
	ServiceID   = "edid-calculator-backend"
	ServiceName = "EDID Calculator Backend"

	PathHealth  = "/health"
	PathRoot    = "/"
	PathAnalyze = "/api/gemini/analyze"
)

type SystemHandler struct {
	geminiConfigured bool
}

// NewSystemHandler takes the credential presence observed at startup; health
// never calls the upstream service.
func NewSystemHandler(geminiConfigured bool) *SystemHandler {
	return &SystemHandler{geminiConfigured: geminiConfigured}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:           "healthy",
		Service:          ServiceID,
		GeminiConfigured: h.geminiConfigured,
	})
}

func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.RootResponse{
		Service: ServiceName,
		Status:  "running",
		Endpoints: models.Endpoints{
			Health:      PathHealth,
			GeminiProxy: PathAnalyze,
		},
	})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
