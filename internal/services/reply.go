package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"edid-backend/internal/models"
)

// Part is one piece of a model reply. The set of implementations is closed.
type Part interface {
	isPart()
}

// TextPart is plain text produced by the model.
type TextPart struct {
	Text string
}

// FunctionCallPart is a tool invocation requested by the model.
type FunctionCallPart struct {
	Name string
	Args map[string]any
}

func (TextPart) isPart()         {}
func (FunctionCallPart) isPart() {}

// Reply is the model output of a single generate call, in part order.
type Reply struct {
	Parts []Part
}

// GenerateRequest is what the relay hands to a Generator.
// History is nil unless history forwarding is enabled.
type GenerateRequest struct {
	Message string
	History []models.ChatMessage
}

// Generator issues exactly one completion call per Generate.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Reply, error)
}

// ErrNotConfigured is returned when no Gemini credential was supplied at startup.
var ErrNotConfigured = errors.New("Gemini API not configured. Please set GEMINI_API_KEY environment variable.")

// UpstreamError wraps any failure of the outbound Gemini call.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Failed to process request with Gemini AI: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status reported by the Gemini API, or 0 when
// the failure never produced one (network, decoding, cancellation).
func (e *UpstreamError) StatusCode() int {
	var apiErr *googleapi.Error
	if errors.As(e.Err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// Retryable classifies the upstream failure for logging only; the relay never retries.
func (e *UpstreamError) Retryable() bool {
	switch e.StatusCode() {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
