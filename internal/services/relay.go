package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"edid-backend/internal/middleware"
	"edid-backend/internal/models"
)

// Relay turns one analyze request into one Gemini call and reshapes the reply.
type Relay struct {
	generator      Generator
	includeHistory bool
	log            logrus.FieldLogger
}

// NewRelay builds the relay. A nil generator means the credential was absent
// or the client failed to start; every Analyze then fails with ErrNotConfigured.
func NewRelay(generator Generator, includeHistory bool, log logrus.FieldLogger) *Relay {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Relay{
		generator:      generator,
		includeHistory: includeHistory,
		log:            log,
	}
}

// Configured reports whether Analyze can reach the Gemini API.
func (r *Relay) Configured() bool {
	return r.generator != nil
}

// Analyze forwards the newest message to Gemini and returns the text reply
// plus the first function call, if any. No retries are attempted.
func (r *Relay) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	if !r.Configured() {
		return nil, ErrNotConfigured
	}

	log := r.log.WithField("request_id", middleware.GetRequestID(ctx))
	log.WithField("history_messages", len(req.History)).Info("Received Gemini request")

	genReq := GenerateRequest{Message: req.Message}
	if r.includeHistory {
		genReq.History = req.History
	}

	reply, err := r.generator.Generate(ctx, genReq)
	if err != nil {
		upErr := &UpstreamError{Err: err}
		log.WithFields(logrus.Fields{
			"error":       err.Error(),
			"error_type":  fmt.Sprintf("%T", err),
			"status_code": upErr.StatusCode(),
			"retryable":   upErr.Retryable(),
		}).Error("Error calling Gemini API")
		return nil, upErr
	}

	resp := toAnalyzeResponse(reply)
	if resp.FunctionCall != nil {
		log.WithField("function", resp.FunctionCall.Name).Info("Function call detected")
	}
	if dropped := countFunctionCalls(reply) - 1; dropped > 0 {
		log.WithField("dropped", dropped).Debug("Ignoring additional function calls")
	}
	log.WithFields(logrus.Fields{
		"response_chars": utf8.RuneCountInString(resp.Text),
		"function_call":  resp.FunctionCall != nil,
	}).Info("Gemini response")

	return resp, nil
}

func toAnalyzeResponse(reply *Reply) *models.AnalyzeResponse {
	resp := &models.AnalyzeResponse{}
	if reply == nil {
		return resp
	}

	var text strings.Builder
	for _, part := range reply.Parts {
		switch p := part.(type) {
		case TextPart:
			text.WriteString(p.Text)
		case FunctionCallPart:
			if resp.FunctionCall != nil {
				continue
			}
			args := p.Args
			if args == nil {
				args = map[string]any{}
			}
			resp.FunctionCall = &models.FunctionCallResult{Name: p.Name, Args: args}
		}
	}
	resp.Text = text.String()
	return resp
}

func countFunctionCalls(reply *Reply) int {
	if reply == nil {
		return 0
	}
	n := 0
	for _, part := range reply.Parts {
		if _, ok := part.(FunctionCallPart); ok {
			n++
		}
	}
	return n
}
