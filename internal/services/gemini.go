package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"edid-backend/internal/models"
)

// GeminiService is the Generator backed by the Gemini API. The client and
// model are built once at startup and only read afterwards.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiService(apiKey, modelName string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(edidTemperature)
	model.SystemInstruction = genai.NewUserContent(genai.Text(edidSystemInstruction))
	model.Tools = edidTools()

	return &GeminiService{
		client: client,
		model:  model,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// Generate issues a single GenerateContent call. History, when present, is
// seeded into a throwaway chat session so the newest message is still the
// only content sent as the user turn.
func (s *GeminiService) Generate(ctx context.Context, req GenerateRequest) (*Reply, error) {
	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	if len(req.History) == 0 {
		resp, err = s.model.GenerateContent(ctx, genai.Text(req.Message))
	} else {
		cs := s.model.StartChat()
		cs.History = historyToContents(req.History)
		resp, err = cs.SendMessage(ctx, genai.Text(req.Message))
	}
	return replyFromResult(resp, err)
}

// replyFromResult treats a blocked prompt or candidate as an empty answer
// rather than a failure; whatever content the blocked candidate carries is kept.
func replyFromResult(resp *genai.GenerateContentResponse, err error) (*Reply, error) {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		fields := logrus.Fields{}
		if blocked.PromptFeedback != nil {
			fields["block_reason"] = blocked.PromptFeedback.BlockReason.String()
		}
		if blocked.Candidate != nil {
			fields["finish_reason"] = blocked.Candidate.FinishReason.String()
		}
		logrus.WithFields(fields).Warn("Gemini blocked the response")

		if blocked.Candidate == nil {
			return &Reply{}, nil
		}
		return replyFromResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{blocked.Candidate},
		}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	if resp == nil {
		return &Reply{}, nil
	}
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
			logrus.WithFields(logrus.Fields{
				"candidate":     i,
				"finish_reason": cand.FinishReason.String(),
			}).Warn("Gemini stopped early")
		}
	}

	return replyFromResponse(resp), nil
}

// replyFromResponse converts the first candidate into a Reply. Part kinds
// other than text and function calls are skipped.
func replyFromResponse(resp *genai.GenerateContentResponse) *Reply {
	reply := &Reply{}
	if resp == nil || len(resp.Candidates) == 0 {
		return reply
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return reply
	}

	for _, part := range cand.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			reply.Parts = append(reply.Parts, TextPart{Text: string(p)})
		case genai.FunctionCall:
			reply.Parts = append(reply.Parts, FunctionCallPart{Name: p.Name, Args: p.Args})
		case *genai.FunctionCall:
			if p != nil {
				reply.Parts = append(reply.Parts, FunctionCallPart{Name: p.Name, Args: p.Args})
			}
		}
	}
	return reply
}

// historyToContents maps frontend turns onto the two roles Gemini accepts.
func historyToContents(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}
	return contents
}

func geminiRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "model", "assistant", "bot", "ai":
		return "model"
	default:
		return "user"
	}
}
