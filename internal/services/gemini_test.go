package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edid-backend/internal/models"
)

func TestNewGeminiService_EmptyKey(t *testing.T) {
	svc, err := NewGeminiService("", "gemini-2.0-flash-exp")

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewGeminiService_ConfiguresModel(t *testing.T) {
	svc, err := NewGeminiService("test-key", "gemini-2.0-flash-exp")
	require.NoError(t, err)
	defer svc.Close()

	model := svc.model
	require.NotNil(t, model.Temperature)
	assert.InDelta(t, 0.7, *model.Temperature, 1e-6)

	require.NotNil(t, model.SystemInstruction)
	assert.Equal(t, []genai.Part{genai.Text(edidSystemInstruction)}, model.SystemInstruction.Parts)

	require.Len(t, model.Tools, 1)
	require.Len(t, model.Tools[0].FunctionDeclarations, 1)
	assert.Equal(t, UpdateEdidFormTool, model.Tools[0].FunctionDeclarations[0].Name)
}

func TestReplyFromResult_BlockedCandidateIsNotAnError(t *testing.T) {
	blocked := &genai.BlockedError{Candidate: &genai.Candidate{
		FinishReason: genai.FinishReasonSafety,
		Content:      &genai.Content{Parts: []genai.Part{genai.Text("partial")}},
	}}

	reply, err := replyFromResult(nil, blocked)

	require.NoError(t, err)
	assert.Equal(t, []Part{TextPart{Text: "partial"}}, reply.Parts)
}

func TestReplyFromResult_BlockedPromptIsEmptyReply(t *testing.T) {
	blocked := &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}}

	reply, err := replyFromResult(nil, fmt.Errorf("send: %w", blocked))

	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Empty(t, reply.Parts)
}

func TestReplyFromResult_OtherErrorsWrapped(t *testing.T) {
	cause := errors.New("connection refused")

	reply, err := replyFromResult(nil, cause)

	assert.Nil(t, reply)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Gemini API error")
}

func TestReplyFromResponse_FirstCandidateOnly(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []genai.Part{
				genai.Text("Done"),
				genai.FunctionCall{Name: "updateEdidForm", Args: map[string]any{"pixelClock": float64(148500)}},
				genai.Blob{MIMEType: "image/png"},
			}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}

	reply := replyFromResponse(resp)

	require.Len(t, reply.Parts, 2)
	assert.Equal(t, TextPart{Text: "Done"}, reply.Parts[0])
	assert.Equal(t, FunctionCallPart{Name: "updateEdidForm", Args: map[string]any{"pixelClock": float64(148500)}}, reply.Parts[1])
}

func TestReplyFromResponse_PointerFunctionCall(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{
			&genai.FunctionCall{Name: "updateEdidForm"},
		}}}},
	}

	reply := replyFromResponse(resp)

	require.Len(t, reply.Parts, 1)
	assert.Equal(t, FunctionCallPart{Name: "updateEdidForm"}, reply.Parts[0])
}

func TestReplyFromResponse_Empty(t *testing.T) {
	assert.Empty(t, replyFromResponse(nil).Parts)
	assert.Empty(t, replyFromResponse(&genai.GenerateContentResponse{}).Parts)
	assert.Empty(t, replyFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}).Parts)
}

func TestHistoryToContents(t *testing.T) {
	contents := historyToContents([]models.ChatMessage{
		{Role: "user", Text: "hello"},
		{Role: "model", Text: "Hi"},
		{Role: "Assistant", Text: "legacy role"},
		{Role: "system", Text: "odd role"},
	})

	require.Len(t, contents, 4)
	roles := []string{contents[0].Role, contents[1].Role, contents[2].Role, contents[3].Role}
	assert.Equal(t, []string{"user", "model", "model", "user"}, roles)
	assert.Equal(t, []genai.Part{genai.Text("hello")}, contents[0].Parts)
}

func TestUpdateEdidFormDeclaration(t *testing.T) {
	decl := updateEdidFormDeclaration()

	assert.Equal(t, "updateEdidForm", decl.Name)
	require.NotNil(t, decl.Parameters)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)

	props := decl.Parameters.Properties
	assert.Len(t, props, 16)
	assert.Equal(t, genai.TypeString, props["displayName"].Type)
	for _, name := range []string{
		"pixelClock", "hAddressable", "hBlanking", "vAddressable", "vBlanking", "refreshRate",
		"hFrontPorch", "hSyncWidth", "vFrontPorch", "vSyncWidth", "hImageSize", "vImageSize",
		"hBorder", "vBorder",
	} {
		require.Contains(t, props, name)
		assert.Equal(t, genai.TypeNumber, props[name].Type, name)
		assert.NotEmpty(t, props[name].Description, name)
	}

	color := props["colorimetry"]
	require.NotNil(t, color)
	assert.Equal(t, genai.TypeObject, color.Type)
	assert.Len(t, color.Properties, 8)
	for _, name := range []string{"redX", "redY", "greenX", "greenY", "blueX", "blueY", "whiteX", "whiteY"} {
		require.Contains(t, color.Properties, name)
		assert.Equal(t, genai.TypeNumber, color.Properties[name].Type, name)
	}
}

func TestEdidTools_SingleDeclaration(t *testing.T) {
	tools := edidTools()

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 1)
	assert.Equal(t, UpdateEdidFormTool, tools[0].FunctionDeclarations[0].Name)
	assert.Contains(t, edidSystemInstruction, "Eddy")
	assert.Contains(t, edidSystemInstruction, "updateEdidForm")
}
