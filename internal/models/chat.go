package models

// ChatMessage represents a single prior turn of the conversation.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// AnalyzeRequest is the payload sent to the Gemini analyze endpoint.
// History is chronological; Message is the newest user utterance.
type AnalyzeRequest struct {
	History []ChatMessage `json:"history"`
	Message string        `json:"message"`
}

// FunctionCallResult is a tool invocation requested by the model.
type FunctionCallResult struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// AnalyzeResponse is the reshaped model reply.
type AnalyzeResponse struct {
	Text         string              `json:"text"`
	FunctionCall *FunctionCallResult `json:"functionCall"`
}
