package models

type HealthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	GeminiConfigured bool   `json:"gemini_configured"`
}

type Endpoints struct {
	Health      string `json:"health"`
	GeminiProxy string `json:"gemini_proxy"`
}

type RootResponse struct {
	Service   string    `json:"service"`
	Status    string    `json:"status"`
	Endpoints Endpoints `json:"endpoints"`
}
