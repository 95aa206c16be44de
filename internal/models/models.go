package models

// ---------------------------------------------------------------------------
// Wire types shared by the TTS and STT adapters.
// Request shapes follow the OpenAI audio API; response shapes for the
// operational endpoints (health, providers) are our own.
// ---------------------------------------------------------------------------

// SpeechRequest is the body of POST /v1/audio/speech (OpenAI-compatible).
type SpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// Voice describes one selectable voice in a provider's catalog.
type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// TranscriptionResponse is the body of a successful POST /v1/audio/transcriptions.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// HealthResponse reports whether the service has a usable active provider.
type HealthResponse struct {
	Status             string `json:"status"` // "healthy" or "degraded"
	Provider           string `json:"provider"`
	ProviderConfigured bool   `json:"provider_configured"`
}

// ProviderStatus is one entry in the providers listing.
type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// ProvidersResponse lists every registered backend and which one is active.
type ProvidersResponse struct {
	Current   string                    `json:"current"`
	Available map[string]ProviderStatus `json:"available"`
}

// Model is one entry in the OpenAI-style model listing.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// ModelsResponse is the body of GET /v1/models.
type ModelsResponse struct {
	Data []Model `json:"data"`
}

// VoicesResponse is the body of GET /v1/voices.
type VoicesResponse struct {
	Voices   []Voice `json:"voices"`
	Provider string  `json:"provider"`
}
