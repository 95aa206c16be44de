package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/voxrelay/voxrelay/internal/models"
	"github.com/voxrelay/voxrelay/internal/services"
)

// TTSHandler serves the OpenAI-compatible text-to-speech endpoints.
// active is the provider selected at startup; it is nil when selection
// failed, in which case the service keeps running in a degraded state.
type TTSHandler struct {
	registry *services.Registry[services.TTSProvider]
	active   services.TTSProvider
}

func NewTTSHandler(registry *services.Registry[services.TTSProvider], active services.TTSProvider) *TTSHandler {
	return &TTSHandler{
		registry: registry,
		active:   active,
	}
}

// CreateSpeech handles POST /v1/audio/speech
func (h *TTSHandler) CreateSpeech(w http.ResponseWriter, r *http.Request) {
	if h.active == nil {
		respondError(w, http.StatusServiceUnavailable, "No TTS provider configured. Set TTS_PROVIDER and required configuration.")
		return
	}

	var req models.SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Input) == "" {
		respondError(w, http.StatusBadRequest, "Input text is required")
		return
	}

	// Set defaults
	voice := req.Voice
	if voice == "" {
		voice = "nova"
	}
	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}

	log.Printf("[TTS] Request (provider=%s, voice=%s, textLen=%d)", h.active.Name(), voice, len(req.Input))

	audio, err := h.active.Synthesize(r.Context(), req.Input, voice, speed)
	if err != nil {
		log.Printf("[TTS] Synthesis error: %v", err)
		respondProviderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", "attachment; filename=speech.wav")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

// Health handles GET /health
func (h *TTSHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "degraded"}
	if h.active != nil {
		resp.Status = "healthy"
		resp.Provider = h.active.Name()
		resp.ProviderConfigured = h.active.Configured()
	}
	respondJSON(w, http.StatusOK, resp)
}

// Providers handles GET /providers
func (h *TTSHandler) Providers(w http.ResponseWriter, r *http.Request) {
	resp := models.ProvidersResponse{
		Available: probeProviders(r.Context(), h.registry),
	}
	if h.active != nil {
		resp.Current = h.active.Name()
	}
	respondJSON(w, http.StatusOK, resp)
}

// Models handles GET /v1/models (OpenAI compatibility)
func (h *TTSHandler) Models(w http.ResponseWriter, r *http.Request) {
	ownedBy := "unknown"
	if h.active != nil {
		ownedBy = h.active.Name()
	}
	respondJSON(w, http.StatusOK, models.ModelsResponse{
		Data: []models.Model{
			{ID: "tts-1", Object: "model", OwnedBy: ownedBy},
			{ID: "tts-1-hd", Object: "model", OwnedBy: ownedBy},
		},
	})
}

// Voices handles GET /v1/voices
func (h *TTSHandler) Voices(w http.ResponseWriter, r *http.Request) {
	resp := models.VoicesResponse{Voices: []models.Voice{}}
	if h.active != nil {
		if voices := h.active.Voices(); voices != nil {
			resp.Voices = voices
		}
		resp.Provider = h.active.Name()
	}
	respondJSON(w, http.StatusOK, resp)
}
