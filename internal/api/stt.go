package api

import (
	"io"
	"log"
	"net/http"

	"github.com/voxrelay/voxrelay/internal/models"
	"github.com/voxrelay/voxrelay/internal/services"
)

// STTHandler serves the OpenAI-compatible speech-to-text endpoints.
// active is nil when startup selection failed; the service then serves
// degraded until restarted with corrected configuration.
type STTHandler struct {
	registry *services.Registry[services.STTProvider]
	active   services.STTProvider
}

func NewSTTHandler(registry *services.Registry[services.STTProvider], active services.STTProvider) *STTHandler {
	return &STTHandler{
		registry: registry,
		active:   active,
	}
}

// CreateTranscription handles POST /v1/audio/transcriptions
func (h *STTHandler) CreateTranscription(w http.ResponseWriter, r *http.Request) {
	if h.active == nil {
		respondError(w, http.StatusServiceUnavailable, "No STT provider configured. Set STT_PROVIDER and required API key.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	// The full upload is buffered in memory before delegating; backends
	// receive the complete payload in one call.
	audio, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read audio file")
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "audio.wav"
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/wav"
	}

	log.Printf("[STT] Request (provider=%s, file=%s, size=%d bytes)", h.active.Name(), filename, len(audio))

	text, err := h.active.Transcribe(r.Context(), audio, filename, contentType)
	if err != nil {
		log.Printf("[STT] Transcription error: %v", err)
		respondProviderError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.TranscriptionResponse{Text: text})
}

// Health handles GET /health
func (h *STTHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{Status: "degraded"}
	if h.active != nil {
		resp.Status = "healthy"
		resp.Provider = h.active.Name()
		resp.ProviderConfigured = h.active.Configured()
	}
	respondJSON(w, http.StatusOK, resp)
}

// Providers handles GET /providers
func (h *STTHandler) Providers(w http.ResponseWriter, r *http.Request) {
	resp := models.ProvidersResponse{
		Available: probeProviders(r.Context(), h.registry),
	}
	if h.active != nil {
		resp.Current = h.active.Name()
	}
	respondJSON(w, http.StatusOK, resp)
}
