package services

import (
	"context"

	"github.com/voxrelay/voxrelay/internal/models"
)

// ---------------------------------------------------------------------------
// TTSProvider — common interface for text-to-speech backends
// Both Piper (local subprocess) and Kokoro (Replicate prediction API)
// implement this interface so the HTTP front can use whichever is configured
// without knowing the underlying backend.
// ---------------------------------------------------------------------------

// TTSProvider is the interface every TTS backend must implement.
type TTSProvider interface {
	// Name returns a human-readable provider identity for logging and the
	// health endpoint. It may embed the active model or voice.
	Name() string

	// Configured reports whether the provider has everything it needs to
	// serve requests (credential present, executable on PATH). It must be
	// cheap and must never perform network I/O.
	Configured() bool

	// Voices returns the provider's voice catalog. An empty catalog is not
	// an error.
	Voices() []models.Voice

	// Synthesize converts text to WAV audio. voice is an OpenAI-style voice
	// name; each provider owns its mapping to backend voice identifiers.
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error)
}
