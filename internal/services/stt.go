package services

import "context"

// ---------------------------------------------------------------------------
// STTProvider — common interface for speech-to-text backends
// Groq, Rev.ai, Deepgram and Gemini all implement this interface.
// ---------------------------------------------------------------------------

// STTProvider is the interface every STT backend must implement.
type STTProvider interface {
	// Name returns a human-readable provider identity for logging and the
	// health endpoint. It may embed the active model.
	Name() string

	// Configured reports whether the provider's credential is present.
	// It must be cheap and must never perform network I/O.
	Configured() bool

	// Transcribe converts audio bytes to text. filename and contentType come
	// from the multipart upload and are forwarded to backends that need them.
	Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error)
}
