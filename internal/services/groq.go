package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ---------------------------------------------------------------------------
// Groq Speech-to-Text Provider
// Groq exposes an OpenAI-compatible transcription endpoint, so this provider
// drives the OpenAI client against the Groq base URL.
// ---------------------------------------------------------------------------

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqProvider transcribes audio with Groq's hosted Whisper models.
type GroqProvider struct {
	apiKey string
	model  string
	client *openai.Client
}

// Ensure GroqProvider implements STTProvider at compile time.
var _ STTProvider = (*GroqProvider)(nil)

// NewGroqProvider creates a Groq provider. baseURL overrides the Groq API
// endpoint when non-empty (used by tests).
func NewGroqProvider(apiKey, model, baseURL string) *GroqProvider {
	if model == "" {
		model = "whisper-large-v3-turbo"
	}
	if baseURL == "" {
		baseURL = groqBaseURL
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &GroqProvider{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

func (g *GroqProvider) Name() string {
	return fmt.Sprintf("Groq (%s)", g.model)
}

func (g *GroqProvider) Configured() bool {
	return g.apiKey != ""
}

// Transcribe posts the audio in a single request and returns the transcript.
// Backend error responses are passed through with their original status code.
func (g *GroqProvider) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	start := time.Now()

	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    g.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: "en",
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", upstreamError(apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("groq request failed: %w", err)
	}

	log.Printf("[Groq] Transcribed %d bytes in %.2fs", len(audio), time.Since(start).Seconds())

	return resp.Text, nil
}
