package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ---------------------------------------------------------------------------
// Gemini Speech-to-Text Provider
// Uses the Google Gen AI SDK: the audio is sent inline with a transcription
// instruction and the model's text response is the transcript.
// ---------------------------------------------------------------------------

const geminiTranscribePrompt = "Transcribe this audio recording. Return only the spoken words with punctuation, no commentary."

// GeminiProvider transcribes audio via Gemini's multimodal API.
type GeminiProvider struct {
	apiKey string
	model  string
}

// Ensure GeminiProvider implements STTProvider at compile time.
var _ STTProvider = (*GeminiProvider)(nil)

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{
		apiKey: apiKey,
		model:  model,
	}
}

func (g *GeminiProvider) Name() string {
	return fmt.Sprintf("Gemini (%s)", g.model)
}

func (g *GeminiProvider) Configured() bool {
	return g.apiKey != ""
}

// Transcribe sends the audio as inline bytes alongside a transcription
// instruction and returns the trimmed response text.
func (g *GeminiProvider) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	start := time.Now()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create genai client: %w", err)
	}

	if contentType == "" {
		contentType = "audio/wav"
	}

	parts := []*genai.Part{
		genai.NewPartFromText(geminiTranscribePrompt),
		genai.NewPartFromBytes(audio, contentType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", &ProviderError{
			Kind:    FailTranscription,
			Message: fmt.Sprintf("gemini transcription failed: %v", err),
		}
	}

	log.Printf("[Gemini] Transcribed %d bytes in %.2fs", len(audio), time.Since(start).Seconds())

	return strings.TrimSpace(resp.Text()), nil
}
