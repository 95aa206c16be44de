package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ---------------------------------------------------------------------------
// Deepgram Speech-to-Text Provider
// Single synchronous POST of the raw audio body to the listen endpoint.
// ---------------------------------------------------------------------------

const deepgramBaseURL = "https://api.deepgram.com/v1"

// DeepgramProvider transcribes audio via Deepgram's prerecorded API.
type DeepgramProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Ensure DeepgramProvider implements STTProvider at compile time.
var _ STTProvider = (*DeepgramProvider)(nil)

func NewDeepgramProvider(apiKey string) *DeepgramProvider {
	return &DeepgramProvider{
		apiKey:  apiKey,
		baseURL: deepgramBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (d *DeepgramProvider) Name() string {
	return "Deepgram"
}

func (d *DeepgramProvider) Configured() bool {
	return d.apiKey != ""
}

// deepgramResponse covers the subset of Deepgram's response we read.
type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe posts the raw audio bytes and extracts the first alternative's
// transcript. An empty result is returned as an empty string, not an error.
func (d *DeepgramProvider) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	start := time.Now()

	if contentType == "" {
		contentType = "audio/wav"
	}

	url := d.baseURL + "/listen?model=nova-2&language=en"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+d.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", upstreamError(resp.StatusCode, string(respBody))
	}

	var result deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode deepgram response: %w", err)
	}

	log.Printf("[Deepgram] Transcribed %d bytes in %.2fs", len(audio), time.Since(start).Seconds())

	if len(result.Results.Channels) == 0 || len(result.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return result.Results.Channels[0].Alternatives[0].Transcript, nil
}
