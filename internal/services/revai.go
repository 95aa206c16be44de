package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Rev.ai Speech-to-Text Provider
// Batch transcription API: upload creates a job, the job is polled until it
// reaches "transcribed", then the structured transcript is fetched and
// flattened to plain text.
// ---------------------------------------------------------------------------

const (
	revAIBaseURL          = "https://api.rev.ai/speechtotext/v1"
	revAIPollInterval     = 1 * time.Second
	revAITranscriptAccept = "application/vnd.rev.transcript.v1.0+json"
)

// RevAIProvider transcribes audio via Rev.ai's asynchronous job API.
type RevAIProvider struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	client       *http.Client
}

// Ensure RevAIProvider implements STTProvider at compile time.
var _ STTProvider = (*RevAIProvider)(nil)

func NewRevAIProvider(apiKey string) *RevAIProvider {
	return &RevAIProvider{
		apiKey:       apiKey,
		baseURL:      revAIBaseURL,
		pollInterval: revAIPollInterval,
		client:       &http.Client{Timeout: 120 * time.Second},
	}
}

func (r *RevAIProvider) Name() string {
	return "Rev.ai"
}

func (r *RevAIProvider) Configured() bool {
	return r.apiKey != ""
}

// revAIJob is the response from job creation and polling.
type revAIJob struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "in_progress", "transcribed", "failed"
}

// revAITranscript is the structured transcript shape: utterance segments
// ("monologues") containing typed elements. Only text elements carry words;
// the rest are punctuation and timing markers.
type revAITranscript struct {
	Monologues []struct {
		Elements []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"elements"`
	} `json:"monologues"`
}

// Transcribe submits a transcription job, polls it on a fixed interval until
// it terminates, then fetches and flattens the transcript.
//
// The poll loop has no attempt cap: the outer HTTP client timeout (120s) and
// context cancellation are the only bounds.
func (r *RevAIProvider) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	start := time.Now()

	jobID, err := r.submitJob(ctx, audio, filename, contentType)
	if err != nil {
		return "", err
	}

	log.Printf("[Rev.ai] Created job: %s", jobID)

	pollCount := 0
	for {
		job, err := r.getJob(ctx, jobID)
		if err != nil {
			return "", err
		}
		pollCount++

		switch job.Status {
		case "transcribed":
			log.Printf("[Rev.ai] Job transcribed (%.2fs, %d polls)", time.Since(start).Seconds(), pollCount)
			return r.fetchTranscript(ctx, jobID)

		case "failed":
			return "", &ProviderError{Kind: FailTranscription, Message: "rev.ai transcription failed"}
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription cancelled while polling: %w", ctx.Err())
		case <-time.After(r.pollInterval):
		}
	}
}

// submitJob uploads the audio as a multipart job with fixed transcription
// options: English, single speaker, disfluencies and atmospherics removed.
func (r *RevAIProvider) submitJob(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("media", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create media part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write media part: %w", err)
	}

	fields := map[string]string{
		"transcriber":         "low_cost",
		"language":            "en",
		"skip_punctuation":    "false",
		"filter_profanity":    "false",
		"remove_disfluencies": "true",
		"remove_atmospherics": "true",
		"speakers_count":      "1",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/jobs", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create job request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("rev.ai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", upstreamError(resp.StatusCode, string(respBody))
	}

	var job revAIJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("failed to decode job response: %w", err)
	}
	if job.ID == "" {
		return "", &ProviderError{Kind: FailTranscription, Message: "rev.ai returned no job id"}
	}
	return job.ID, nil
}

func (r *RevAIProvider) getJob(ctx context.Context, jobID string) (*revAIJob, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rev.ai poll failed: %w", err)
	}
	defer resp.Body.Close()

	var job revAIJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode poll response: %w", err)
	}
	return &job, nil
}

// fetchTranscript retrieves the structured transcript and rebuilds plain text
// by concatenating every text element across every monologue, in order,
// separated by single spaces.
func (r *RevAIProvider) fetchTranscript(ctx context.Context, jobID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+"/jobs/"+jobID+"/transcript", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", revAITranscriptAccept)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{
			Kind:    FailDownload,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to fetch transcript: %s", string(respBody)),
		}
	}

	var transcript revAITranscript
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return "", fmt.Errorf("failed to decode transcript: %w", err)
	}

	var words []string
	for _, monologue := range transcript.Monologues {
		for _, element := range monologue.Elements {
			if element.Type == "text" {
				words = append(words, element.Value)
			}
		}
	}
	return strings.Join(words, " "), nil
}
