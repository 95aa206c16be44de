package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/voxrelay/voxrelay/internal/models"
)

// ---------------------------------------------------------------------------
// Replicate Kokoro Text-to-Speech Provider
// Uses the Replicate predictions API with the Kokoro-82M model.
// Follows a deferred request pattern: submit prediction → poll by id → download.
// ---------------------------------------------------------------------------

const (
	replicateBaseURL   = "https://api.replicate.com/v1"
	kokoroPollInterval = 500 * time.Millisecond
)

// kokoroVoices is the model's known voice set. Any resolved voice outside
// this set is replaced by the configured default, never rejected.
var kokoroVoices = []string{
	// American Female
	"af_alloy", "af_aoede", "af_bella", "af_heart", "af_jessica",
	"af_kore", "af_nicole", "af_nova", "af_river", "af_sarah", "af_sky",
	// American Male
	"am_adam", "am_echo", "am_eric", "am_fenrir", "am_liam",
	"am_michael", "am_onyx", "am_puck", "am_santa",
	// British Female
	"bf_alice", "bf_emma", "bf_isabella", "bf_lily",
	// British Male
	"bm_daniel", "bm_fable", "bm_george", "bm_lewis",
	// French Female
	"ff_siwis",
	// Hindi
	"hf_alpha", "hf_beta", "hm_omega", "hm_psi",
	// Italian
	"if_sara", "im_nicola",
	// Japanese
	"jf_alpha", "jf_gongitsune", "jm_kumo",
	// Portuguese
	"pf_dora", "pm_alex", "pm_santa",
	// Chinese
	"zf_xiaobei", "zf_xiaoni", "zf_xiaoxiao", "zf_xiaoyi",
	"zm_yunjian", "zm_yunxi", "zm_yunxia", "zm_yunyang",
}

// KokoroProvider synthesizes speech via Replicate's Kokoro-82M model.
type KokoroProvider struct {
	apiToken     string
	version      string
	defaultVoice string
	baseURL      string
	pollInterval time.Duration
	client       *http.Client
	voiceMap     map[string]string
	knownVoices  map[string]bool
}

// Ensure KokoroProvider implements TTSProvider at compile time.
var _ TTSProvider = (*KokoroProvider)(nil)

// NewKokoroProvider creates a Kokoro provider pinned to a model version.
func NewKokoroProvider(apiToken, version, defaultVoice string) *KokoroProvider {
	if defaultVoice == "" {
		defaultVoice = "af_bella"
	}

	known := make(map[string]bool, len(kokoroVoices))
	for _, v := range kokoroVoices {
		known[v] = true
	}

	return &KokoroProvider{
		apiToken:     apiToken,
		version:      version,
		defaultVoice: defaultVoice,
		baseURL:      replicateBaseURL,
		pollInterval: kokoroPollInterval,
		client:       &http.Client{Timeout: 120 * time.Second},
		// Map OpenAI voices to Kokoro voices
		voiceMap: map[string]string{
			"alloy":   "af_alloy",
			"echo":    "am_echo",
			"fable":   "bf_emma",
			"onyx":    "am_onyx",
			"nova":    "af_nova",
			"shimmer": "af_bella",
		},
		knownVoices: known,
	}
}

func (k *KokoroProvider) Name() string {
	return fmt.Sprintf("Replicate Kokoro (%s)", k.defaultVoice)
}

func (k *KokoroProvider) Configured() bool {
	return k.apiToken != ""
}

func (k *KokoroProvider) Voices() []models.Voice {
	voices := make([]models.Voice, 0, len(kokoroVoices))
	for _, v := range kokoroVoices {
		voices = append(voices, models.Voice{ID: v, Name: v, Provider: "kokoro"})
	}
	return voices
}

// resolveVoice maps an OpenAI voice name to a Kokoro voice, substituting the
// default voice for anything outside the model's known set.
func (k *KokoroProvider) resolveVoice(voice string) string {
	resolved, ok := k.voiceMap[strings.ToLower(voice)]
	if !ok {
		resolved = voice
	}
	if !k.knownVoices[resolved] {
		resolved = k.defaultVoice
	}
	return resolved
}

// ---------------------------------------------------------------------------
// Request / Response types
// ---------------------------------------------------------------------------

// predictionRequest is the body for POST /v1/predictions
type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// predictionStatus is the response from both the create and poll calls.
type predictionStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "starting", "processing", "succeeded", "failed", "canceled"
	Output string `json:"output"` // audio URL, present once succeeded
	Error  string `json:"error"`
}

// Synthesize submits a prediction, polls it on a fixed interval until it
// reaches a terminal status, then downloads the resulting audio.
//
// The poll loop has no attempt cap: the outer HTTP client timeout (120s) and
// context cancellation are the only bounds.
func (k *KokoroProvider) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	start := time.Now()

	kokoroVoice := k.resolveVoice(voice)

	log.Printf("[Kokoro] Synthesizing (voice=%s, speed=%.2f, textLen=%d)", kokoroVoice, speed, len(text))

	// Step 1: Submit the prediction
	prediction, err := k.submitPrediction(ctx, predictionRequest{
		Version: k.version,
		Input:   predictionInput{Text: text, Voice: kokoroVoice, Speed: speed},
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Kokoro] Created prediction: %s", prediction.ID)

	// Step 2: Poll until a terminal status
	pollCount := 0
	for {
		result, err := k.getPrediction(ctx, prediction.ID)
		if err != nil {
			return nil, err
		}
		pollCount++

		switch result.Status {
		case "succeeded":
			log.Printf("[Kokoro] Prediction done (%.2fs, %d polls)", time.Since(start).Seconds(), pollCount)

			// Step 3: Download the audio from the output URL
			return k.downloadAudio(ctx, result.Output)

		case "failed":
			msg := result.Error
			if msg == "" {
				msg = "unknown error"
			}
			return nil, &ProviderError{Kind: FailSynthesis, Message: msg}

		case "canceled":
			return nil, &ProviderError{Kind: FailSynthesisCanceled, Message: "prediction was canceled"}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("synthesis cancelled while polling: %w", ctx.Err())
		case <-time.After(k.pollInterval):
		}
	}
}

func (k *KokoroProvider) submitPrediction(ctx context.Context, body predictionRequest) (*predictionStatus, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", k.baseURL+"/predictions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+k.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, upstreamError(resp.StatusCode, string(respBody))
	}

	var prediction predictionStatus
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}
	return &prediction, nil
}

func (k *KokoroProvider) getPrediction(ctx context.Context, id string) (*predictionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", k.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+k.apiToken)

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate poll failed: %w", err)
	}
	defer resp.Body.Close()

	var result predictionStatus
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode poll response: %w", err)
	}
	return &result, nil
}

func (k *KokoroProvider) downloadAudio(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Kind:    FailDownload,
			Message: fmt.Sprintf("failed to download audio (status %d)", resp.StatusCode),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}

	log.Printf("[Kokoro] Downloaded %d bytes", len(audio))

	return audio, nil
}
