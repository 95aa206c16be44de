package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voxrelay/voxrelay/internal/models"
	"github.com/voxrelay/voxrelay/internal/services"
)

type fakeSTT struct {
	name       string
	configured bool
	text       string
	err        error

	calls        int
	lastFilename string
	lastType     string
	lastAudio    []byte
}

func (f *fakeSTT) Name() string     { return f.name }
func (f *fakeSTT) Configured() bool { return f.configured }

func (f *fakeSTT) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	f.calls++
	f.lastAudio = audio
	f.lastFilename = filename
	f.lastType = contentType
	return f.text, f.err
}

func newSTTTestServer(t *testing.T, active services.STTProvider, providers map[string]services.STTProvider) *httptest.Server {
	t.Helper()
	h := NewSTTHandler(services.NewRegistry(providers), active)
	server := httptest.NewServer(NewSTTRouter(h, RouterConfig{}))
	t.Cleanup(server.Close)
	return server
}

// uploadAudio posts a multipart file to the transcription endpoint.
func uploadAudio(t *testing.T, url string, audio []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "clip.wav")
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	if _, err := part.Write(audio); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	writer.Close()

	resp, err := http.Post(url+"/v1/audio/transcriptions", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestCreateTranscription(t *testing.T) {
	fake := &fakeSTT{name: "Fake", configured: true, text: "hello world"}
	server := newSTTTestServer(t, fake, map[string]services.STTProvider{"fake": fake})

	resp := uploadAudio(t, server.URL, []byte("audio-bytes"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result models.TranscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Text != "hello world" {
		t.Errorf("expected transcript, got %q", result.Text)
	}

	if string(fake.lastAudio) != "audio-bytes" {
		t.Errorf("provider received wrong audio: %q", fake.lastAudio)
	}
	if fake.lastFilename != "clip.wav" {
		t.Errorf("provider received wrong filename: %q", fake.lastFilename)
	}
}

func TestCreateTranscriptionMissingFile(t *testing.T) {
	fake := &fakeSTT{name: "Fake", configured: true}
	server := newSTTTestServer(t, fake, map[string]services.STTProvider{"fake": fake})

	resp, err := http.Post(server.URL+"/v1/audio/transcriptions", "application/json", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if fake.calls != 0 {
		t.Errorf("provider must not be invoked without a file, got %d calls", fake.calls)
	}
}

func TestCreateTranscriptionNoProvider(t *testing.T) {
	fake := &fakeSTT{name: "Fake", configured: false}
	server := newSTTTestServer(t, nil, map[string]services.STTProvider{"fake": fake})

	resp := uploadAudio(t, server.URL, []byte("audio"))
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}
}

func TestCreateTranscriptionProviderErrorMapping(t *testing.T) {
	fake := &fakeSTT{
		name:       "Fake",
		configured: true,
		err:        &services.ProviderError{Kind: services.FailUpstream, Status: 413, Message: "payload too large"},
	}
	server := newSTTTestServer(t, fake, map[string]services.STTProvider{"fake": fake})

	resp := uploadAudio(t, server.URL, []byte("audio"))
	defer resp.Body.Close()

	if resp.StatusCode != 413 {
		t.Errorf("expected upstream status passthrough 413, got %d", resp.StatusCode)
	}
}

func TestSTTProvidersListsEveryBackend(t *testing.T) {
	active := &fakeSTT{name: "Active", configured: true}
	other := &fakeSTT{name: "Other", configured: false}
	server := newSTTTestServer(t, active, map[string]services.STTProvider{
		"active": active,
		"other":  other,
	})

	resp, err := http.Get(server.URL + "/providers")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var listing models.ProvidersResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("failed to decode providers: %v", err)
	}
	if listing.Current != "Active" {
		t.Errorf("expected current Active, got %q", listing.Current)
	}
	if len(listing.Available) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(listing.Available))
	}
	if !listing.Available["active"].Configured || listing.Available["other"].Configured {
		t.Errorf("unexpected configured flags: %+v", listing.Available)
	}
}

func TestSTTHealthDegraded(t *testing.T) {
	fake := &fakeSTT{name: "Fake", configured: false}
	server := newSTTTestServer(t, nil, map[string]services.STTProvider{"fake": fake})

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var health models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	if health.Status != "degraded" {
		t.Errorf("expected degraded, got %q", health.Status)
	}
}
