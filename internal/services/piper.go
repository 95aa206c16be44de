package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voxrelay/voxrelay/internal/models"
)

// ---------------------------------------------------------------------------
// Piper Text-to-Speech Provider (local)
// Runs the piper executable as a subprocess: text is piped to stdin and the
// synthesized WAV is written to a per-request temp file.
// ---------------------------------------------------------------------------

const (
	piperExecutable = "piper"
	piperTimeout    = 120 * time.Second
)

// PiperProvider synthesizes speech with a local piper subprocess.
type PiperProvider struct {
	voicesDir    string
	defaultVoice string
	executable   string
	tempDir      string
	timeout      time.Duration
	voiceMap     map[string]string
}

// Ensure PiperProvider implements TTSProvider at compile time.
var _ TTSProvider = (*PiperProvider)(nil)

// NewPiperProvider creates a Piper provider reading voice models from voicesDir.
func NewPiperProvider(voicesDir, defaultVoice string) *PiperProvider {
	if defaultVoice == "" {
		defaultVoice = "en_US-lessac-medium"
	}
	return &PiperProvider{
		voicesDir:    voicesDir,
		defaultVoice: defaultVoice,
		executable:   piperExecutable,
		tempDir:      os.TempDir(),
		timeout:      piperTimeout,
		// Map OpenAI voices to Piper voice models
		voiceMap: map[string]string{
			"alloy":   "en_US-lessac-medium",
			"echo":    "en_US-lessac-medium",
			"fable":   "en_US-lessac-medium",
			"onyx":    "en_US-lessac-medium",
			"nova":    "en_US-lessac-medium",
			"shimmer": "en_US-lessac-medium",
		},
	}
}

func (p *PiperProvider) Name() string {
	return "Piper"
}

// Configured checks that the piper executable is discoverable on PATH.
// This is a local filesystem scan, cheap enough for health probes.
func (p *PiperProvider) Configured() bool {
	_, err := exec.LookPath(p.executable)
	return err == nil
}

// Voices scans the voices directory for .onnx models. A missing directory
// yields an empty catalog, not an error.
func (p *PiperProvider) Voices() []models.Voice {
	matches, err := filepath.Glob(filepath.Join(p.voicesDir, "*.onnx"))
	if err != nil {
		return nil
	}

	voices := make([]models.Voice, 0, len(matches))
	for _, m := range matches {
		id := strings.TrimSuffix(filepath.Base(m), ".onnx")
		voices = append(voices, models.Voice{ID: id, Name: id, Provider: "piper"})
	}
	return voices
}

// resolveVoice maps an OpenAI voice name to a Piper voice and resolves its
// model path under the voices directory. Unmapped names pass through
// unchanged so callers can address Piper voices directly.
func (p *PiperProvider) resolveVoice(voice string) (modelPath, piperVoice string) {
	if voice == "" {
		voice = p.defaultVoice
	}
	piperVoice, ok := p.voiceMap[strings.ToLower(voice)]
	if !ok {
		piperVoice = voice
	}
	return filepath.Join(p.voicesDir, piperVoice+".onnx"), piperVoice
}

// Synthesize runs piper with the resolved voice model, piping text to stdin
// and reading the WAV it writes to a temp file. The speed parameter is
// accepted for interface parity but piper has no speed control.
func (p *PiperProvider) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	start := time.Now()

	modelPath, piperVoice := p.resolveVoice(voice)

	// Fall back to the bare voice name when no model file exists, letting
	// piper resolve built-in/system voices itself.
	modelArg := modelPath
	if _, err := os.Stat(modelPath); err != nil {
		modelArg = piperVoice
	}

	log.Printf("[Piper] Synthesizing (voice=%s, textLen=%d)", piperVoice, len(text))

	tmpPath := filepath.Join(p.tempDir, fmt.Sprintf("piper-%s.wav", uuid.NewString()))
	defer os.Remove(tmpPath)

	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.executable, "--model", modelArg, "--output_file", tmpPath)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ProviderError{
			Kind:    FailSynthesis,
			Message: fmt.Sprintf("piper failed: %s", strings.TrimSpace(stderr.String())),
		}
	}

	audio, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, &ProviderError{
			Kind:    FailSynthesis,
			Message: fmt.Sprintf("piper produced no output: %v", err),
		}
	}

	log.Printf("[Piper] Speech generated (%d bytes, %.2fs)", len(audio), time.Since(start).Seconds())

	return audio, nil
}
