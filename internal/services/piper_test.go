package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStubPiper writes a shell script that mimics the piper CLI: it drains
// stdin, finds the --output_file argument and writes fake WAV bytes there.
func writeStubPiper(t *testing.T, dir string, exitCode int) string {
	t.Helper()

	script := `#!/bin/sh
cat > /dev/null
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_file" ]; then
    out="$2"
  fi
  shift
done
if [ ` + "\"$out\"" + ` != "" ]; then
  printf 'RIFFfake-wav' > "$out"
fi
`
	if exitCode != 0 {
		script = `#!/bin/sh
cat > /dev/null
echo "voice model not found" >&2
exit 1
`
	}

	path := filepath.Join(dir, "piper")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub piper: %v", err)
	}
	return path
}

func TestPiperVoiceMapping(t *testing.T) {
	p := NewPiperProvider("/voices", "")

	// Mapped OpenAI voice resolves to the Piper model
	path, voice := p.resolveVoice("nova")
	if voice != "en_US-lessac-medium" {
		t.Errorf("expected en_US-lessac-medium, got %s", voice)
	}
	if path != filepath.Join("/voices", "en_US-lessac-medium.onnx") {
		t.Errorf("unexpected model path: %s", path)
	}

	// Mapping is case-insensitive
	_, voice = p.resolveVoice("NOVA")
	if voice != "en_US-lessac-medium" {
		t.Errorf("expected en_US-lessac-medium, got %s", voice)
	}

	// Unmapped names pass through unchanged
	_, voice = p.resolveVoice("de_DE-thorsten-high")
	if voice != "de_DE-thorsten-high" {
		t.Errorf("expected passthrough, got %s", voice)
	}
}

func TestPiperVoicesMissingDir(t *testing.T) {
	p := NewPiperProvider(filepath.Join(t.TempDir(), "does-not-exist"), "")

	voices := p.Voices()
	if len(voices) != 0 {
		t.Errorf("expected empty catalog for missing dir, got %d voices", len(voices))
	}
}

func TestPiperVoicesListing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"en_US-lessac-medium.onnx", "en_GB-alba-medium.onnx", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("model"), 0o644); err != nil {
			t.Fatalf("failed to seed voices dir: %v", err)
		}
	}

	p := NewPiperProvider(dir, "")
	voices := p.Voices()
	if len(voices) != 2 {
		t.Fatalf("expected 2 voices, got %d", len(voices))
	}
	for _, v := range voices {
		if strings.HasSuffix(v.ID, ".onnx") {
			t.Errorf("voice id should not keep the extension: %s", v.ID)
		}
		if v.Provider != "piper" {
			t.Errorf("expected provider piper, got %s", v.Provider)
		}
	}
}

func TestPiperSynthesize(t *testing.T) {
	dir := t.TempDir()
	tempDir := t.TempDir()

	p := NewPiperProvider(dir, "")
	p.executable = writeStubPiper(t, dir, 0)
	p.tempDir = tempDir

	audio, err := p.Synthesize(context.Background(), "hello world", "nova", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "RIFFfake-wav" {
		t.Errorf("unexpected audio bytes: %q", audio)
	}

	// The temp file must be gone after a successful call
	leftovers, _ := filepath.Glob(filepath.Join(tempDir, "piper-*.wav"))
	if len(leftovers) != 0 {
		t.Errorf("expected no leftover temp files, found %v", leftovers)
	}
}

func TestPiperSynthesizeFailure(t *testing.T) {
	dir := t.TempDir()
	tempDir := t.TempDir()

	p := NewPiperProvider(dir, "")
	p.executable = writeStubPiper(t, dir, 1)
	p.tempDir = tempDir

	_, err := p.Synthesize(context.Background(), "hello world", "nova", 1.0)
	if err == nil {
		t.Fatal("expected error from failing subprocess")
	}

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if perr.Kind != FailSynthesis {
		t.Errorf("expected kind %s, got %s", FailSynthesis, perr.Kind)
	}
	if !strings.Contains(perr.Message, "voice model not found") {
		t.Errorf("expected stderr in message, got %q", perr.Message)
	}

	// Cleanup must happen on the failure path too
	leftovers, _ := filepath.Glob(filepath.Join(tempDir, "piper-*.wav"))
	if len(leftovers) != 0 {
		t.Errorf("expected no leftover temp files, found %v", leftovers)
	}
}

func TestPiperConfiguredMissingExecutable(t *testing.T) {
	p := NewPiperProvider(t.TempDir(), "")
	p.executable = "piper-definitely-not-installed"

	if p.Configured() {
		t.Error("expected Configured to be false for missing executable")
	}
}
