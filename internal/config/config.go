package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	TTSPort            string
	STTPort            string
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Active backend per service
	TTSProvider string
	STTProvider string

	// Piper (local subprocess TTS)
	PiperVoicesDir    string
	PiperDefaultVoice string

	// Replicate Kokoro (remote async TTS)
	ReplicateAPIToken  string
	KokoroVersion      string
	KokoroDefaultVoice string

	// Groq (OpenAI-compatible sync STT)
	GroqAPIKey   string
	GroqSTTModel string

	// Rev.ai (async job STT)
	RevAIAccessToken string

	// Deepgram (sync STT)
	DeepgramAPIKey string

	// Gemini (multimodal sync STT)
	GeminiAPIKey   string
	GeminiSTTModel string
}

// Load reads configuration from the environment. No variable is required:
// a missing credential leaves its provider unconfigured, which surfaces as
// degraded health rather than a startup failure.
func Load() *Config {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	return &Config{
		TTSPort:            getEnv("TTS_PORT", "8080"),
		STTPort:            getEnv("STT_PORT", "8081"),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		TTSProvider:        getEnv("TTS_PROVIDER", "piper"),
		STTProvider:        getEnv("STT_PROVIDER", "groq"),
		PiperVoicesDir:     getEnv("PIPER_VOICES_DIR", "/app/voices"),
		PiperDefaultVoice:  getEnv("PIPER_DEFAULT_VOICE", "en_US-lessac-medium"),
		ReplicateAPIToken:  getEnv("REPLICATE_API_TOKEN", ""),
		KokoroVersion:      getEnv("KOKORO_VERSION", "f559560eb822dc509045f3921a1921234918b91739db4bf3daab2169b71c7a13"),
		KokoroDefaultVoice: getEnv("KOKORO_DEFAULT_VOICE", "af_bella"),
		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		GroqSTTModel:       getEnv("GROQ_STT_MODEL", "whisper-large-v3-turbo"),
		RevAIAccessToken:   getEnv("REV_AI_ACCESS_TOKEN", ""),
		DeepgramAPIKey:     getEnv("DEEPGRAM_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiSTTModel:     getEnv("GEMINI_STT_MODEL", "gemini-2.0-flash"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
