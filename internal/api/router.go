package api

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds settings for the API routers.
// Passed from main so the routers can configure CORS from env vars.
type RouterConfig struct {
	// CorsAllowedOrigins is a comma-separated list of allowed origins.
	// If empty, defaults to "*" (development mode).
	CorsAllowedOrigins string
}

// newBaseRouter builds a chi router with the middleware and CORS settings
// shared by both adapter services.
func newBaseRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// CORS: restrict origins when configured, otherwise allow all (dev mode)
	allowedOrigins := []string{"*"}
	if cfg.CorsAllowedOrigins != "" {
		origins := strings.Split(cfg.CorsAllowedOrigins, ",")
		trimmed := make([]string, 0, len(origins))
		for _, o := range origins {
			if s := strings.TrimSpace(o); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			allowedOrigins = trimmed
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	return r
}

// NewTTSRouter wires the text-to-speech service routes.
func NewTTSRouter(h *TTSHandler, cfg RouterConfig) *chi.Mux {
	r := newBaseRouter(cfg)

	r.Get("/health", h.Health)
	r.Get("/providers", h.Providers)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/audio/speech", h.CreateSpeech)
		r.Get("/models", h.Models)
		r.Get("/voices", h.Voices)
	})

	return r
}

// NewSTTRouter wires the speech-to-text service routes.
func NewSTTRouter(h *STTHandler, cfg RouterConfig) *chi.Mux {
	r := newBaseRouter(cfg)

	r.Get("/health", h.Health)
	r.Get("/providers", h.Providers)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/audio/transcriptions", h.CreateTranscription)
	})

	return r
}
