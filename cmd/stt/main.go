package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voxrelay/voxrelay/internal/api"
	"github.com/voxrelay/voxrelay/internal/config"
	"github.com/voxrelay/voxrelay/internal/services"
)

func main() {
	log.Println("Starting STT adapter...")

	cfg := config.Load()

	registry := services.NewRegistry(map[string]services.STTProvider{
		"groq":     services.NewGroqProvider(cfg.GroqAPIKey, cfg.GroqSTTModel, ""),
		"revai":    services.NewRevAIProvider(cfg.RevAIAccessToken),
		"deepgram": services.NewDeepgramProvider(cfg.DeepgramAPIKey),
		"gemini":   services.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiSTTModel),
	})

	// A failed selection degrades health instead of aborting: the service
	// keeps serving so /health and /providers can report what is wrong.
	active, err := registry.Select(cfg.STTProvider)
	if err != nil {
		log.Printf("Failed to initialize STT provider: %v (serving degraded)", err)
	} else {
		log.Printf("Using STT provider: %s", active.Name())
	}

	handler := api.NewSTTHandler(registry, active)
	router := api.NewSTTRouter(handler, api.RouterConfig{
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	server := &http.Server{
		Addr:    ":" + cfg.STTPort,
		Handler: router,
	}

	go func() {
		log.Printf("STT adapter listening on :%s", cfg.STTPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
