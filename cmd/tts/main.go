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
	log.Println("Starting TTS adapter...")

	cfg := config.Load()

	registry := services.NewRegistry(map[string]services.TTSProvider{
		"piper":  services.NewPiperProvider(cfg.PiperVoicesDir, cfg.PiperDefaultVoice),
		"kokoro": services.NewKokoroProvider(cfg.ReplicateAPIToken, cfg.KokoroVersion, cfg.KokoroDefaultVoice),
	})

	// A failed selection degrades health instead of aborting: the service
	// keeps serving so /health and /providers can report what is wrong.
	active, err := registry.Select(cfg.TTSProvider)
	if err != nil {
		log.Printf("Failed to initialize TTS provider: %v (serving degraded)", err)
	} else {
		log.Printf("Using TTS provider: %s", active.Name())
	}

	handler := api.NewTTSHandler(registry, active)
	router := api.NewTTSRouter(handler, api.RouterConfig{
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	server := &http.Server{
		Addr:    ":" + cfg.TTSPort,
		Handler: router,
	}

	go func() {
		log.Printf("TTS adapter listening on :%s", cfg.TTSPort)
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
