package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/voxrelay/voxrelay/internal/models"
	"github.com/voxrelay/voxrelay/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondProviderError maps a provider failure onto an HTTP response,
// preserving the backend's status code when the failure carries one.
func respondProviderError(w http.ResponseWriter, err error) {
	var perr *services.ProviderError
	if errors.As(err, &perr) {
		status := http.StatusInternalServerError
		if perr.Status >= 400 {
			status = perr.Status
		}
		respondError(w, status, perr.Message)
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}

// probeProviders checks the configured status of every registered backend.
// Probes run concurrently: most are env-var presence checks, but the local
// subprocess provider scans PATH and there is no reason to serialize it.
func probeProviders[P services.Provider](ctx context.Context, registry *services.Registry[P]) map[string]models.ProviderStatus {
	ids := registry.IDs()
	all := registry.All()

	statuses := make([]models.ProviderStatus, len(ids))
	g, _ := errgroup.WithContext(ctx)
	for i, id := range ids {
		p := all[id]
		g.Go(func() error {
			statuses[i] = models.ProviderStatus{Name: p.Name(), Configured: p.Configured()}
			return nil
		})
	}
	_ = g.Wait()

	available := make(map[string]models.ProviderStatus, len(ids))
	for i, id := range ids {
		available[id] = statuses[i]
	}
	return available
}
