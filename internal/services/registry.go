package services

import (
	"fmt"
	"sort"
	"strings"
)

// Provider is the capability subset shared by TTS and STT backends, enough
// for registry lookup and the providers listing.
type Provider interface {
	Name() string
	Configured() bool
}

// Registry holds every known backend for one service, keyed by its
// lower-case identifier. Selection happens once at startup; the registry
// itself stays around so the providers endpoint can report the configured
// status of every backend, not just the active one.
type Registry[P Provider] struct {
	providers map[string]P
}

func NewRegistry[P Provider](providers map[string]P) *Registry[P] {
	return &Registry[P]{providers: providers}
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry[P]) IDs() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every registered provider keyed by identifier.
func (r *Registry[P]) All() map[string]P {
	return r.providers
}

// Select resolves a backend identifier (case-insensitive) to its provider.
// Unknown identifiers and providers missing their configuration both fail
// with a typed error; the caller is expected to keep serving in a degraded
// state rather than exit.
func (r *Registry[P]) Select(id string) (P, error) {
	var zero P

	p, ok := r.providers[strings.ToLower(id)]
	if !ok {
		return zero, &ProviderError{
			Kind:    FailUnknownProvider,
			Message: fmt.Sprintf("unknown provider %q, available: %s", id, strings.Join(r.IDs(), ", ")),
		}
	}

	if !p.Configured() {
		return zero, &ProviderError{
			Kind:    FailNotConfigured,
			Message: fmt.Sprintf("provider %q is not configured, check its credentials", id),
		}
	}

	return p, nil
}
