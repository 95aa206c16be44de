package services

import "fmt"

// FailureKind classifies provider failures so the HTTP layer can map them
// to responses without parsing error strings.
type FailureKind string

const (
	FailUnknownProvider   FailureKind = "unknown_provider"
	FailNotConfigured     FailureKind = "provider_not_configured"
	FailSynthesis         FailureKind = "synthesis_failed"
	FailSynthesisCanceled FailureKind = "synthesis_canceled"
	FailTranscription     FailureKind = "transcription_failed"
	FailDownload          FailureKind = "download_failed"
	FailUpstream          FailureKind = "upstream_error"
)

// ProviderError is the typed failure every provider raises. Status carries
// the backend's HTTP status code when the failure is a verbatim passthrough
// of a backend response; it is 0 otherwise.
type ProviderError struct {
	Kind    FailureKind
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// upstreamError wraps a non-success backend response, preserving its status
// code and body so the HTTP front can pass them through losslessly.
func upstreamError(status int, body string) *ProviderError {
	return &ProviderError{Kind: FailUpstream, Status: status, Message: body}
}
