// Package provider contains the external completion and image-generation
// clients plus the multi-model fallback invoker that sits in front of them.
//
// A Completer executes one chat completion against one model identifier.
// Fallback walks an ordered model list and returns the first success; see
// fallback.go. Concrete clients live in openai.go (hand-written REST client
// for OpenAI-compatible APIs), gemini.go (Google generative-ai SDK), and
// images.go (asynchronous image jobs with a cancellable poller).
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

// Request is a provider-agnostic completion request. Messages carry the full
// conversation including any system prompt; temperature and max tokens are
// passed through when the backend supports them.
type Request struct {
	Messages    []domain.ChatMessage
	Temperature float64
	MaxTokens   int
	// JSONMode hints the provider to emit a JSON object response where the
	// backend supports a response-format parameter.
	JSONMode bool
}

// Completer executes a single completion against one model identifier and
// returns the raw text of the reply. Implementations must honor ctx for
// cancellation and must not retry internally; retry policy belongs to the
// Fallback invoker.
//
// A success with empty or malformed content is still a success here:
// validating content is the extractor's job, not the transport's.
type Completer interface {
	Complete(ctx context.Context, model string, req Request) (string, error)
}

// APIError is a non-2xx response from a provider HTTP API.
type APIError struct {
	Status  int
	Type    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("provider: HTTP %d %s: %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("provider: HTTP %d: %s", e.Status, e.Message)
}

// Transient reports whether the failure class is worth retrying on another
// model: rate limiting (429) and server-side availability errors (5xx).
// Other 4xx responses indicate a bad request and retrying would not help.
func (e *APIError) Transient() bool {
	return e.Status == 429 || e.Status >= 500
}

// IsTransient classifies an error for the fallback loop. API errors answer
// for themselves; context cancellation is never transient (the caller asked
// to stop); everything else (DNS failures, connection resets, timeouts from
// the transport) is treated as transient.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return true
}
