package provider

import (
	"context"
	"strings"
)

// Mux routes completion requests to a provider client by model name. Gemini
// model names carry a "gemini" prefix; everything else goes to the default
// (OpenAI-compatible) client. This lets a single fallback list mix model
// families.
type Mux struct {
	// Default serves all models not claimed by another family.
	Default Completer
	// Gemini serves "gemini*" models. May be nil when no key is configured,
	// in which case those models fail transiently so the fallback list moves
	// on to the next model.
	Gemini Completer
}

// Complete dispatches to the client owning the model family.
func (m *Mux) Complete(ctx context.Context, model string, req Request) (string, error) {
	if strings.HasPrefix(strings.ToLower(model), "gemini") {
		if m.Gemini == nil {
			return "", &APIError{Status: 503, Type: "unavailable", Message: "no gemini client configured"}
		}
		return m.Gemini.Complete(ctx, model, req)
	}
	return m.Default.Complete(ctx, model, req)
}
