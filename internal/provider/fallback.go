// Fallback invoker.
//
// Given an ordered list of model identifiers and a request, Fallback calls
// the completer with the first identifier and returns immediately on success;
// first success wins, not best success. On a transient failure it advances to
// the next identifier. When the list is exhausted it returns an
// ExhaustedError naming the models tried and wrapping the last error seen.
//
// There is no backoff, caching, or circuit breaking here: one attempt per
// model, in order. The outer retry loop (regenerating with a fresh request
// when extraction rejects an otherwise successful reply) belongs to the
// caller, not to this component.
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNoModels is returned when Complete is called with an empty model list.
var ErrNoModels = errors.New("provider: model list is empty")

// ExhaustedError reports that every model in the list failed transiently.
type ExhaustedError struct {
	Models []string
	Last   error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return "provider: all models exhausted [" + strings.Join(e.Models, ", ") + "]: " + e.Last.Error()
}

// Unwrap exposes the last observed error for errors.Is/As.
func (e *ExhaustedError) Unwrap() error { return e.Last }

// Fallback tries an ordered list of models against a single completer.
type Fallback struct {
	completer Completer
}

// NewFallback constructs a Fallback over the given completer.
func NewFallback(c Completer) *Fallback {
	return &Fallback{completer: c}
}

// Complete runs the fallback loop. It returns the first successful raw reply,
// an ExhaustedError when all models failed transiently, or the first
// non-transient error (bad request, cancellation) immediately.
func (f *Fallback) Complete(ctx context.Context, models []string, req Request) (string, error) {
	if len(models) == 0 {
		return "", ErrNoModels
	}

	var last error
	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		raw, err := f.completer.Complete(ctx, model, req)
		if err == nil {
			return raw, nil
		}
		if !IsTransient(err) {
			return "", err
		}

		log.Warn().Str("model", model).Err(err).Msg("model attempt failed, advancing")
		last = err
	}

	return "", &ExhaustedError{Models: models, Last: last}
}
