// Package services – PairingService
//
// Generates a drink pairing (wine, beer, or cocktail) for a stored recipe
// and persists it keyed by recipe name and pairing type.
package services

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/extract"
	"github.com/plateful/go-recipe-backend/internal/provider"
)

// PairingService composes pairing prompts and persists results.
type PairingService struct {
	Invoker Invoker
	Store   Store
	Recipes *RecipeService

	Models      []string
	Temperature float64
	MaxTokens   int
}

// Generate produces a pairing for the named recipe. The recipe must already
// exist in the caller's session.
func (s *PairingService) Generate(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, error) {
	tr := otel.Tracer("services/PairingService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("session.id", session),
			attribute.String("recipe.name", recipeName),
			attribute.String("pairing.type", string(ptype)),
		),
	)
	defer span.End()

	if !domain.KnownPairingType(ptype) {
		return nil, ErrUnknownPairingType
	}
	recipe, err := s.Recipes.Get(ctx, session, recipeName)
	if err != nil {
		return nil, err
	}

	raw, err := s.Invoker.Complete(ctx, s.Models, provider.Request{
		Messages:    pairingPrompt(recipe, ptype),
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	pairing, err := extract.Pairing(raw)
	if err != nil {
		return nil, err
	}
	pairing.RecipeName = recipe.Name
	pairing.Type = ptype

	if blob, err := json.Marshal(pairing); err == nil {
		s.Store.Put(ctx, session, domain.KindPairing, pairingKey(recipe.Name, ptype), string(blob))
	}
	return pairing, nil
}

// Get loads a stored pairing for the recipe and type.
func (s *PairingService) Get(ctx context.Context, session, recipeName string, ptype domain.PairingType) (*domain.Pairing, bool) {
	raw, ok := s.Store.Get(ctx, session, domain.KindPairing, pairingKey(recipeName, ptype))
	if !ok {
		return nil, false
	}
	var pairing domain.Pairing
	if err := json.Unmarshal([]byte(raw), &pairing); err != nil {
		return nil, false
	}
	return &pairing, true
}

// pairingKey names a pairing entry within the pairing kind.
func pairingKey(recipeName string, ptype domain.PairingType) string {
	return strings.TrimSpace(recipeName) + "/" + string(ptype)
}
