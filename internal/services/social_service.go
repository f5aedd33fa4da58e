// Package services – SocialService
//
// Composes a social post for a stored recipe. The provider is asked for a
// fenced JSON object (post, hashtags, image_prompt), parsed by the
// JSON-block extractor, and persisted keyed by recipe name.
package services

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/extract"
	"github.com/plateful/go-recipe-backend/internal/provider"
)

// SocialService composes social posts for stored recipes.
type SocialService struct {
	Invoker Invoker
	Store   Store
	Recipes *RecipeService

	Models      []string
	Temperature float64
	MaxTokens   int
}

// Compose generates and persists a social post for the named recipe.
func (s *SocialService) Compose(ctx context.Context, session, recipeName string) (*domain.SocialPost, error) {
	tr := otel.Tracer("services/SocialService")
	ctx, span := tr.Start(ctx, "Compose",
		trace.WithAttributes(
			attribute.String("session.id", session),
			attribute.String("recipe.name", recipeName),
		),
	)
	defer span.End()

	recipe, err := s.Recipes.Get(ctx, session, recipeName)
	if err != nil {
		return nil, err
	}

	raw, err := s.Invoker.Complete(ctx, s.Models, provider.Request{
		Messages:    socialPrompt(recipe),
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	post, err := extract.SocialPost(raw)
	if err != nil {
		return nil, err
	}

	if blob, err := json.Marshal(post); err == nil {
		s.Store.Put(ctx, session, domain.KindSocialPost, recipe.Name, string(blob))
	}
	return post, nil
}
