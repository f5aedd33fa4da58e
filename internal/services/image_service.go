// Package services – ImageService
//
// Generates an image for a recipe via the asynchronous image-job client and
// persists the result keyed by recipe name for later retrieval.
package services

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

// ImageGenerator is the asynchronous image-generation contract.
// *provider.ImageClient satisfies it.
type ImageGenerator interface {
	Generate(ctx context.Context, model, prompt string) (*domain.Image, error)
}

// ImageService composes image prompts and persists generated images.
type ImageService struct {
	Generator ImageGenerator
	Store     Store
	Recipes   *RecipeService

	Model string
}

// Generate produces an image for the named recipe. When prompt is empty, a
// default prompt is derived from the recipe itself.
func (s *ImageService) Generate(ctx context.Context, session, recipeName, prompt string) (*domain.Image, error) {
	tr := otel.Tracer("services/ImageService")
	ctx, span := tr.Start(ctx, "Generate",
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

	if strings.TrimSpace(prompt) == "" {
		prompt = "A professional food photograph of " + recipe.Name
		if recipe.Description != "" {
			prompt += ": " + recipe.Description
		}
	}

	img, err := s.Generator.Generate(ctx, s.Model, prompt)
	if err != nil {
		return nil, err
	}
	img.RecipeName = recipe.Name

	if blob, err := json.Marshal(img); err == nil {
		s.Store.Put(ctx, session, domain.KindImage, recipe.Name, string(blob))
	}
	return img, nil
}

// Get loads a previously generated image for the recipe.
func (s *ImageService) Get(ctx context.Context, session, recipeName string) (*domain.Image, bool) {
	raw, ok := s.Store.Get(ctx, session, domain.KindImage, recipeName)
	if !ok {
		return nil, false
	}
	var img domain.Image
	if err := json.Unmarshal([]byte(raw), &img); err != nil {
		return nil, false
	}
	return &img, true
}
