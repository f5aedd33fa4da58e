// Package services – RecipeService
//
// This file implements RecipeService, which owns the recipe lifecycle:
// generation from specifications, adjustment of a stored recipe, formatting
// of uploaded text, and CRUD against the session store. Each generation is a
// composition: build prompt → fallback invoker → extractor → store.
//
// Acceptance policy: a provider reply that extracts to an invalid recipe, or
// one carrying the reserved name, triggers one full regeneration (a fresh
// request over the same model list, not a same-model retry). If the retry
// also fails the gate, the typed error is returned to the caller — never a
// placeholder recipe. The reserved name is therefore unreachable through
// every path that persists: generation, adjustment, formatting, and Save.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/extract"
	"github.com/plateful/go-recipe-backend/internal/provider"
)

// Invoker is the multi-model completion contract consumed by services.
// *provider.Fallback satisfies it.
type Invoker interface {
	Complete(ctx context.Context, models []string, req provider.Request) (string, error)
}

// Store is the session persistence contract consumed by services.
// *store.SessionStore satisfies it. All operations degrade to empty results
// on store failure; none of them return errors.
type Store interface {
	Put(ctx context.Context, session, kind, name, value string) bool
	PutAt(ctx context.Context, session, kind, name string, position int, value string) bool
	Get(ctx context.Context, session, kind, name string) (string, bool)
	Delete(ctx context.Context, session, kind, name string) bool
	List(ctx context.Context, session, kind string) []domain.SessionEntry
	ListRange(ctx context.Context, session, kind string, start, end int) []domain.SessionEntry
	DeleteAll(ctx context.Context, session string) bool
	DeleteKind(ctx context.Context, session, kind string) bool
}

// GenerateRequest carries the inputs for recipe generation.
type GenerateRequest struct {
	Specifications string
	Servings       int
}

// RecipeService coordinates recipe generation, adjustment, and persistence.
type RecipeService struct {
	Invoker Invoker
	Store   Store

	// Models is the ordered fallback list handed to the invoker.
	Models []string

	// Temperature and MaxTokens are passed through to the provider.
	Temperature float64
	MaxTokens   int

	// GenerationAttempts caps the outer regeneration loop. Values < 1
	// default to 2 (one attempt plus one full retry).
	GenerationAttempts int
}

// attempts returns the effective outer-loop bound.
func (s *RecipeService) attempts() int {
	if s.GenerationAttempts < 1 {
		return 2
	}
	return s.GenerationAttempts
}

// Generate creates a recipe from free-form specifications and persists it in
// the caller's session. It returns the typed provider or extraction error
// when no attempt produced a valid recipe.
func (s *RecipeService) Generate(ctx context.Context, session string, req GenerateRequest) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(attribute.String("session.id", session)),
	)
	defer span.End()

	spec := strings.TrimSpace(req.Specifications)
	if spec == "" {
		return nil, ErrEmptySpecification
	}

	recipe, err := s.generate(ctx, recipePrompt(spec, req.Servings))
	if err != nil {
		return nil, err
	}
	s.persist(ctx, session, recipe)
	return recipe, nil
}

// Adjust regenerates a stored recipe under the given instruction. The result
// fully replaces the stored entry; when the provider renamed the dish, the
// old entry is removed so the session never holds both versions.
func (s *RecipeService) Adjust(ctx context.Context, session, name, instruction string) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Adjust",
		trace.WithAttributes(
			attribute.String("session.id", session),
			attribute.String("recipe.name", name),
		),
	)
	defer span.End()

	prior, err := s.Get(ctx, session, name)
	if err != nil {
		return nil, err
	}

	recipe, err := s.generate(ctx, adjustPrompt(prior, instruction))
	if err != nil {
		return nil, err
	}
	if recipe.Name != prior.Name {
		s.Store.Delete(ctx, session, domain.KindRecipe, prior.Name)
	}
	s.persist(ctx, session, recipe)
	return recipe, nil
}

// Format normalizes uploaded free text into a structured recipe without
// persisting it; the upload flow decides when to save.
func (s *RecipeService) Format(ctx context.Context, rawText string) (*domain.Recipe, error) {
	tr := otel.Tracer("services/RecipeService")
	ctx, span := tr.Start(ctx, "Format")
	defer span.End()

	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptySpecification
	}
	return s.generate(ctx, formatPrompt(rawText))
}

// generate runs the outer retry loop: invoke the fallback list, extract, and
// regenerate once from scratch when extraction rejects the reply.
func (s *RecipeService) generate(ctx context.Context, messages []domain.ChatMessage) (*domain.Recipe, error) {
	req := provider.Request{
		Messages:    messages,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt < s.attempts(); attempt++ {
		raw, err := s.Invoker.Complete(ctx, s.Models, req)
		if err != nil {
			return nil, err
		}

		recipe, err := extract.Recipe(raw)
		if err == nil {
			if reservedName(recipe.Name) {
				lastErr = ErrReservedName
				continue
			}
			normalizeRecipe(recipe)
			return recipe, nil
		}

		var inc *extract.IncompleteError
		if !errors.As(err, &inc) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// reservedName reports whether name matches the reserved marker,
// case-insensitively and ignoring surrounding whitespace.
func reservedName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), domain.ReservedRecipeName)
}

// Save persists a caller-provided recipe, rejecting the reserved name.
func (s *RecipeService) Save(ctx context.Context, session string, recipe *domain.Recipe) error {
	if reservedName(recipe.Name) {
		return ErrReservedName
	}
	if !recipe.Valid() {
		return &extract.IncompleteError{Missing: recipe.MissingFields(), Partial: recipe}
	}
	normalizeRecipe(recipe)
	s.persist(ctx, session, recipe)
	return nil
}

// Get loads a recipe by name from the caller's session.
func (s *RecipeService) Get(ctx context.Context, session, name string) (*domain.Recipe, error) {
	raw, ok := s.Store.Get(ctx, session, domain.KindRecipe, name)
	if !ok {
		return nil, ErrRecipeNotFound
	}
	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return nil, ErrRecipeNotFound
	}
	return &recipe, nil
}

// List returns every recipe stored in the session, in store order.
func (s *RecipeService) List(ctx context.Context, session string) []domain.Recipe {
	entries := s.Store.List(ctx, session, domain.KindRecipe)
	out := make([]domain.Recipe, 0, len(entries))
	for _, e := range entries {
		var recipe domain.Recipe
		if err := json.Unmarshal([]byte(e.Value), &recipe); err != nil {
			continue
		}
		out = append(out, recipe)
	}
	return out
}

// Delete removes one recipe by name.
func (s *RecipeService) Delete(ctx context.Context, session, name string) error {
	if !s.Store.Delete(ctx, session, domain.KindRecipe, name) {
		return ErrRecipeNotFound
	}
	return nil
}

// DeleteAll removes every recipe in the session.
func (s *RecipeService) DeleteAll(ctx context.Context, session string) {
	s.Store.DeleteKind(ctx, session, domain.KindRecipe)
}

// persist writes the recipe under its name; store failures are already
// logged by the store and deliberately not surfaced.
func (s *RecipeService) persist(ctx context.Context, session string, recipe *domain.Recipe) {
	blob, err := json.Marshal(recipe)
	if err != nil {
		return
	}
	s.Store.Put(ctx, session, domain.KindRecipe, recipe.Name, string(blob))
}

// normalizeRecipe applies presentation conventions to an accepted recipe:
// trimmed title-cased name and times rounded to the nearest five minutes.
func normalizeRecipe(r *domain.Recipe) {
	titleCaser := cases.Title(language.English)
	r.Name = titleCaser.String(strings.TrimSpace(r.Name))
	if r.PrepMinutes != nil {
		v := domain.RoundMinutes(*r.PrepMinutes)
		r.PrepMinutes = &v
	}
	if r.CookMinutes != nil {
		v := domain.RoundMinutes(*r.CookMinutes)
		r.CookMinutes = &v
	}
	if r.TotalMinutes != nil {
		v := domain.RoundMinutes(*r.TotalMinutes)
		r.TotalMinutes = &v
	}
}
