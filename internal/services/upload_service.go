// Package services – UploadService
//
// This file implements the upload-and-edit flow, the only stateful sequence
// in the system:
//
//	awaiting_upload → extracted → user_edited → answered
//
// Transitions are driven entirely by user actions; there are no timeouts or
// automatic retries between states. Saving the formatted recipe or starting
// a new upload are the terminal actions. The current state is persisted in
// the session store under a fixed name, so the flow survives process
// restarts as long as the store does.
package services

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/provider"
)

// uploadEntryName is the fixed per-session name of the upload-flow entry.
const uploadEntryName = "current"

// UploadService drives the upload-and-edit state machine.
type UploadService struct {
	Invoker Invoker
	Store   Store
	Recipes *RecipeService

	Models      []string
	Temperature float64
	MaxTokens   int
}

// Begin starts (or restarts) the flow for a session. Any prior upload state
// is replaced.
func (s *UploadService) Begin(ctx context.Context, session string) *domain.Upload {
	up := &domain.Upload{State: domain.UploadAwaiting}
	s.persist(ctx, session, up)
	return up
}

// Current returns the session's upload state.
func (s *UploadService) Current(ctx context.Context, session string) (*domain.Upload, error) {
	raw, ok := s.Store.Get(ctx, session, domain.KindUpload, uploadEntryName)
	if !ok {
		return nil, ErrNoUpload
	}
	var up domain.Upload
	if err := json.Unmarshal([]byte(raw), &up); err != nil {
		return nil, ErrNoUpload
	}
	return &up, nil
}

// Receive stores extracted upload text, moving awaiting_upload → extracted.
// Receiving while a flow is mid-edit restarts it with the new text, which is
// the "starts a new upload" terminal action.
func (s *UploadService) Receive(ctx context.Context, session, rawText string) (*domain.Upload, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptySpecification
	}
	up := &domain.Upload{State: domain.UploadExtracted, RawText: rawText}
	s.persist(ctx, session, up)
	return up, nil
}

// Edit replaces the working text with the user's edited version, moving
// extracted (or answered) → user_edited.
func (s *UploadService) Edit(ctx context.Context, session, editedText string) (*domain.Upload, error) {
	up, err := s.Current(ctx, session)
	if err != nil {
		return nil, err
	}
	if up.State == domain.UploadAwaiting {
		return nil, ErrUploadState
	}
	if strings.TrimSpace(editedText) == "" {
		return nil, ErrEmptySpecification
	}
	up.State = domain.UploadUserEdited
	up.RawText = editedText
	up.Question, up.Answer = "", ""
	s.persist(ctx, session, up)
	return up, nil
}

// Ask answers a question about the working text via the fallback invoker,
// moving the flow to answered.
func (s *UploadService) Ask(ctx context.Context, session, question string) (*domain.Upload, error) {
	tr := otel.Tracer("services/UploadService")
	ctx, span := tr.Start(ctx, "Ask",
		trace.WithAttributes(attribute.String("session.id", session)),
	)
	defer span.End()

	up, err := s.Current(ctx, session)
	if err != nil {
		return nil, err
	}
	if up.State == domain.UploadAwaiting || up.RawText == "" {
		return nil, ErrUploadState
	}
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyMessage
	}

	raw, err := s.Invoker.Complete(ctx, s.Models, provider.Request{
		Messages:    uploadQuestionPrompt(up.RawText, question),
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	up.State = domain.UploadAnswered
	up.Question = strings.TrimSpace(question)
	up.Answer = strings.TrimSpace(raw)
	s.persist(ctx, session, up)
	return up, nil
}

// SaveRecipe formats the working text into a structured recipe, persists it,
// and ends the flow. This is the saving terminal action.
func (s *UploadService) SaveRecipe(ctx context.Context, session string) (*domain.Recipe, error) {
	up, err := s.Current(ctx, session)
	if err != nil {
		return nil, err
	}
	if up.State == domain.UploadAwaiting || up.RawText == "" {
		return nil, ErrUploadState
	}

	recipe, err := s.Recipes.Format(ctx, up.RawText)
	if err != nil {
		return nil, err
	}
	if err := s.Recipes.Save(ctx, session, recipe); err != nil {
		return nil, err
	}

	s.Store.Delete(ctx, session, domain.KindUpload, uploadEntryName)
	return recipe, nil
}

func (s *UploadService) persist(ctx context.Context, session string, up *domain.Upload) {
	blob, err := json.Marshal(up)
	if err != nil {
		return
	}
	s.Store.Put(ctx, session, domain.KindUpload, uploadEntryName, string(blob))
}
