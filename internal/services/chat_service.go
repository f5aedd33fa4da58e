// Package services – ChatService
//
// This file implements ChatService, which manages session-scoped
// conversation threads. History is persisted as a ranged list in the store
// (one entry per turn, ordered by position); each Answer call loads the
// thread, appends the user turn, runs the fallback invoker over the full
// context, and persists both turns.
//
// History is best-effort: when the store is unavailable the conversation
// simply continues without context, matching the store's degrade-to-empty
// policy.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plateful/go-recipe-backend/internal/domain"
	"github.com/plateful/go-recipe-backend/internal/provider"
)

// ChatService coordinates conversation turns against the fallback invoker.
type ChatService struct {
	Invoker Invoker
	Store   Store

	Models      []string
	Temperature float64
	MaxTokens   int

	// MaxHistoryTurns caps how many prior turns are replayed to the
	// provider. Values < 1 default to 20.
	MaxHistoryTurns int
}

// Answer appends a user message to the thread, obtains the assistant reply,
// and persists both turns. threadID groups turns within the session; callers
// typically use one thread per recipe or one general thread.
func (s *ChatService) Answer(ctx context.Context, session, threadID, message string) (*domain.ChatMessage, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Answer",
		trace.WithAttributes(
			attribute.String("session.id", session),
			attribute.String("thread.id", threadID),
		),
	)
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	history := s.History(ctx, session, threadID)

	msgs := make([]domain.ChatMessage, 0, len(history)+2)
	msgs = append(msgs, provider.SystemMessage(chatSystemPrompt))
	msgs = append(msgs, s.trim(history)...)
	userMsg := provider.UserMessage(message)
	msgs = append(msgs, userMsg)

	raw, err := s.Invoker.Complete(ctx, s.Models, provider.Request{
		Messages:    msgs,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	reply := domain.ChatMessage{Role: domain.RoleAssistant, Content: strings.TrimSpace(raw)}

	pos := len(history)
	s.persistTurn(ctx, session, threadID, pos, userMsg)
	s.persistTurn(ctx, session, threadID, pos+1, reply)

	return &reply, nil
}

// History loads the ordered turns of a thread. Store failures yield an empty
// history.
func (s *ChatService) History(ctx context.Context, session, threadID string) []domain.ChatMessage {
	entries := s.Store.ListRange(ctx, session, domain.KindChatHistory, 0, -1)
	out := make([]domain.ChatMessage, 0, len(entries))
	prefix := threadID + "/"
	for _, e := range entries {
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(e.Value), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// Clear removes a thread's history.
func (s *ChatService) Clear(ctx context.Context, session, threadID string) {
	prefix := threadID + "/"
	for _, e := range s.Store.List(ctx, session, domain.KindChatHistory) {
		if strings.HasPrefix(e.Name, prefix) {
			s.Store.Delete(ctx, session, domain.KindChatHistory, e.Name)
		}
	}
}

// trim returns the most recent turns within the configured window.
func (s *ChatService) trim(history []domain.ChatMessage) []domain.ChatMessage {
	max := s.MaxHistoryTurns
	if max < 1 {
		max = 20
	}
	if len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}

// persistTurn stores one turn at its position within the thread.
func (s *ChatService) persistTurn(ctx context.Context, session, threadID string, pos int, msg domain.ChatMessage) {
	blob, err := json.Marshal(msg)
	if err != nil {
		return
	}
	name := fmt.Sprintf("%s/%06d", threadID, pos)
	s.Store.PutAt(ctx, session, domain.KindChatHistory, name, pos, string(blob))
}
