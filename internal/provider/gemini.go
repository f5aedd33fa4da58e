// Gemini completer over the Google generative-ai SDK.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

// Interface compliance check.
var _ Completer = (*GeminiClient)(nil)

// GeminiClient implements Completer for Google Gemini models. The model
// identifier passed to Complete selects the generative model per call, so a
// single client serves an entire fallback list.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient dials the Gemini API with the given key.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Close releases the underlying gRPC connection.
func (c *GeminiClient) Close() error { return c.client.Close() }

// Complete runs one chat turn. The request's system message becomes the
// system instruction, prior turns become chat history, and the final user
// message is sent as the prompt.
func (c *GeminiClient) Complete(ctx context.Context, model string, req Request) (string, error) {
	gm := c.client.GenerativeModel(model)
	if req.Temperature > 0 {
		gm.SetTemperature(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSONMode {
		gm.ResponseMIMEType = "application/json"
	}

	history, prompt := splitHistory(req.Messages, gm)
	cs := gm.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return collectText(resp), nil
}

// splitHistory converts provider-agnostic messages into genai history plus
// the final user prompt. System messages are folded into the model's system
// instruction rather than the history.
func splitHistory(msgs []domain.ChatMessage, gm *genai.GenerativeModel) ([]*genai.Content, string) {
	var history []*genai.Content
	prompt := ""

	lastUser := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleUser {
			lastUser = i
			break
		}
	}

	for i, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
		case domain.RoleUser:
			if i == lastUser {
				prompt = m.Content
				continue
			}
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		case domain.RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}
	return history, prompt
}

// collectText concatenates the text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
