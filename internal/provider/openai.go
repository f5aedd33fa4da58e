// OpenAI-compatible chat-completions client.
//
// The client is written directly over net/http rather than an SDK so the
// base URL can point at any OpenAI-compatible endpoint (OpenAI itself, a
// proxy, or an httptest server in tests).
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	chatCompletionsPath  = "/chat/completions"
)

// Interface compliance check.
var _ Completer = (*OpenAIClient)(nil)

// OpenAIClient implements Completer for the OpenAI chat-completions API and
// any API that speaks the same wire format.
type OpenAIClient struct {
	apiKey     string
	org        string
	baseURL    string
	httpClient *http.Client
}

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient = hc }
}

// WithOrganization sets the OpenAI-Organization header value.
func WithOrganization(org string) OpenAIOption {
	return func(c *OpenAIClient) { c.org = org }
}

// NewOpenAIClient creates a client with the given API key and options.
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    openAIDefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type oaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaResponseFormat struct {
	Type string `json:"type"`
}

type oaRequest struct {
	Model          string            `json:"model"`
	Messages       []oaMessage       `json:"messages"`
	Temperature    float64           `json:"temperature,omitempty"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat *oaResponseFormat `json:"response_format,omitempty"`
}

type oaResponse struct {
	Choices []struct {
		Message oaMessage `json:"message"`
	} `json:"choices"`
}

type oaErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one chat completion and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, model string, req Request) (string, error) {
	body, err := json.Marshal(c.buildRequest(model, req))
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.org != "" {
		httpReq.Header.Set("OpenAI-Organization", c.org)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseOpenAIError(resp)
	}

	var out oaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		// An empty choice list is still a transport-level success; the
		// extractor downstream will reject the empty content.
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) buildRequest(model string, req Request) oaRequest {
	msgs := make([]oaMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, oaMessage{Role: string(m.Role), Content: m.Content})
	}
	out := oaRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		out.ResponseFormat = &oaResponseFormat{Type: "json_object"}
	}
	return out
}

func parseOpenAIError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	var apiErr oaErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return &APIError{Status: resp.StatusCode, Message: string(body)}
	}
	return &APIError{Status: resp.StatusCode, Type: apiErr.Error.Type, Message: apiErr.Error.Message}
}

// SystemMessage is a convenience constructor used by prompt builders.
func SystemMessage(content string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.RoleSystem, Content: content}
}

// UserMessage is a convenience constructor used by prompt builders.
func UserMessage(content string) domain.ChatMessage {
	return domain.ChatMessage{Role: domain.RoleUser, Content: content}
}
