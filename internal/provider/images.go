// Asynchronous image-generation client.
//
// Image backends run generation as a job: submit returns a job ID, and the
// caller polls a status endpoint until the job reaches a terminal state. The
// poller here waits on a fixed interval but is fully cancellable: it stops on
// context cancellation and enforces a maximum total wait, so no request can
// block indefinitely on a stuck job.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/plateful/go-recipe-backend/internal/domain"
)

const (
	imageSubmitPath = "/images/generations"
	imageStatusPath = "/images/jobs/"

	// DefaultPollInterval matches the cadence the backends tolerate without
	// rate limiting status checks.
	DefaultPollInterval = 1450 * time.Millisecond

	// DefaultPollMaxWait bounds the total time spent waiting on one job.
	DefaultPollMaxWait = 2 * time.Minute
)

// ErrJobTimeout is returned when a job does not reach a terminal state
// within the configured maximum wait.
var ErrJobTimeout = errors.New("provider: image job timed out")

// ErrJobFailed is returned when the backend reports the job as failed.
var ErrJobFailed = errors.New("provider: image job failed")

// ImageClient submits image-generation jobs and polls them to completion.
type ImageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// PollInterval and PollMaxWait tune the status loop; zero values fall
	// back to the defaults.
	PollInterval time.Duration
	PollMaxWait  time.Duration
}

// ImageOption configures an ImageClient.
type ImageOption func(*ImageClient)

// WithImageBaseURL sets the API base URL. Useful for testing with httptest.
func WithImageBaseURL(url string) ImageOption {
	return func(c *ImageClient) { c.baseURL = url }
}

// WithImageHTTPClient sets a custom HTTP client.
func WithImageHTTPClient(hc *http.Client) ImageOption {
	return func(c *ImageClient) { c.httpClient = hc }
}

// WithPolling overrides the poll interval and maximum wait.
func WithPolling(interval, maxWait time.Duration) ImageOption {
	return func(c *ImageClient) {
		c.PollInterval = interval
		c.PollMaxWait = maxWait
	}
}

// NewImageClient creates an image client with the given API key and options.
func NewImageClient(apiKey string, opts ...ImageOption) *ImageClient {
	c := &ImageClient{
		apiKey:       apiKey,
		baseURL:      openAIDefaultBaseURL,
		httpClient:   http.DefaultClient,
		PollInterval: DefaultPollInterval,
		PollMaxWait:  DefaultPollMaxWait,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// imageJob is the wire representation of a job status response.
type imageJob struct {
	ID     string `json:"id"`
	Status string `json:"status"` // pending | running | succeeded | failed
	URL    string `json:"url,omitempty"`
	B64    string `json:"b64,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Generate submits a prompt, polls the job to a terminal state, and returns
// the produced image. The context bounds the whole operation; additionally
// PollMaxWait caps the waiting even on a long-lived context.
func (c *ImageClient) Generate(ctx context.Context, model, prompt string) (*domain.Image, error) {
	jobID, err := c.submit(ctx, model, prompt)
	if err != nil {
		return nil, err
	}

	interval := c.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxWait := c.PollMaxWait
	if maxWait <= 0 {
		maxWait = DefaultPollMaxWait
	}

	deadline := time.NewTimer(maxWait)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		job, err := c.status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		switch job.Status {
		case "succeeded":
			return &domain.Image{URL: job.URL, B64: job.B64}, nil
		case "failed":
			if job.Error != "" {
				return nil, fmt.Errorf("%w: %s", ErrJobFailed, job.Error)
			}
			return nil, ErrJobFailed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrJobTimeout
		case <-tick.C:
		}
	}
}

func (c *ImageClient) submit(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"model": model, "prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("images: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+imageSubmitPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("images: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", parseImageError(resp)
	}

	var job imageJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("images: decode response: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("images: submit returned no job id")
	}
	return job.ID, nil
}

func (c *ImageClient) status(ctx context.Context, jobID string) (*imageJob, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+imageStatusPath+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseImageError(resp)
	}

	var job imageJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("images: decode response: %w", err)
	}
	return &job, nil
}

func parseImageError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	return &APIError{Status: resp.StatusCode, Message: string(body)}
}
