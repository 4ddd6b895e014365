// Package gemini provides a completion client backed by the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
)

const (
	DefaultModel   = "gemini-3-flash-preview"
	DefaultTimeout = 60 * time.Second
)

// Client implements the CompletionClient interface.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client. An empty apiKey yields a client
// that reports IsAvailable()==false so callers can fall back locally.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		model:   DefaultModel,
		timeout: DefaultTimeout,
		logger:  common.NewSilentLogger(),
	}

	if apiKey != "" {
		genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		c.client = genaiClient
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// IsAvailable reports whether the client is configured with credentials.
func (c *Client) IsAvailable() bool {
	return c.client != nil
}

// Complete generates a completion for a prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", &models.UpstreamError{Provider: "gemini", Err: fmt.Errorf("no API key configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug().Str("model", c.model).Int("prompt_len", len(prompt)).Msg("Generating completion")

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &models.UpstreamError{Provider: "gemini", Err: err}
	}

	return extractText(result)
}

func extractText(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", &models.UpstreamError{Provider: "gemini", Err: fmt.Errorf("no content generated")}
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

var _ interfaces.CompletionClient = (*Client)(nil)
