// Package openai implements services.CompletionClient on top of the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"expense-categorizer-api/internal/metrics"
	"expense-categorizer-api/internal/services"
)

// DefaultBaseURL is the public OpenAI API endpoint
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds client configuration
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client sends single-message chat completions
type Client struct {
	api *goopenai.Client
}

// NewClient creates a new completion client
func NewClient(cfg Config) *Client {
	apiConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		apiConfig.HTTPClient = cfg.HTTPClient
	}

	return &Client{
		api: goopenai.NewClientWithConfig(apiConfig),
	}
}

// Complete sends the prompt as one user message and returns the first choice's content.
// An empty string is returned when the API answers without choices.
func (c *Client) Complete(ctx context.Context, req services.CompletionRequest) (string, error) {
	start := time.Now()

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		metrics.ObserveUpstream(metrics.OutcomeError, time.Since(start))
		return "", translateError(err)
	}
	metrics.ObserveUpstream(metrics.OutcomeSuccess, time.Since(start))

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// translateError converts API failures into services.UpstreamError and leaves
// transport failures untouched.
func translateError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &services.UpstreamError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &services.UpstreamError{
			StatusCode: reqErr.HTTPStatusCode,
			Err:        err,
		}
	}

	return err
}
