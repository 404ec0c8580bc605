package services

import (
	"context"
	"encoding/json"
	"time"

	"expense-categorizer-api/internal/models"
)

// CompletionRequest is a single-message completion call
type CompletionRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// CompletionClient sends prompts to a text-completion API and returns the reply text.
// Implementations report non-success API responses as *UpstreamError.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CategorizationService extracts and categorizes expenses from report text
type CategorizationService interface {
	Categorize(ctx context.Context, text string) (*CategorizationResult, error)
}

// CategorizationConfig holds the completion settings used for every request
type CategorizationConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// CategorizationResult is the outcome of one categorization.
// Body is the JSON object found in the model reply, compacted but otherwise verbatim.
// Analysis is nil when the object does not have the expected expense shape.
type CategorizationResult struct {
	Body     json.RawMessage
	Analysis *models.AnalysisResult
}
