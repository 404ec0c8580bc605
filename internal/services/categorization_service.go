package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"expense-categorizer-api/internal/jsonscan"
	"expense-categorizer-api/internal/metrics"
	"expense-categorizer-api/internal/models"
	"expense-categorizer-api/internal/prompt"
)

// Defaults for the completion call
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.1
)

// maxLoggedReply bounds the model reply excerpt attached to error logs
const maxLoggedReply = 500

// categorizationService implements the CategorizationService interface
type categorizationService struct {
	config    CategorizationConfig
	client    CompletionClient
	prompts   *prompt.Builder
	taxonomy  *models.Taxonomy
	validator *validator.Validate
}

// DefaultCategorizationConfig returns the default completion settings without an API key
func DefaultCategorizationConfig() CategorizationConfig {
	return CategorizationConfig{
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// NewCategorizationService creates a new categorization service instance
func NewCategorizationService(config CategorizationConfig, client CompletionClient, taxonomy *models.Taxonomy) CategorizationService {
	if taxonomy == nil {
		taxonomy = models.DefaultTaxonomy()
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	return &categorizationService{
		config:    config,
		client:    client,
		prompts:   prompt.NewBuilder(taxonomy),
		taxonomy:  taxonomy,
		validator: validator.New(),
	}
}

// Categorize finds every expense in the report text and assigns it a category.
// The model output is trusted: categories outside the taxonomy are logged, not rejected.
func (s *categorizationService) Categorize(ctx context.Context, text string) (*CategorizationResult, error) {
	if err := s.validator.Struct(&models.AnalyzeRequest{Text: text}); err != nil {
		return nil, ErrNoText
	}

	if s.config.APIKey == "" {
		logrus.Error("Completion API key is not configured")
		return nil, ErrMissingAPIKey
	}

	promptText, err := s.prompts.Build(text)
	if err != nil {
		return nil, err
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.client.Complete(ctx, CompletionRequest{
		Model:       s.config.Model,
		Prompt:      promptText,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"model":      s.config.Model,
			"latency_ms": time.Since(start).Milliseconds(),
			"error":      err.Error(),
		}).Warn("Completion request failed")

		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			return nil, err
		}
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	body, err := jsonscan.FirstObject(reply)
	if err != nil {
		fields := logrus.Fields{
			"model":       s.config.Model,
			"reply_chars": utf8.RuneCountInString(reply),
			"reply":       excerpt(reply, maxLoggedReply),
		}
		if errors.Is(err, jsonscan.ErrNoObject) {
			logrus.WithFields(fields).Error("Model reply contains no JSON object")
			return nil, ErrInvalidAIResponse
		}
		fields["error"] = err.Error()
		logrus.WithFields(fields).Error("Model reply contains malformed JSON")
		return nil, err
	}

	result := &CategorizationResult{Body: body}

	var analysis models.AnalysisResult
	if err := json.Unmarshal(body, &analysis); err != nil {
		logrus.WithError(err).Warn("Model reply does not match the expense shape, returning it as is")
		return result, nil
	}
	result.Analysis = &analysis

	metrics.AddExpenses(len(analysis.Expenses))
	if unknown := analysis.UnknownCategories(s.taxonomy); len(unknown) > 0 {
		metrics.AddUnknownCategories(len(unknown))
		logrus.WithFields(logrus.Fields{
			"unknown_categories": unknown,
		}).Warn("Model returned categories outside the taxonomy")
	}

	logrus.WithFields(logrus.Fields{
		"model":         s.config.Model,
		"latency_ms":    time.Since(start).Milliseconds(),
		"expense_count": len(analysis.Expenses),
		"total_amount":  analysis.Total(),
	}).Info("Expenses categorized")

	return result, nil
}

func excerpt(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "…"
}
