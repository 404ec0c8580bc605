package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"expense-categorizer-api/internal/adapters/openai"
	"expense-categorizer-api/internal/config"
	"expense-categorizer-api/internal/models"
	"expense-categorizer-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config                *config.Config
	Taxonomy              *models.Taxonomy
	CompletionClient      services.CompletionClient
	CategorizationService services.CategorizationService
}

// NewContainer creates a new dependency injection container backed by the OpenAI API
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	client := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
	})

	return NewContainerWithClient(cfg, client)
}

// NewContainerWithClient creates a container around an existing completion client
func NewContainerWithClient(cfg *config.Config, client services.CompletionClient) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("completion client cannot be nil")
	}

	if cfg.OpenAI.APIKey == "" {
		logrus.Warn("OPENAI_API_KEY is not set; analyze requests will fail until it is configured")
	}

	taxonomy := models.DefaultTaxonomy()

	categorizationService := services.NewCategorizationService(services.CategorizationConfig{
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: float32(cfg.OpenAI.Temperature),
		Timeout:     cfg.OpenAI.Timeout,
	}, client, taxonomy)

	return &Container{
		Config:                cfg,
		Taxonomy:              taxonomy,
		CompletionClient:      client,
		CategorizationService: categorizationService,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	// The completion client holds no connections beyond the shared HTTP transport
	return nil
}
