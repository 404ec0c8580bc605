package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment  string
	Port         string
	MaxBodyBytes int64
	OpenAI       OpenAIConfig
	Logging      LoggingConfig
}

// OpenAIConfig holds completion API configuration
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Set up Viper
	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("MAX_BODY_BYTES", 1<<20)
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("OPENAI_MAX_TOKENS", 4096)
	viper.SetDefault("OPENAI_TEMPERATURE", 0.1)
	viper.SetDefault("OPENAI_TIMEOUT", "0s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "")

	config := &Config{
		Environment:  viper.GetString("ENVIRONMENT"),
		Port:         viper.GetString("PORT"),
		MaxBodyBytes: viper.GetInt64("MAX_BODY_BYTES"),
		OpenAI: OpenAIConfig{
			APIKey:      viper.GetString("OPENAI_API_KEY"),
			BaseURL:     viper.GetString("OPENAI_BASE_URL"),
			Model:       viper.GetString("OPENAI_MODEL"),
			MaxTokens:   viper.GetInt("OPENAI_MAX_TOKENS"),
			Temperature: viper.GetFloat64("OPENAI_TEMPERATURE"),
			Timeout:     viper.GetDuration("OPENAI_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}

	if config.Logging.Format == "" {
		config.Logging.Format = "text"
		if config.IsProduction() {
			config.Logging.Format = "json"
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values the service cannot run with.
// A missing API key is not an error here: requests fail individually instead.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.OpenAI.Model == "" {
		return fmt.Errorf("OPENAI_MODEL must not be empty")
	}
	if c.OpenAI.MaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", c.OpenAI.MaxTokens)
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be between 0 and 2, got %v", c.OpenAI.Temperature)
	}
	if c.OpenAI.Timeout < 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must not be negative")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
