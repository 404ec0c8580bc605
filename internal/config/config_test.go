package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

var configEnvVars = []string{
	"ENVIRONMENT",
	"PORT",
	"MAX_BODY_BYTES",
	"OPENAI_API_KEY",
	"OPENAI_BASE_URL",
	"OPENAI_MODEL",
	"OPENAI_MAX_TOKENS",
	"OPENAI_TEMPERATURE",
	"OPENAI_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// clearEnv blanks every variable Load reads; viper treats empty values as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			check: func(t *testing.T, config *Config) {
				if config.Port != "8081" {
					t.Errorf("Expected default port 8081, got %s", config.Port)
				}
				if config.OpenAI.APIKey != "" {
					t.Errorf("Expected no API key, got %s", config.OpenAI.APIKey)
				}
				if config.OpenAI.Model != "gpt-4o-mini" {
					t.Errorf("Expected default model gpt-4o-mini, got %s", config.OpenAI.Model)
				}
				if config.OpenAI.MaxTokens != 4096 {
					t.Errorf("Expected default max tokens 4096, got %d", config.OpenAI.MaxTokens)
				}
				if config.OpenAI.Temperature != 0.1 {
					t.Errorf("Expected default temperature 0.1, got %v", config.OpenAI.Temperature)
				}
				if config.OpenAI.Timeout != 0 {
					t.Errorf("Expected no default timeout, got %v", config.OpenAI.Timeout)
				}
				if config.MaxBodyBytes != 1<<20 {
					t.Errorf("Expected default body limit 1MiB, got %d", config.MaxBodyBytes)
				}
				if config.Logging.Format != "text" {
					t.Errorf("Expected text logs in development, got %s", config.Logging.Format)
				}
			},
		},
		{
			name: "custom configuration",
			envVars: map[string]string{
				"ENVIRONMENT":        "production",
				"PORT":               "9000",
				"OPENAI_API_KEY":     "sk-live",
				"OPENAI_BASE_URL":    "http://localhost:11434/v1",
				"OPENAI_MODEL":       "gpt-4o",
				"OPENAI_MAX_TOKENS":  "2048",
				"OPENAI_TEMPERATURE": "0",
				"OPENAI_TIMEOUT":     "45s",
			},
			check: func(t *testing.T, config *Config) {
				if !config.IsProduction() {
					t.Error("Expected production environment")
				}
				if config.Port != "9000" {
					t.Errorf("Expected port 9000, got %s", config.Port)
				}
				if config.OpenAI.APIKey != "sk-live" {
					t.Errorf("Expected API key sk-live, got %s", config.OpenAI.APIKey)
				}
				if config.OpenAI.BaseURL != "http://localhost:11434/v1" {
					t.Errorf("Unexpected base URL %s", config.OpenAI.BaseURL)
				}
				if config.OpenAI.MaxTokens != 2048 {
					t.Errorf("Expected max tokens 2048, got %d", config.OpenAI.MaxTokens)
				}
				if config.OpenAI.Temperature != 0 {
					t.Errorf("Expected temperature 0, got %v", config.OpenAI.Temperature)
				}
				if config.OpenAI.Timeout != 45*time.Second {
					t.Errorf("Expected timeout 45s, got %v", config.OpenAI.Timeout)
				}
				if config.Logging.Format != "json" {
					t.Errorf("Expected json logs in production, got %s", config.Logging.Format)
				}
			},
		},
		{
			name:    "invalid temperature",
			envVars: map[string]string{"OPENAI_TEMPERATURE": "3.5"},
			wantErr: true,
		},
		{
			name:    "invalid log format",
			envVars: map[string]string{"LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name:    "invalid max tokens",
			envVars: map[string]string{"OPENAI_MAX_TOKENS": "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			config, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && config != nil {
				tt.check(t, config)
			}
		})
	}
}

func TestAdaptConfigForServerless(t *testing.T) {
	clearEnv(t)

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	config.MaxBodyBytes = 50 << 20

	unchanged := AdaptConfigForServerless(config, &ServerlessConfig{IsLambda: false})
	if unchanged.Logging.Format != "text" {
		t.Errorf("Expected text logs outside Lambda, got %s", unchanged.Logging.Format)
	}

	adapted := AdaptConfigForServerless(config, &ServerlessConfig{IsLambda: true, FunctionName: "analyze"})
	if adapted.Logging.Format != "json" {
		t.Errorf("Expected json logs in Lambda, got %s", adapted.Logging.Format)
	}
	if adapted.MaxBodyBytes != 10<<20 {
		t.Errorf("Expected body limit capped at 10MiB, got %d", adapted.MaxBodyBytes)
	}
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	if err := ConfigureLogging(LoggingConfig{Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("ConfigureLogging() error = %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %s", logrus.GetLevel())
	}
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter); !ok {
		t.Error("Expected JSON formatter")
	}

	if err := ConfigureLogging(LoggingConfig{Level: "loud", Format: "text"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("STAGE", "")
	if got := GetEnv("STAGE", "dev"); got != "dev" {
		t.Errorf("Expected fallback 'dev', got '%s'", got)
	}

	t.Setenv("STAGE", "prod")
	if got := GetEnv("STAGE", "dev"); got != "prod" {
		t.Errorf("Expected 'prod', got '%s'", got)
	}
}
